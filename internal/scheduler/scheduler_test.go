package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/toolpipe/internal/graph"
)

func node(id string, x, y float64) graph.Node {
	return graph.Node{ID: id, Position: graph.Position{X: x, Y: y}}
}

func edge(from, to string) graph.Edge {
	return graph.Edge{ID: from + "-" + to, SourceNodeID: from, SourcePortKey: "out", TargetNodeID: to, TargetPortKey: "in"}
}

func TestOrder(t *testing.T) {
	t.Run("empty and nil graphs yield an empty order", func(t *testing.T) {
		order, err := Order(nil)
		require.NoError(t, err)
		assert.Empty(t, order)

		order, err = Order(&graph.Graph{})
		require.NoError(t, err)
		assert.Empty(t, order)
	})

	t.Run("linear chain follows the edges", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{node("c", 0, 0), node("a", 0, 0), node("b", 0, 0)},
			Edges: []graph.Edge{edge("a", "b"), edge("b", "c")},
		}
		order, err := Order(g)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("ready ties break by x position", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{node("right", 400, 0), node("left", 100, 0), node("sink", 700, 0)},
			Edges: []graph.Edge{edge("right", "sink"), edge("left", "sink")},
		}
		order, err := Order(g)
		require.NoError(t, err)
		assert.Equal(t, []string{"left", "right", "sink"}, order)
	})

	t.Run("then by y, then by id", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{node("low", 100, 300), node("high", 100, 50), node("b", 0, 0), node("a", 0, 0)},
		}
		order, err := Order(g)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "high", "low"}, order)
	})

	t.Run("order does not depend on slice assembly", func(t *testing.T) {
		nodes := []graph.Node{node("a", 100, 0), node("b", 200, 0), node("c", 300, 0)}
		edges := []graph.Edge{edge("a", "b"), edge("a", "c")}

		forward, err := Order(&graph.Graph{Nodes: nodes, Edges: edges})
		require.NoError(t, err)

		reversed := &graph.Graph{
			Nodes: []graph.Node{nodes[2], nodes[1], nodes[0]},
			Edges: []graph.Edge{edges[1], edges[0]},
		}
		backward, err := Order(reversed)
		require.NoError(t, err)
		assert.Equal(t, forward, backward)
	})

	t.Run("cycles yield no partial order", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{node("a", 0, 0), node("b", 100, 0), node("solo", 200, 0)},
			Edges: []graph.Edge{edge("a", "b"), edge("b", "a")},
		}
		order, err := Order(g)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCycleDetected)
		assert.Nil(t, order, "even acyclic members are withheld")
	})

	t.Run("edges must reference known nodes", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{node("a", 0, 0)},
			Edges: []graph.Edge{edge("a", "ghost")},
		}
		_, err := Order(g)
		require.Error(t, err)
		assert.ErrorContains(t, err, `unknown target node "ghost"`)
	})
}
