package scheduler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/toolpipe/internal/graph"
)

// ErrCycleDetected is returned when a graph cannot be linearized. No partial
// order accompanies it: a cyclic graph must never be executed.
var ErrCycleDetected = errors.New("cycle detected")

// Order linearizes a graph with Kahn's algorithm. Whenever several nodes are
// ready at once, ties break by ascending position (x, then y, then id), so
// the same graph always yields the same order no matter how its slices were
// assembled. An empty graph yields an empty order.
func Order(g *graph.Graph) ([]string, error) {
	if g == nil || len(g.Nodes) == 0 {
		return nil, nil
	}

	indegree := make(map[string]int, len(g.Nodes))
	successors := make(map[string][]string)
	position := make(map[string]graph.Position, len(g.Nodes))
	for _, n := range g.Nodes {
		indegree[n.ID] = 0
		position[n.ID] = n.Position
	}
	for i, e := range g.Edges {
		if _, ok := indegree[e.SourceNodeID]; !ok {
			return nil, fmt.Errorf("edges[%d]: unknown source node %q", i, e.SourceNodeID)
		}
		if _, ok := indegree[e.TargetNodeID]; !ok {
			return nil, fmt.Errorf("edges[%d]: unknown target node %q", i, e.TargetNodeID)
		}
		indegree[e.TargetNodeID]++
		successors[e.SourceNodeID] = append(successors[e.SourceNodeID], e.TargetNodeID)
	}

	var ready []string
	for _, n := range g.Nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	less := func(a, b string) bool {
		pa, pb := position[a], position[b]
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		return a < b
	}

	order := make([]string, 0, len(g.Nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, succ := range successors[next] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}
