package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/graph"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/scheduler"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	passthrough := func(ctx context.Context, input map[string]any) (any, error) { return input, nil }

	reg := registry.New()
	require.NoError(t, reg.Register(&tool.Definition{
		ID: "producer",
		Outputs: tool.Shape{
			{Key: "x", Type: cty.String},
			{Key: "count", Type: cty.Number},
		},
		Run: passthrough,
	}))
	require.NoError(t, reg.Register(&tool.Definition{
		ID: "consumer",
		Inputs: tool.Shape{
			{Key: "a", Type: cty.String, Required: true},
			{Key: "b", Type: cty.DynamicPseudoType},
		},
		Run: passthrough,
	}))
	return reg
}

func TestGraphToPipeline(t *testing.T) {
	t.Run("rewrites edges as expressions and keeps unconnected literals", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{
				{ID: "n-a", ToolID: "producer", Position: graph.Position{X: 0}},
				{
					ID:       "n-b",
					ToolID:   "consumer",
					Position: graph.Position{X: 100},
					// The stale literal for "a" loses to the edge feeding it.
					LiteralValues: map[string]any{"a": "stale", "b": float64(42)},
					Bypass:        true,
				},
			},
			Edges: []graph.Edge{{
				ID:            "e1",
				SourceNodeID:  "n-a",
				SourcePortKey: "x",
				TargetNodeID:  "n-b",
				TargetPortKey: "a",
			}},
		}

		p, err := GraphToPipeline(context.Background(), g)
		require.NoError(t, err)
		require.Len(t, p.Steps, 2)

		assert.Equal(t, "producer", p.Steps[0].ToolID)
		assert.Nil(t, p.Steps[0].Input)

		assert.Equal(t, "consumer", p.Steps[1].ToolID)
		assert.True(t, p.Steps[1].Bypass)
		assert.Equal(t, map[string]any{
			"a": "${{ steps.0.output.x }}",
			"b": float64(42),
		}, p.Steps[1].Input)
	})

	t.Run("whole-output port renders without a path", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{
				{ID: "src", ToolID: "producer", Position: graph.Position{X: 0}},
				{ID: "dst", ToolID: "consumer", Position: graph.Position{X: 100}},
			},
			Edges: []graph.Edge{{
				ID:            "e1",
				SourceNodeID:  "src",
				SourcePortKey: WholeOutputPort,
				TargetNodeID:  "dst",
				TargetPortKey: "b",
			}},
		}

		p, err := GraphToPipeline(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, "${{ steps.0.output }}", p.Steps[1].Input["b"])
	})

	t.Run("orders independent nodes by position", func(t *testing.T) {
		g := &graph.Graph{Nodes: []graph.Node{
			{ID: "right", ToolID: "producer", Position: graph.Position{X: 500}},
			{ID: "left", ToolID: "consumer", Position: graph.Position{X: 10}},
		}}

		p, err := GraphToPipeline(context.Background(), g)
		require.NoError(t, err)
		assert.Equal(t, "consumer", p.Steps[0].ToolID)
		assert.Equal(t, "producer", p.Steps[1].ToolID)
	})

	t.Run("cyclic graph surfaces the scheduler error", func(t *testing.T) {
		g := &graph.Graph{
			Nodes: []graph.Node{
				{ID: "a", ToolID: "producer"},
				{ID: "b", ToolID: "consumer"},
			},
			Edges: []graph.Edge{
				{ID: "e1", SourceNodeID: "a", SourcePortKey: "x", TargetNodeID: "b", TargetPortKey: "a"},
				{ID: "e2", SourceNodeID: "b", SourcePortKey: "out", TargetNodeID: "a", TargetPortKey: "in"},
			},
		}

		p, err := GraphToPipeline(context.Background(), g)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, scheduler.ErrCycleDetected)
	})

	t.Run("empty graph yields an empty pipeline", func(t *testing.T) {
		p, err := GraphToPipeline(context.Background(), &graph.Graph{})
		require.NoError(t, err)
		assert.Empty(t, p.Steps)
	})
}

func TestPipelineToGraph(t *testing.T) {
	reg := testRegistry(t)

	t.Run("synthesizes nodes with declared ports and derived edges", func(t *testing.T) {
		p := &pipeline.Pipeline{Steps: []pipeline.Step{
			{ToolID: "producer"},
			{ToolID: "consumer", Input: map[string]any{
				"a": "${{ steps.0.output.x }}",
				"b": "plain literal",
			}},
		}}

		g := PipelineToGraph(context.Background(), p, reg, nil)
		require.Len(t, g.Nodes, 2)
		require.Len(t, g.Edges, 1)

		src, ok := g.Node("step-0")
		require.True(t, ok)
		assert.Equal(t, []graph.Port{
			{Key: "x", DataType: tool.TypeString},
			{Key: "count", DataType: tool.TypeNumber},
		}, src.Ports.Outputs)
		assert.Equal(t, []string{"x"}, src.ConnectedOutputKeys)

		dst, ok := g.Node("step-1")
		require.True(t, ok)
		assert.Equal(t, []graph.Port{
			{Key: "a", DataType: tool.TypeString},
			{Key: "b", DataType: tool.TypeAny},
		}, dst.Ports.Inputs)
		assert.Equal(t, []string{"a"}, dst.ConnectedInputKeys)
		assert.Equal(t, map[string]any{"b": "plain literal"}, dst.LiteralValues)

		e := g.Edges[0]
		assert.Equal(t, "edge-step-0.x-step-1.a", e.ID)
		assert.Equal(t, "step-0", e.SourceNodeID)
		assert.Equal(t, "x", e.SourcePortKey)
		assert.Equal(t, "step-1", e.TargetNodeID)
		assert.Equal(t, "a", e.TargetPortKey)
		assert.Equal(t, tool.TypeString, e.SourceDataType)

		require.NoError(t, g.Validate())
	})

	t.Run("only earlier-step references become edges", func(t *testing.T) {
		// Inline interpolations, variable references, forward references,
		// self references, and plain values all stay literal.
		p := &pipeline.Pipeline{Steps: []pipeline.Step{
			{ToolID: "producer"},
			{ToolID: "consumer", Input: map[string]any{
				"a": "prefix ${{ steps.0.output.x }}",
				"b": "${{ variables.k }}",
				"c": "${{ steps.5.output }}",
				"d": "${{ steps.1.output }}",
				"e": float64(3),
			}},
		}}

		g := PipelineToGraph(context.Background(), p, reg, nil)
		assert.Empty(t, g.Edges)

		dst, _ := g.Node("step-1")
		assert.Len(t, dst.LiteralValues, 5)
		assert.Equal(t, "${{ steps.5.output }}", dst.LiteralValues["c"])
	})

	t.Run("legacy mapping becomes an edge and wins over the expression", func(t *testing.T) {
		p := &pipeline.Pipeline{Steps: []pipeline.Step{
			{ToolID: "producer"},
			{ToolID: "consumer",
				Input: map[string]any{"a": "${{ steps.0.output.x }}"},
				LegacyMapping: map[string]pipeline.Mapping{
					"a": {FromStep: 0, Field: "count"},
				},
			},
		}}

		g := PipelineToGraph(context.Background(), p, reg, nil)
		require.Len(t, g.Edges, 1)

		e := g.Edges[0]
		assert.Equal(t, "count", e.SourcePortKey)
		assert.Equal(t, tool.TypeNumber, e.SourceDataType)

		dst, _ := g.Node("step-1")
		assert.Empty(t, dst.LiteralValues)
	})

	t.Run("deep references reduce to their entry port", func(t *testing.T) {
		p := &pipeline.Pipeline{Steps: []pipeline.Step{
			{ToolID: "producer"},
			{ToolID: "consumer", Input: map[string]any{
				"b": "${{ steps.0.output.nested.value }}",
			}},
		}}

		g := PipelineToGraph(context.Background(), p, reg, nil)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, "nested", g.Edges[0].SourcePortKey)
		assert.Equal(t, tool.TypeUnknown, g.Edges[0].SourceDataType)

		// The undeclared port is added so the edge has an anchor.
		src, _ := g.Node("step-0")
		assert.Contains(t, src.Ports.Outputs, graph.Port{Key: "nested", DataType: tool.TypeUnknown})
	})

	t.Run("unregistered tools get untyped ports", func(t *testing.T) {
		p := &pipeline.Pipeline{Steps: []pipeline.Step{
			{ToolID: "ghost", Input: map[string]any{"k": "v"}},
			{ToolID: "consumer", Input: map[string]any{"b": "${{ steps.0.output }}"}},
		}}

		g := PipelineToGraph(context.Background(), p, reg, nil)
		src, _ := g.Node("step-0")
		assert.Equal(t, []graph.Port{{Key: "k", DataType: tool.TypeUnknown}}, src.Ports.Inputs)
		assert.Equal(t, []graph.Port{{Key: WholeOutputPort, DataType: tool.TypeUnknown}}, src.Ports.Outputs)

		require.Len(t, g.Edges, 1)
		assert.Equal(t, tool.TypeUnknown, g.Edges[0].SourceDataType)
	})

	t.Run("applies stored layout and falls back per node", func(t *testing.T) {
		p := &pipeline.Pipeline{Steps: []pipeline.Step{
			{ToolID: "producer"},
			{ToolID: "consumer"},
		}}
		layout := &pipeline.Layout{Nodes: []graph.NodePlacement{
			{ID: "step-0", Position: graph.Position{X: 5, Y: 7}},
		}}

		g := PipelineToGraph(context.Background(), p, reg, layout)
		assert.Equal(t, graph.Position{X: 5, Y: 7}, g.Nodes[0].Position)

		// The node without a stored position lands on its auto-layout slot.
		auto := &graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "b"}}}
		auto.AutoLayout()
		assert.Equal(t, auto.Nodes[1].Position, g.Nodes[1].Position)
	})
}

// TestRoundTrip pins the conversion contract: step order, tool ids, and the
// literal-vs-connected partition of input keys survive pipeline → graph →
// pipeline, even though legacyMapping entries come back as expressions. A
// literal string that happens to match the reference grammar is
// indistinguishable from a real reference and round-trips as a connection;
// that ambiguity is part of the text encoding, not a conversion bug.
func TestRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	p := &pipeline.Pipeline{Steps: []pipeline.Step{
		{ToolID: "producer", Input: map[string]any{"seed": float64(1)}},
		{ToolID: "consumer", Input: map[string]any{
			"a": "${{ steps.0.output.x }}",
			"b": "kept literal",
		}},
		{ToolID: "consumer",
			Input: map[string]any{"b": "inline ${{ steps.0.output.count }}"},
			LegacyMapping: map[string]pipeline.Mapping{
				"a": {FromStep: 1, Field: "echoed"},
			},
			Bypass: true,
		},
	}}

	g := PipelineToGraph(context.Background(), p, reg, nil)
	back, err := GraphToPipeline(context.Background(), g)
	require.NoError(t, err)
	require.Len(t, back.Steps, 3)

	for i, step := range back.Steps {
		assert.Equal(t, p.Steps[i].ToolID, step.ToolID, "step %d tool id", i)
		assert.Equal(t, p.Steps[i].Bypass, step.Bypass, "step %d bypass", i)
	}

	// Step 1: the expression survives verbatim, the literal stays a literal.
	assert.Equal(t, "${{ steps.0.output.x }}", back.Steps[1].Input["a"])
	assert.Equal(t, "kept literal", back.Steps[1].Input["b"])

	// Step 2: the legacy mapping comes back as the equivalent expression and
	// the inline interpolation stays literal text.
	assert.Equal(t, "${{ steps.1.output.echoed }}", back.Steps[2].Input["a"])
	assert.Equal(t, "inline ${{ steps.0.output.count }}", back.Steps[2].Input["b"])
	assert.Empty(t, back.Steps[2].LegacyMapping)
}
