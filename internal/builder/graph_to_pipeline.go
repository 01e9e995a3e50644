package builder

import (
	"context"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/expr"
	"github.com/specialistvlad/toolpipe/internal/graph"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/scheduler"
)

// WholeOutputPort is the conventional port key meaning "the entire output
// object" rather than one of its fields. A reference to steps.<N>.output with
// no path maps onto it, and an edge from it renders back without a path.
const WholeOutputPort = "output"

// GraphToPipeline linearizes a graph into an executable step list. The
// scheduler's deterministic order assigns each node its step index; every
// incoming edge becomes a full reference expression on its target key,
// remaining literal values are carried as-is, and the bypass flag passes
// through verbatim. A cyclic graph surfaces the scheduler's error unchanged.
func GraphToPipeline(ctx context.Context, g *graph.Graph) (*pipeline.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	order, err := scheduler.Order(g)
	if err != nil {
		return nil, err
	}
	indexOf := make(map[string]int, len(order))
	for i, id := range order {
		indexOf[id] = i
	}
	logger.Debug("Graph linearized.", "nodes", len(order))

	p := &pipeline.Pipeline{Steps: make([]pipeline.Step, 0, len(order))}
	for _, id := range order {
		node, _ := g.Node(id)
		incoming := g.IncomingEdges(id)

		// Connectivity comes from the edge set itself, never from the cached
		// connectedInputKeys view.
		connected := make(map[string]bool, len(incoming))
		for _, e := range incoming {
			connected[e.TargetPortKey] = true
		}

		input := make(map[string]any, len(node.LiteralValues)+len(incoming))
		for k, v := range node.LiteralValues {
			if connected[k] {
				continue // an edge feeds this key, the stale literal loses
			}
			input[k] = v
		}
		for _, e := range incoming {
			port := e.SourcePortKey
			if port == WholeOutputPort {
				port = ""
			}
			input[e.TargetPortKey] = expr.StepReference(indexOf[e.SourceNodeID], port)
		}
		if len(input) == 0 {
			input = nil
		}

		p.Steps = append(p.Steps, pipeline.Step{
			ToolID: node.ToolID,
			Input:  input,
			Bypass: node.Bypass,
		})
	}
	return p, nil
}
