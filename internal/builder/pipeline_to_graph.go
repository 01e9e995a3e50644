package builder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/expr"
	"github.com/specialistvlad/toolpipe/internal/graph"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// PipelineToGraph synthesizes the editor-facing graph for a step list. Node
// ids derive from step positions, ports come from the registered tools'
// declared shapes (or are synthesized as "unknown"), and full step-reference
// expressions and legacyMapping entries become inbound edges. Stored layout
// positions are applied when given; nodes without one fall back to the
// auto-layout slot.
func PipelineToGraph(ctx context.Context, p *pipeline.Pipeline, reg *registry.Registry, layout *pipeline.Layout) *graph.Graph {
	logger := ctxlog.FromContext(ctx)
	g := &graph.Graph{}

	createNodes(p, reg, g)
	logger.Debug("Node creation complete.", "nodes", len(g.Nodes))

	linkSteps(p, reg, g)
	logger.Debug("Connection derivation complete.", "edges", len(g.Edges))

	completePorts(g)
	g.RecomputeConnections()

	if layout != nil && len(layout.Nodes) > 0 {
		g.ApplyLayout(layout.Nodes)
	} else {
		g.AutoLayout()
	}
	return g
}

// NodeID names the node synthesized for the step at the given index.
// Position is identity: step 2 of any pipeline is always "step-2".
func NodeID(step int) string {
	return fmt.Sprintf("step-%d", step)
}

// createNodes performs the first pass, one node per step. Known tools get
// ports straight from their declared shapes; for an unregistered tool every
// input key becomes an untyped port so connections still have an anchor.
func createNodes(p *pipeline.Pipeline, reg *registry.Registry, g *graph.Graph) {
	for i, step := range p.Steps {
		node := graph.Node{
			ID:     NodeID(i),
			ToolID: step.ToolID,
			Bypass: step.Bypass,
		}
		if def, ok := reg.Get(step.ToolID); ok {
			for _, f := range def.Inputs {
				node.Ports.Inputs = append(node.Ports.Inputs, graph.Port{Key: f.Key, DataType: tool.TypeName(f.Type)})
			}
			for _, f := range def.Outputs {
				node.Ports.Outputs = append(node.Ports.Outputs, graph.Port{Key: f.Key, DataType: tool.TypeName(f.Type)})
			}
		} else {
			for _, key := range inputKeys(step) {
				node.Ports.Inputs = append(node.Ports.Inputs, graph.Port{Key: key, DataType: tool.TypeUnknown})
			}
		}
		g.Nodes = append(g.Nodes, node)
	}
}

// linkSteps performs the second pass, partitioning each step's input into
// literal values and derived edges. Only a full expression referencing an
// earlier step becomes an edge; anything else (inline interpolations,
// variable references, out-of-range or forward indices) stays a literal so
// its text survives the conversion. legacyMapping entries become equivalent
// edges and overwrite the expression-derived edge for the same key.
func linkSteps(p *pipeline.Pipeline, reg *registry.Registry, g *graph.Graph) {
	for i, step := range p.Steps {
		node := &g.Nodes[i]
		edges := make(map[string]graph.Edge)
		literals := make(map[string]any)

		for key, value := range step.Input {
			if s, isString := value.(string); isString {
				if ref, ok := expr.ParseFull(s); ok && ref.Kind == expr.RefStepOutput && ref.Step < i {
					edges[key] = derivedEdge(p, reg, ref.Step, sourcePort(ref.Path), i, key)
					continue
				}
			}
			literals[key] = value
		}

		for _, key := range sortedMappingKeys(step.LegacyMapping) {
			m := step.LegacyMapping[key]
			if m.FromStep < 0 || m.FromStep >= i {
				continue // no earlier node to anchor the connection to
			}
			delete(literals, key)
			port := WholeOutputPort
			if m.Field != "" {
				port = strings.Split(m.Field, ".")[0]
			}
			edges[key] = derivedEdge(p, reg, m.FromStep, port, i, key)
		}

		if len(literals) > 0 {
			node.LiteralValues = literals
		}
		for _, key := range sortedEdgeKeys(edges) {
			g.Edges = append(g.Edges, edges[key])
		}
	}
}

// derivedEdge builds the edge for one connected input key, annotated with the
// source port's declared data type when the source tool declares it.
func derivedEdge(p *pipeline.Pipeline, reg *registry.Registry, fromStep int, sourcePort string, toStep int, targetPort string) graph.Edge {
	dataType := tool.TypeUnknown
	if def, ok := reg.Get(p.Steps[fromStep].ToolID); ok {
		if f, declared := def.Outputs.Field(sourcePort); declared {
			dataType = tool.TypeName(f.Type)
		}
	}
	source, target := NodeID(fromStep), NodeID(toStep)
	return graph.Edge{
		ID:             fmt.Sprintf("edge-%s.%s-%s.%s", source, sourcePort, target, targetPort),
		SourceNodeID:   source,
		SourcePortKey:  sourcePort,
		TargetNodeID:   target,
		TargetPortKey:  targetPort,
		SourceDataType: dataType,
	}
}

// completePorts adds an untyped port for every connected key a node does not
// already declare, so each edge endpoint exists on its node. This is how an
// unregistered tool's outputs appear, and how undeclared-but-connected keys
// on registered tools stay visible.
func completePorts(g *graph.Graph) {
	for _, e := range g.Edges {
		if node, ok := g.Node(e.TargetNodeID); ok {
			ensurePort(&node.Ports.Inputs, e.TargetPortKey)
		}
		if node, ok := g.Node(e.SourceNodeID); ok {
			ensurePort(&node.Ports.Outputs, e.SourcePortKey)
		}
	}
}

func ensurePort(ports *[]graph.Port, key string) {
	for _, p := range *ports {
		if p.Key == key {
			return
		}
	}
	*ports = append(*ports, graph.Port{Key: key, DataType: tool.TypeUnknown})
}

// sourcePort reduces a reference path to the port it enters through. An edge
// carries only the port key, so deeper segments do not survive conversion.
func sourcePort(path []string) string {
	if len(path) == 0 {
		return WholeOutputPort
	}
	return path[0]
}

// inputKeys lists a step's input and legacyMapping keys, sorted and deduped.
func inputKeys(step pipeline.Step) []string {
	set := make(map[string]struct{}, len(step.Input)+len(step.LegacyMapping))
	for k := range step.Input {
		set[k] = struct{}{}
	}
	for k := range step.LegacyMapping {
		set[k] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMappingKeys(m map[string]pipeline.Mapping) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedEdgeKeys(m map[string]graph.Edge) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
