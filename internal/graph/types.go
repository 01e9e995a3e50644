package graph

// Position is a node's placement on the editor canvas. Scheduling tie-breaks
// compare positions, so two graphs that differ only in layout may linearize
// differently. That is intended: order is user-visible.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Port is one named input or output slot on a node, carrying the serialized
// name of its declared data type ("unknown" when undetermined).
type Port struct {
	Key      string `json:"key"`
	DataType string `json:"dataType"`
}

// Ports groups a node's input and output slots.
type Ports struct {
	Inputs  []Port `json:"inputs"`
	Outputs []Port `json:"outputs"`
}

// Node is one tool instance placed on the canvas. LiteralValues holds the
// values of input keys that are not fed by an edge. ConnectedInputKeys and
// ConnectedOutputKeys are derived views of the edge set: RecomputeConnections
// rebuilds them, and nothing may update them incrementally.
type Node struct {
	ID                  string         `json:"id"`
	ToolID              string         `json:"toolId"`
	Position            Position       `json:"position"`
	Ports               Ports          `json:"ports"`
	LiteralValues       map[string]any `json:"literalValues,omitempty"`
	ConnectedInputKeys  []string       `json:"connectedInputKeys,omitempty"`
	ConnectedOutputKeys []string       `json:"connectedOutputKeys,omitempty"`
	Bypass              bool           `json:"bypass,omitempty"`
}

// Edge is one directed data connection from a source node's output port to a
// target node's input port. SourceDataType records the declared type of the
// source port at the time the edge was derived.
type Edge struct {
	ID             string `json:"id"`
	SourceNodeID   string `json:"sourceNodeId"`
	SourcePortKey  string `json:"sourcePortKey"`
	TargetNodeID   string `json:"targetNodeId"`
	TargetPortKey  string `json:"targetPortKey"`
	SourceDataType string `json:"sourceDataType"`
}

// Graph is the editor-facing dependency graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns a pointer to the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// IncomingEdges returns the edges targeting the given node, in stored order.
func (g *Graph) IncomingEdges(nodeID string) []Edge {
	var in []Edge
	for _, e := range g.Edges {
		if e.TargetNodeID == nodeID {
			in = append(in, e)
		}
	}
	return in
}
