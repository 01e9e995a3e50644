package graph

// Auto-layout constants: a single row, left to right, fixed spacing. There is
// no crossing minimization; the layout only has to be readable and stable.
const (
	layoutStartX  = 80.0
	layoutStartY  = 120.0
	layoutSpacing = 240.0
)

// AutoLayout assigns every node a fixed-spacing single-row position in slice
// order. It is both the fallback for nodes without stored positions and the
// full auto-layout offered to users, and it works on cyclic graphs too since
// display never requires a linearization.
func (g *Graph) AutoLayout() {
	for i := range g.Nodes {
		g.Nodes[i].Position = autoPosition(i)
	}
}

func autoPosition(i int) Position {
	return Position{X: layoutStartX + float64(i)*layoutSpacing, Y: layoutStartY}
}

// NodePlacement is one stored node position from a persisted layout.
type NodePlacement struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// ApplyLayout positions nodes from stored placements, falling back to the
// auto-layout slot for any node without one.
func (g *Graph) ApplyLayout(placements []NodePlacement) {
	stored := make(map[string]Position, len(placements))
	for _, p := range placements {
		stored[p.ID] = p.Position
	}
	for i := range g.Nodes {
		if pos, ok := stored[g.Nodes[i].ID]; ok {
			g.Nodes[i].Position = pos
			continue
		}
		g.Nodes[i].Position = autoPosition(i)
	}
}
