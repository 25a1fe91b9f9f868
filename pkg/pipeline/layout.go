package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Layout is a settled view: node positions, cluster labels and the
// simulation state they were captured at.
type Layout struct {
	Alpha float64    `json:"alpha"`
	Ticks int        `json:"ticks"`
	Nodes []Position `json:"nodes"`
}

// Position is one node of a [Layout].
type Position struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Cluster string  `json:"cluster,omitempty"`
}

// Capture records the positions and clusters of every node of g.
func Capture(g *graph.Graph, alpha float64, ticks int) Layout {
	l := Layout{Alpha: alpha, Ticks: ticks, Nodes: make([]Position, len(g.Nodes))}
	for i, n := range g.Nodes {
		l.Nodes[i] = Position{ID: n.ID, X: n.X, Y: n.Y, Cluster: n.Cluster}
	}
	return l
}

// Apply restores positions and clusters onto g and marks the nodes as
// placed so the simulation keeps them. Unknown ids are ignored.
func (l Layout) Apply(g *graph.Graph) {
	for _, p := range l.Nodes {
		n, ok := g.Node(p.ID)
		if !ok {
			continue
		}
		n.X, n.Y = p.X, p.Y
		n.VX, n.VY = 0, 0
		n.Cluster = p.Cluster
		n.Placed = true
	}
}

// MarshalLayout encodes a layout as JSON.
func MarshalLayout(l Layout) ([]byte, error) { return json.Marshal(l) }

// UnmarshalLayout decodes a layout from JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	err := json.Unmarshal(data, &l)
	return l, err
}
