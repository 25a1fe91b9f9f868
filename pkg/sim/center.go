package sim

import (
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Center translates all nodes so their mean position is (X, Y). It moves
// positions directly and does not touch velocities.
type Center struct {
	X, Y     float64
	Strength float64

	nodes []*graph.Node
}

// NewCenter creates a centering force at (x, y).
func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (f *Center) Initialize(nodes []*graph.Node, _ *rand.Rand) { f.nodes = nodes }

func (f *Center) Apply(float64) {
	if len(f.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	k := float64(len(f.nodes))
	sx = (sx/k - f.X) * f.Strength
	sy = (sy/k - f.Y) * f.Strength
	for _, n := range f.nodes {
		n.X -= sx
		n.Y -= sy
	}
}
