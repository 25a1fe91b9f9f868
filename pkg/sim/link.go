package sim

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// DefaultLinkDistance is the rest length of a link spring.
const DefaultLinkDistance = 30.0

// Link pulls linked nodes toward a target distance.
//
// Links whose endpoints are not among the simulated nodes are skipped, so
// the force can be handed a superset of the visible links.
type Link struct {
	links    []*graph.Link
	Distance float64
	// Strength overrides the default 1/min(deg(s), deg(t)) per link.
	Strength func(l *graph.Link) float64
	// Iterations is the number of relaxation passes per tick.
	Iterations int

	active    []*graph.Link
	strengths []float64
	bias      []float64
	rnd       *rand.Rand
}

// NewLink creates a link force over links.
func NewLink(links []*graph.Link) *Link {
	return &Link{links: links, Distance: DefaultLinkDistance, Iterations: 1}
}

// SetLinks replaces the link set. The force must be reinitialised by the
// simulation (or [Link.Initialize]) afterwards.
func (f *Link) SetLinks(links []*graph.Link) { f.links = links }

// Links returns the configured link set.
func (f *Link) Links() []*graph.Link { return f.links }

// Initialize computes per-link strength and bias from endpoint counts.
func (f *Link) Initialize(nodes []*graph.Node, rnd *rand.Rand) {
	f.rnd = rnd
	in := make(map[*graph.Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}

	count := make(map[*graph.Node]int)
	f.active = f.active[:0]
	for _, l := range f.links {
		if !in[l.Source] || !in[l.Target] {
			continue
		}
		f.active = append(f.active, l)
		count[l.Source]++
		count[l.Target]++
	}

	f.strengths = make([]float64, len(f.active))
	f.bias = make([]float64, len(f.active))
	for i, l := range f.active {
		cs, ct := float64(count[l.Source]), float64(count[l.Target])
		f.bias[i] = cs / (cs + ct)
		if f.Strength != nil {
			f.strengths[i] = f.Strength(l)
		} else {
			f.strengths[i] = 1 / math.Min(cs, ct)
		}
	}
}

// Apply moves endpoint velocities toward the rest distance.
func (f *Link) Apply(alpha float64) {
	iterations := max(f.Iterations, 1)
	for range iterations {
		for i, l := range f.active {
			s, t := l.Source, l.Target
			x := t.X + t.VX - s.X - s.VX
			y := t.Y + t.VY - s.Y - s.VY
			if x == 0 {
				x = jiggle(f.rnd)
			}
			if y == 0 {
				y = jiggle(f.rnd)
			}
			d := math.Sqrt(x*x + y*y)
			k := (d - f.Distance) / d * alpha * f.strengths[i]
			x *= k
			y *= k

			b := f.bias[i]
			t.VX -= x * b
			t.VY -= y * b
			b = 1 - b
			s.VX += x * b
			s.VY += y * b
		}
	}
}
