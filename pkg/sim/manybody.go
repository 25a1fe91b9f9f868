package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	// DefaultCharge is the many-body strength per node. Negative repels.
	DefaultCharge = -10.0
	// DefaultTheta is the Barnes-Hut approximation criterion.
	DefaultTheta = 0.9

	distanceMin2 = 1.0
)

// ManyBody applies a pairwise charge between all nodes.
//
// When every node carries the same charge it is approximated with a
// Barnes-Hut quadtree of unit-mass particles, so an aggregated cell pulls
// with the charge times its particle count. Mixed charges fall back to the
// exact pairwise sum.
type ManyBody struct {
	// Strength returns the charge of a node. Nil uses DefaultCharge.
	Strength    func(n *graph.Node) float64
	Theta       float64
	DistanceMax float64

	nodes     []*graph.Node
	particles []barneshut.Particle2
	uniform   float64
	mixed     bool
}

// NewManyBody creates a many-body force with a constant strength.
func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{
		Strength: func(*graph.Node) float64 { return strength },
		Theta:    DefaultTheta,
	}
}

type particle struct {
	n        *graph.Node
	strength float64
}

func (p particle) Coord2() r2.Vec { return r2.Vec{X: p.n.X, Y: p.n.Y} }
func (p particle) Mass() float64  { return 1 }

// Initialize caches per-node charges.
func (f *ManyBody) Initialize(nodes []*graph.Node, _ *rand.Rand) {
	f.nodes = nodes
	f.particles = make([]barneshut.Particle2, 0, len(nodes))
	f.uniform = 0
	f.mixed = false
	for _, n := range nodes {
		s := DefaultCharge
		if f.Strength != nil {
			s = f.Strength(n)
		}
		if s == 0 {
			continue
		}
		if len(f.particles) == 0 {
			f.uniform = s
		} else if s != f.uniform {
			f.mixed = true
		}
		f.particles = append(f.particles, particle{n: n, strength: s})
	}
}

// Apply accumulates charge into node velocities.
func (f *ManyBody) Apply(alpha float64) {
	if len(f.particles) < 2 {
		return
	}
	if f.mixed {
		f.applyExact(alpha)
		return
	}
	plane, err := barneshut.NewPlane(f.particles)
	if err != nil {
		f.applyExact(alpha)
		return
	}
	for _, p := range f.particles {
		v := plane.ForceOn(p, f.Theta, f.force)
		n := p.(particle).n
		n.VX += v.X * alpha
		n.VY += v.Y * alpha
	}
}

// applyExact is the O(n²) sum, used for mixed charges and when the quadtree
// cannot be built, for example when coordinates are too far apart to
// subdivide.
func (f *ManyBody) applyExact(alpha float64) {
	for _, p := range f.particles {
		pv := p.Coord2()
		var acc r2.Vec
		for _, q := range f.particles {
			if p == q {
				continue
			}
			acc = r2.Add(acc, f.force(p, q, 1, 1, r2.Sub(q.Coord2(), pv)))
		}
		n := p.(particle).n
		n.VX += acc.X * alpha
		n.VY += acc.Y * alpha
	}
}

// force returns the velocity contribution on a node from a particle p2, or
// from an aggregate of m2 particles when p2 is nil, at offset v. A coincident
// mass (including the node itself) contributes nothing.
func (f *ManyBody) force(_, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	l := r2.Norm2(v)
	if l == 0 {
		return r2.Vec{}
	}
	if f.DistanceMax > 0 && l >= f.DistanceMax*f.DistanceMax {
		return r2.Vec{}
	}
	if l < distanceMin2 {
		l = math.Sqrt(distanceMin2 * l)
	}
	s := f.uniform * m2
	if q, ok := p2.(particle); ok {
		s = q.strength
	}
	return r2.Scale(s/l, v)
}
