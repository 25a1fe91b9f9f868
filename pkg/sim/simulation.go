package sim

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	// DefaultAlphaMin is the alpha below which the simulation ends.
	DefaultAlphaMin = 0.001
	// DefaultVelocityDecay is the fraction of velocity lost per tick.
	DefaultVelocityDecay = 0.4

	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Force adjusts node velocities (or positions) once per tick.
type Force interface {
	// Initialize binds the force to the simulation's current nodes.
	Initialize(nodes []*graph.Node, rnd *rand.Rand)
	// Apply runs the force for one tick at the given alpha.
	Apply(alpha float64)
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithAlphaMin sets the stopping threshold.
func WithAlphaMin(v float64) Option { return func(s *Simulation) { s.alphaMin = v } }

// WithAlphaDecay sets the per-tick cooling rate.
func WithAlphaDecay(v float64) Option { return func(s *Simulation) { s.alphaDecay = v } }

// WithVelocityDecay sets the per-tick velocity damping (0 keeps all
// velocity, 1 removes it).
func WithVelocityDecay(v float64) Option {
	return func(s *Simulation) { s.velocityDecay = 1 - v }
}

// WithSeed seeds the jiggle source so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.rnd = rand.New(rand.NewPCG(seed, seed)) }
}

// Simulation integrates node positions under a set of named forces.
type Simulation struct {
	nodes  []*graph.Node
	forces map[string]Force
	order  []string

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	running bool
	ticks   int
	rnd     *rand.Rand
}

// New creates a simulation over nodes. The simulation starts with alpha 1
// and is running.
func New(nodes []*graph.Node, opts ...Option) *Simulation {
	s := &Simulation{
		forces:        make(map[string]Force),
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		velocityDecay: 1 - DefaultVelocityDecay,
		running:       true,
		rnd:           rand.New(rand.NewPCG(1, 2)),
	}
	s.alphaDecay = 1 - math.Pow(s.alphaMin, 1.0/300)
	for _, opt := range opts {
		opt(s)
	}
	s.SetNodes(nodes)
	return s
}

// SetNodes rebinds the simulation to nodes. Nodes that were never placed are
// positioned on a phyllotaxis spiral; existing positions are kept. All
// forces are reinitialised.
func (s *Simulation) SetNodes(nodes []*graph.Node) {
	s.nodes = nodes
	for i, n := range nodes {
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if !n.Placed {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			if n.FX == nil {
				n.X = r * math.Cos(a)
			}
			if n.FY == nil {
				n.Y = r * math.Sin(a)
			}
			n.VX, n.VY = 0, 0
			n.Placed = true
		}
	}
	for _, name := range s.order {
		s.forces[name].Initialize(nodes, s.rnd)
	}
}

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []*graph.Node { return s.nodes }

// AddForce registers (or replaces) a named force and initialises it.
func (s *Simulation) AddForce(name string, f Force) {
	if _, ok := s.forces[name]; !ok {
		s.order = append(s.order, name)
	}
	s.forces[name] = f
	f.Initialize(s.nodes, s.rnd)
}

// Force returns a registered force by name.
func (s *Simulation) Force(name string) (Force, bool) {
	f, ok := s.forces[name]
	return f, ok
}

// RemoveForce unregisters a force.
func (s *Simulation) RemoveForce(name string) {
	if _, ok := s.forces[name]; !ok {
		return
	}
	delete(s.forces, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Tick advances the simulation by one step regardless of the running state.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, name := range s.order {
		s.forces[name].Apply(s.alpha)
	}

	for _, n := range s.nodes {
		if n.FX == nil {
			n.VX *= s.velocityDecay
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}
	s.ticks++
}

// Step ticks once if running and stops the simulation when alpha falls
// below alphaMin. It reports whether the simulation is still running.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}
	s.Tick()
	if s.alpha < s.alphaMin {
		s.running = false
	}
	return s.running
}

// Run steps until the simulation ends or n ticks have elapsed (n <= 0 means
// no limit). It returns the number of ticks performed.
func (s *Simulation) Run(n int) int {
	done := 0
	for s.running && (n <= 0 || done < n) {
		s.Step()
		done++
	}
	return done
}

// Restart resumes ticking.
func (s *Simulation) Restart() { s.running = true }

// Stop halts ticking. Alpha is left unchanged.
func (s *Simulation) Stop() { s.running = false }

// Running reports whether the simulation is ticking.
func (s *Simulation) Running() bool { return s.running }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

// AlphaTarget returns the temperature alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward.
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = a }

// AlphaMin returns the stopping threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Ticks returns the number of ticks performed since creation.
func (s *Simulation) Ticks() int { return s.ticks }

// Find returns the node closest to (x, y) within radius, or nil. A radius
// of zero or less searches without limit.
func (s *Simulation) Find(x, y, radius float64) *graph.Node {
	best := math.Inf(1)
	if radius > 0 {
		best = radius * radius
	}
	var found *graph.Node
	for _, n := range s.nodes {
		dx, dy := x-n.X, y-n.Y
		if d2 := dx*dx + dy*dy; d2 < best {
			found, best = n, d2
		}
	}
	return found
}

// jiggle returns a tiny random offset used to separate coincident nodes.
func jiggle(rnd *rand.Rand) float64 {
	return (rnd.Float64() - 0.5) * 1e-6
}
