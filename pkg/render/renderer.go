package render

import (
	"image/color"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/cluster"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scale"
)

const (
	DefaultMinRadius     = 2.0
	DefaultMaxRadius     = 5.0
	DefaultLinkAlpha     = 0.03
	DefaultLinkThreshold = 0.05
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithRadius sets the radius range in pixels.
func WithRadius(lo, hi float64) Option {
	return func(r *Renderer) { r.Size.Range(lo, hi) }
}

// WithLinkAlpha sets the opacity links are drawn with.
func WithLinkAlpha(a float64) Option { return func(r *Renderer) { r.LinkAlpha = a } }

// WithLinkThreshold sets the alpha below which links are drawn.
func WithLinkThreshold(a float64) Option { return func(r *Renderer) { r.LinkThreshold = a } }

// WithColor replaces the cluster color scale.
func WithColor(s *scale.Ordinal) Option { return func(r *Renderer) { r.Color = s } }

// Renderer paints frames of the visible graph.
type Renderer struct {
	Primary canvas.Surface
	Overlay canvas.Surface

	Color         *scale.Ordinal
	Size          *scale.Linear
	LinkAlpha     float64
	LinkThreshold float64
	LabelColor    color.Color

	nodes  []*graph.Node
	links  []*graph.Link
	groups []cluster.Group
}

// New creates a renderer drawing onto primary and overlay.
func New(primary, overlay canvas.Surface, opts ...Option) *Renderer {
	r := &Renderer{
		Primary:       primary,
		Overlay:       overlay,
		Color:         scale.NewCategory20(),
		Size:          scale.NewLinear(DefaultMinRadius, DefaultMaxRadius),
		LinkAlpha:     DefaultLinkAlpha,
		LinkThreshold: DefaultLinkThreshold,
		LabelColor:    canvas.Black,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind sets the visible nodes and links to draw, assigns node radii from
// the visible degree extent and regroups nodes by cluster.
func (r *Renderer) Bind(nodes []*graph.Node, links []*graph.Link) {
	r.nodes = nodes
	r.links = links

	lo, hi, _ := graph.DegreeExtent(nodes)
	r.Size.Domain(float64(lo), float64(hi))
	for _, n := range nodes {
		n.Radius = r.Size.Map(float64(n.Degree))
	}
	r.groups = cluster.Groups(nodes)
}

// Groups returns the cluster groups in drawing order.
func (r *Renderer) Groups() []cluster.Group { return r.groups }

// Nodes returns the bound nodes.
func (r *Renderer) Nodes() []*graph.Node { return r.nodes }

// Links returns the bound links.
func (r *Renderer) Links() []*graph.Link { return r.links }

// Draw paints one frame for the given alpha. A non-nil selected node has
// its label redrawn on the overlay.
func (r *Renderer) Draw(alpha float64, selected *graph.Node) {
	r.Primary.Clear()

	if alpha < r.LinkThreshold {
		for _, l := range r.links {
			r.Primary.Line(l.Source.X, l.Source.Y, l.Target.X, l.Target.Y,
				r.Color.Color(l.Target.Cluster), r.LinkAlpha)
		}
	}

	for _, g := range r.groups {
		c := r.Color.Color(g.Key)
		for _, n := range g.Nodes {
			r.Primary.Circle(n.X, n.Y, n.Radius, c)
		}
	}

	if selected != nil {
		r.EraseLabel(selected)
		r.DrawLabel(selected)
	}
}

// EraseLabel clears the overlay if n is non-nil.
func (r *Renderer) EraseLabel(n *graph.Node) {
	if n != nil {
		r.Overlay.Clear()
	}
}

// DrawLabel draws n's name at its position on the overlay. A nil node
// draws nothing.
func (r *Renderer) DrawLabel(n *graph.Node) {
	if n == nil {
		return
	}
	r.Overlay.Text(n.Name, n.X, n.Y, r.LabelColor)
}

// With returns a copy of r drawing onto other surfaces. The copy shares
// scales and the bound state.
func (r *Renderer) With(primary, overlay canvas.Surface) *Renderer {
	cp := *r
	cp.Primary, cp.Overlay = primary, overlay
	return &cp
}
