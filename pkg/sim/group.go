package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Grouping defaults, matching the force-in-a-box "force" template.
const (
	DefaultGroupStrength      = 0.1
	DefaultInterClusterLink   = 0.001
	DefaultIntraClusterLink   = 0.000001
	DefaultTemplateCharge     = -2.0
	DefaultTemplateLinkLength = 100.0
	DefaultTemplateTicks      = 300
)

// Group pulls every node toward the focus of its cluster.
//
// Foci are computed on Initialize by a small template simulation in which
// each cluster is one node: clusters repel each other in proportion to
// their size, are linked when any link crosses between them, and are
// centred in the frame. Group also supplies cluster-aware link strengths
// through [Group.LinkStrength].
type Group struct {
	Width, Height float64
	Strength      float64
	InterStrength float64
	IntraStrength float64
	Ticks         int

	links []*graph.Link
	nodes []*graph.Node
	foci  map[string]r2.Vec
	seed  uint64
}

// NewGroup creates a grouping force for a frame of the given size. links
// are used to weigh the template layout.
func NewGroup(links []*graph.Link, width, height float64) *Group {
	return &Group{
		Width:         width,
		Height:        height,
		Strength:      DefaultGroupStrength,
		InterStrength: DefaultInterClusterLink,
		IntraStrength: DefaultIntraClusterLink,
		Ticks:         DefaultTemplateTicks,
		links:         links,
		foci:          make(map[string]r2.Vec),
		seed:          7,
	}
}

// SetLinks replaces the links used for the template layout.
func (f *Group) SetLinks(links []*graph.Link) { f.links = links }

// Initialize lays out the cluster foci for nodes.
func (f *Group) Initialize(nodes []*graph.Node, _ *rand.Rand) {
	f.nodes = nodes
	f.foci = f.layoutFoci(nodes)
}

// Apply nudges velocities toward each node's cluster focus.
func (f *Group) Apply(alpha float64) {
	k := f.Strength * alpha
	for _, n := range f.nodes {
		focus, ok := f.foci[n.Cluster]
		if !ok {
			continue
		}
		n.VX += (focus.X - n.X) * k
		n.VY += (focus.Y - n.Y) * k
	}
}

// LinkStrength returns the intra-cluster strength for links within one
// cluster and the inter-cluster strength otherwise.
func (f *Group) LinkStrength(l *graph.Link) float64 {
	if l.Source.Cluster == l.Target.Cluster {
		return f.IntraStrength
	}
	return f.InterStrength
}

// Focus returns the focus point of a cluster.
func (f *Group) Focus(cluster string) (r2.Vec, bool) {
	v, ok := f.foci[cluster]
	return v, ok
}

func (f *Group) layoutFoci(nodes []*graph.Node) map[string]r2.Vec {
	foci := make(map[string]r2.Vec)
	if len(nodes) == 0 {
		return foci
	}

	meta := make(map[string]*graph.Node)
	var metaNodes []*graph.Node
	member := make(map[*graph.Node]bool, len(nodes))
	for _, n := range nodes {
		member[n] = true
		m, ok := meta[n.Cluster]
		if !ok {
			m = &graph.Node{ID: n.Cluster, Name: n.Cluster, Visible: true}
			meta[n.Cluster] = m
			metaNodes = append(metaNodes, m)
		}
		m.Degree++
	}

	type pair struct{ s, t string }
	seen := make(map[pair]bool)
	var metaLinks []*graph.Link
	for _, l := range f.links {
		if !member[l.Source] || !member[l.Target] || l.Source.Cluster == l.Target.Cluster {
			continue
		}
		key := pair{l.Source.Cluster, l.Target.Cluster}
		if key.s > key.t {
			key.s, key.t = key.t, key.s
		}
		if !seen[key] {
			seen[key] = true
			metaLinks = append(metaLinks, &graph.Link{Source: meta[key.s], Target: meta[key.t]})
		}
	}

	template := New(metaNodes, WithSeed(f.seed))
	charge := &ManyBody{
		Strength: func(n *graph.Node) float64 { return DefaultTemplateCharge * float64(n.Degree) },
		Theta:    DefaultTheta,
	}
	links := NewLink(metaLinks)
	links.Distance = DefaultTemplateLinkLength
	links.Strength = func(*graph.Link) float64 { return 0.1 }
	template.AddForce("charge", charge)
	template.AddForce("links", links)
	template.AddForce("center", NewCenter(f.Width/2, f.Height/2))
	template.Run(f.Ticks)

	for _, m := range metaNodes {
		foci[m.ID] = r2.Vec{X: m.X, Y: m.Y}
	}
	return foci
}
