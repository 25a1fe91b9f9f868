package cluster

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Clusterer assigns a cluster label to every node in nodes.
type Clusterer interface {
	Cluster(nodes []*graph.Node, links []*graph.Link) error
}

// Func adapts a plain function to [Clusterer].
type Func func(nodes []*graph.Node, links []*graph.Link) error

// Cluster calls f.
func (f Func) Cluster(nodes []*graph.Node, links []*graph.Link) error {
	return f(nodes, links)
}

const (
	// DefaultResolution is the modularity resolution parameter.
	DefaultResolution = 1.0
	// DefaultSeed seeds the Louvain node ordering.
	DefaultSeed = uint64(42)
)

// Louvain clusters nodes by modularity optimisation.
//
// Links whose endpoints are not both in nodes are ignored, as are
// self-loops. Parallel links are merged by summing their weights. A link
// with no count weighs 1.
type Louvain struct {
	Resolution float64
	Seed       uint64
}

// NewLouvain creates a Louvain clusterer with default parameters.
func NewLouvain() *Louvain {
	return &Louvain{Resolution: DefaultResolution, Seed: DefaultSeed}
}

// Cluster labels each node with the decimal index of its community.
// Communities are indexed by descending size, then by their first member's
// position in nodes.
func (l *Louvain) Cluster(nodes []*graph.Node, links []*graph.Link) error {
	if len(nodes) == 0 {
		return nil
	}

	g := simple.NewWeightedUndirectedGraph(0, 0)
	ids := make(map[*graph.Node]int64, len(nodes))
	for i, n := range nodes {
		ids[n] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}

	for _, lk := range links {
		s, okS := ids[lk.Source]
		t, okT := ids[lk.Target]
		if !okS || !okT || s == t {
			continue
		}
		w := lk.Count
		if w <= 0 {
			w = 1
		}
		if e := g.WeightedEdge(s, t); e != nil {
			w += e.Weight()
		}
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(s), T: simple.Node(t), W: w})
	}

	res := l.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	reduced := community.Modularize(g, res, rand.NewPCG(l.Seed, l.Seed))

	comms := make([][]int64, 0)
	for _, c := range reduced.Communities() {
		members := make([]int64, len(c))
		for i, n := range c {
			members[i] = n.ID()
		}
		slices.Sort(members)
		comms = append(comms, members)
	}
	slices.SortFunc(comms, func(a, b []int64) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a[0], b[0])
	})

	for ci, members := range comms {
		label := strconv.Itoa(ci)
		for _, id := range members {
			nodes[id].Cluster = label
		}
	}
	return nil
}

// ByAttribute returns a clusterer that labels nodes with the string form of
// a node attribute, e.g. "party". Nodes without the attribute get an empty
// label.
func ByAttribute(attr string) Clusterer {
	return Func(func(nodes []*graph.Node, _ []*graph.Link) error {
		for _, n := range nodes {
			n.Cluster = ""
			if v, ok := n.Attr(attr); ok && v != nil {
				n.Cluster = toLabel(v)
			}
		}
		return nil
	})
}

func toLabel(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
