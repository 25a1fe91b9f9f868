package cluster

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// twoCliques builds two 4-cliques joined by a single weak link.
func twoCliques() *graph.Graph {
	ds := graph.Dataset{}
	for _, id := range []string{"a1", "a2", "a3", "a4", "b1", "b2", "b3", "b4"} {
		ds.Nodes = append(ds.Nodes, graph.NodeRecord{Name: id})
	}
	clique := func(ids ...string) {
		for i := range ids {
			for j := i + 1; j < len(ids); j++ {
				ds.Links = append(ds.Links, graph.LinkRecord{Source: ids[i], Target: ids[j], Count: 5})
			}
		}
	}
	clique("a1", "a2", "a3", "a4")
	clique("b1", "b2", "b3", "b4")
	ds.Links = append(ds.Links, graph.LinkRecord{Source: "a1", Target: "b1", Count: 1})
	return graph.Load(ds)
}

func TestLouvainSeparatesCliques(t *testing.T) {
	g := twoCliques()
	if err := NewLouvain().Cluster(g.Nodes, g.Links); err != nil {
		t.Fatalf("Cluster: %v", err)
	}

	label := func(id string) string {
		n, _ := g.Node(id)
		return n.Cluster
	}
	for _, id := range []string{"a2", "a3", "a4"} {
		if label(id) != label("a1") {
			t.Errorf("%s = %q, want same cluster as a1 (%q)", id, label(id), label("a1"))
		}
	}
	for _, id := range []string{"b2", "b3", "b4"} {
		if label(id) != label("b1") {
			t.Errorf("%s = %q, want same cluster as b1 (%q)", id, label(id), label("b1"))
		}
	}
	if label("a1") == label("b1") {
		t.Error("cliques should land in different clusters")
	}
	for _, n := range g.Nodes {
		if n.Cluster == "" {
			t.Errorf("%s left unlabeled", n.ID)
		}
	}
}

func TestLouvainIgnoresSelfLoopsAndOutsiders(t *testing.T) {
	g := graph.Load(graph.Dataset{
		Nodes: []graph.NodeRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Links: []graph.LinkRecord{
			{Source: "a", Target: "a"},
			{Source: "a", Target: "b"},
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
	})
	c, _ := g.Node("c")
	c.Visible = false

	nodes := g.VisibleNodes()
	if err := NewLouvain().Cluster(nodes, g.Links); err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if c.Cluster != "" {
		t.Errorf("hidden node should not be labeled, got %q", c.Cluster)
	}
	for _, n := range nodes {
		if n.Cluster == "" {
			t.Errorf("%s left unlabeled", n.ID)
		}
	}
}

func TestLouvainEmpty(t *testing.T) {
	if err := NewLouvain().Cluster(nil, nil); err != nil {
		t.Errorf("empty input: %v", err)
	}
}

func TestLouvainMembershipIdempotent(t *testing.T) {
	g := twoCliques()
	l := NewLouvain()

	if err := l.Cluster(g.Nodes, g.Links); err != nil {
		t.Fatal(err)
	}
	first := Membership(g.Nodes)
	if err := l.Cluster(g.Nodes, g.Links); err != nil {
		t.Fatal(err)
	}
	second := Membership(g.Nodes)

	if !maps.EqualFunc(first, second, slices.Equal[[]string]) {
		t.Error("reclustering should not change node membership")
	}
}

func TestFunc(t *testing.T) {
	called := false
	var c Clusterer = Func(func(nodes []*graph.Node, _ []*graph.Link) error {
		called = true
		for _, n := range nodes {
			n.Cluster = "x"
		}
		return nil
	})
	g := twoCliques()
	if err := c.Cluster(g.Nodes, g.Links); err != nil {
		t.Fatal(err)
	}
	if !called || g.Nodes[0].Cluster != "x" {
		t.Error("Func should delegate to the wrapped function")
	}

	boom := errors.New("boom")
	if err := Func(func([]*graph.Node, []*graph.Link) error { return boom }).Cluster(nil, nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestByAttribute(t *testing.T) {
	g := graph.Load(graph.Dataset{
		Nodes: []graph.NodeRecord{
			{Name: "a", Attrs: map[string]any{"party": "red"}},
			{Name: "b", Attrs: map[string]any{"party": "blue"}},
			{Name: "c", Attrs: map[string]any{"seat": 3.0}},
		},
	})
	if err := ByAttribute("party").Cluster(g.Nodes, nil); err != nil {
		t.Fatal(err)
	}
	want := []string{"red", "blue", ""}
	for i, n := range g.Nodes {
		if n.Cluster != want[i] {
			t.Errorf("%s = %q, want %q", n.ID, n.Cluster, want[i])
		}
	}

	if err := ByAttribute("seat").Cluster(g.Nodes, nil); err != nil {
		t.Fatal(err)
	}
	if g.Nodes[2].Cluster != "3" {
		t.Errorf("numeric attribute label = %q, want 3", g.Nodes[2].Cluster)
	}
}
