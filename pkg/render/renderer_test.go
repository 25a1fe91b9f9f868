package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func fixture() ([]*graph.Node, []*graph.Link) {
	g := graph.Load(graph.Dataset{
		Nodes: []graph.NodeRecord{{Name: "A"}, {Name: "B"}},
		Links: []graph.LinkRecord{
			{Source: "A", Target: "B", Count: 1},
			{Source: "A", Target: "C", Count: 2},
		},
	})
	for i, n := range g.Nodes {
		n.X, n.Y = float64(10+i*10), 20
	}
	g.Nodes[2].Cluster = "1"
	return g.VisibleNodes(), g.VisibleLinks()
}

func newVectorRenderer() (*Renderer, *canvas.Vector, *canvas.Vector) {
	p, o := canvas.NewVector(100, 100), canvas.NewVector(100, 100)
	return New(p, o), p, o
}

func TestBindRadius(t *testing.T) {
	nodes, links := fixture()
	r, _, _ := newVectorRenderer()
	r.Bind(nodes, links)

	want := map[string]float64{"A": DefaultMaxRadius, "B": DefaultMinRadius, "C": DefaultMinRadius}
	for _, n := range nodes {
		if n.Radius != want[n.ID] {
			t.Errorf("%s radius = %v, want %v", n.ID, n.Radius, want[n.ID])
		}
	}
}

func TestBindRadiusDegenerate(t *testing.T) {
	nodes := []*graph.Node{{ID: "a", Degree: 4}, {ID: "b", Degree: 4}}
	r, _, _ := newVectorRenderer()
	r.Bind(nodes, nil)

	mid := (DefaultMinRadius + DefaultMaxRadius) / 2
	for _, n := range nodes {
		if n.Radius != mid {
			t.Errorf("%s radius = %v, want midpoint %v", n.ID, n.Radius, mid)
		}
	}
}

func TestBindRadiusMonotone(t *testing.T) {
	var nodes []*graph.Node
	for d := range 10 {
		nodes = append(nodes, &graph.Node{ID: string(rune('a' + d)), Degree: d * 3})
	}
	r, _, _ := newVectorRenderer()
	r.Bind(nodes, nil)

	for i, n := range nodes {
		if n.Radius < DefaultMinRadius || n.Radius > DefaultMaxRadius {
			t.Errorf("%s radius %v out of range", n.ID, n.Radius)
		}
		if i > 0 && n.Radius < nodes[i-1].Radius {
			t.Errorf("radius decreased at %s", n.ID)
		}
	}
}

func TestDrawLinksByAlpha(t *testing.T) {
	tests := []struct {
		name      string
		alpha     float64
		wantLines int
	}{
		{"hot", 0.5, 0},
		{"threshold", DefaultLinkThreshold, 0},
		{"cool", 0.01, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, links := fixture()
			r, p, _ := newVectorRenderer()
			r.Bind(nodes, links)
			r.Draw(tt.alpha, nil)

			if got := p.Count(canvas.OpLine); got != tt.wantLines {
				t.Errorf("lines = %d, want %d", got, tt.wantLines)
			}
			if got := p.Count(canvas.OpCircle); got != 3 {
				t.Errorf("circles = %d, want 3", got)
			}
		})
	}
}

func TestDrawLinkStyle(t *testing.T) {
	nodes, links := fixture()
	r, p, _ := newVectorRenderer()
	r.Bind(nodes, links)
	r.Draw(0, nil)

	for _, op := range p.Ops() {
		if op.Kind != canvas.OpLine {
			continue
		}
		if op.Alpha != DefaultLinkAlpha {
			t.Errorf("link alpha = %v, want %v", op.Alpha, DefaultLinkAlpha)
		}
	}
	// A-C targets C in cluster "1".
	ac := p.Ops()[1]
	if ac.Color != r.Color.Color("1") {
		t.Errorf("link color = %v, want target cluster color", ac.Color)
	}
}

func TestDrawClearsAndOrdersByCluster(t *testing.T) {
	nodes, links := fixture()
	r, p, _ := newVectorRenderer()
	r.Bind(nodes, links)
	r.Draw(1, nil)
	r.Draw(1, nil)

	ops := p.Ops()
	if len(ops) != 3 {
		t.Fatalf("ops = %d, want 3 after redraw", len(ops))
	}
	// Cluster "" has two nodes and is drawn before cluster "1".
	if ops[2].X1 != 30 {
		t.Errorf("last circle x = %v, want C at 30", ops[2].X1)
	}
	if ops[0].Color != r.Color.Color("") || ops[2].Color != r.Color.Color("1") {
		t.Error("nodes should be colored by cluster")
	}
}

func TestLabel(t *testing.T) {
	nodes, links := fixture()
	r, _, o := newVectorRenderer()
	r.Bind(nodes, links)

	r.DrawLabel(nil)
	r.EraseLabel(nil)
	if len(o.Ops()) != 0 {
		t.Fatal("nil node should not touch the overlay")
	}

	r.Draw(1, nodes[0])
	r.Draw(1, nodes[0])
	if got := o.Count(canvas.OpText); got != 1 {
		t.Fatalf("labels = %d, want 1", got)
	}
	if op := o.Ops()[0]; op.Text != "A" || op.X1 != nodes[0].X || op.Y1 != nodes[0].Y {
		t.Errorf("label = %+v", op)
	}

	r.EraseLabel(nodes[0])
	if len(o.Ops()) != 0 {
		t.Error("EraseLabel should clear the overlay")
	}
}

func TestExport(t *testing.T) {
	nodes, links := fixture()
	r, _, _ := newVectorRenderer()
	r.Bind(nodes, links)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, r, 64, 48, 0, nodes[0]); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("png bounds = %v", b)
	}

	svg := string(EncodeSVG(r, 64, 48, 0, nodes[0]))
	if strings.Count(svg, "<circle") != 3 || strings.Count(svg, "<line") != 2 {
		t.Errorf("svg = %s", svg)
	}
	if !strings.Contains(svg, ">A</text>") {
		t.Error("svg should contain the selected label")
	}
}
