package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

func senateDataset() Dataset {
	return Dataset{
		Nodes: []NodeRecord{{Name: "A"}, {Name: "B"}},
		Links: []LinkRecord{
			{Source: "A", Target: "B", Count: 1},
			{Source: "A", Target: "C", Count: 2},
		},
	}
}

func TestLoad(t *testing.T) {
	g := Load(senateDataset())

	if got := g.NodeCount(); got != 3 {
		t.Fatalf("nodes = %d, want 3", got)
	}

	tests := []struct {
		id          string
		degree      int
		synthesized bool
	}{
		{"A", 2, false},
		{"B", 1, false},
		{"C", 1, true},
	}
	for _, tt := range tests {
		n, ok := g.Node(tt.id)
		if !ok {
			t.Fatalf("node %s missing", tt.id)
		}
		if n.Degree != tt.degree {
			t.Errorf("%s degree = %d, want %d", tt.id, n.Degree, tt.degree)
		}
		if n.Synthesized != tt.synthesized {
			t.Errorf("%s synthesized = %v, want %v", tt.id, n.Synthesized, tt.synthesized)
		}
		if !n.Visible {
			t.Errorf("%s should start visible", tt.id)
		}
	}

	a, _ := g.Node("A")
	c, _ := g.Node("C")
	if g.Links[1].Source != a || g.Links[1].Target != c {
		t.Error("link endpoints should resolve to node references")
	}
	if c.Name != "C" {
		t.Errorf("synthesized name = %q, want C", c.Name)
	}
	if c.Attrs["count"] != 2.0 {
		t.Errorf("synthesized count = %v, want 2", c.Attrs["count"])
	}
}

func TestLoadSynthesizesOncePerMissingID(t *testing.T) {
	ds := Dataset{
		Nodes: []NodeRecord{{Name: "A"}},
		Links: []LinkRecord{
			{Source: "A", Target: "X"},
			{Source: "X", Target: "Y"},
			{Source: "Y", Target: "A"},
			{Source: "X", Target: "A"},
		},
	}
	g := Load(ds)

	synth := g.SynthesizedNodes()
	if len(synth) != 2 {
		t.Fatalf("synthesized = %d, want 2", len(synth))
	}
	want := map[string]int{"X": 3, "Y": 2}
	for _, n := range synth {
		if n.Degree != want[n.ID] {
			t.Errorf("%s degree = %d, want %d", n.ID, n.Degree, want[n.ID])
		}
	}
}

func TestLoadDegreeMatchesIncidence(t *testing.T) {
	ds := Dataset{
		Nodes: []NodeRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Links: []LinkRecord{
			{Source: "a", Target: "a"},
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "d"},
			{Source: "d", Target: "d"},
		},
	}
	g := Load(ds)

	for _, n := range g.Nodes {
		count := 0
		for _, l := range g.Links {
			if l.Source == n {
				count++
			}
			if l.Target == n {
				count++
			}
		}
		if n.Degree != count {
			t.Errorf("%s degree = %d, incident = %d", n.ID, n.Degree, count)
		}
	}

	a, _ := g.Node("a")
	if a.Degree != 3 {
		t.Errorf("self-loop should count twice: a degree = %d, want 3", a.Degree)
	}
}

func TestLoadIgnoresDuplicateDeclarations(t *testing.T) {
	ds := Dataset{
		Nodes: []NodeRecord{
			{Name: "A", Attrs: map[string]any{"party": "X"}},
			{Name: "A", Attrs: map[string]any{"party": "Y"}},
		},
	}
	g := Load(ds)
	if g.NodeCount() != 1 {
		t.Fatalf("nodes = %d, want 1", g.NodeCount())
	}
	if got := g.Nodes[0].Attrs["party"]; got != "X" {
		t.Errorf("party = %v, want first declaration X", got)
	}
}

func TestVisibleLinks(t *testing.T) {
	g := Load(senateDataset())
	if got := len(g.VisibleLinks()); got != 2 {
		t.Fatalf("visible links = %d, want 2", got)
	}

	a, _ := g.Node("A")
	b, _ := g.Node("B")
	c, _ := g.Node("C")

	c.Visible = false
	links := g.VisibleLinks()
	if len(links) != 1 || links[0].Target != b {
		t.Errorf("hiding C should drop A-C only, got %d links", len(links))
	}

	a.Visible = false
	if got := len(g.VisibleLinks()); got != 0 {
		t.Errorf("hiding A should drop all links, got %d", got)
	}

	g.ShowAll()
	if got := len(g.VisibleLinks()); got != 2 {
		t.Errorf("after ShowAll links = %d, want 2", got)
	}
}

func TestSetVisible(t *testing.T) {
	g := Load(senateDataset())
	a, _ := g.Node("A")
	b, _ := g.Node("B")

	g.SetVisible([]*Node{a, b})

	if got := len(g.VisibleNodes()); got != 2 {
		t.Errorf("visible nodes = %d, want 2", got)
	}
	for _, l := range g.Links {
		visible := l.Source.Visible && l.Target.Visible
		included := false
		for _, vl := range g.VisibleLinks() {
			if vl == l {
				included = true
			}
		}
		if visible != included {
			t.Errorf("link %s-%s: visible=%v included=%v", l.Source.ID, l.Target.ID, visible, included)
		}
	}
}

func TestLinksAmong(t *testing.T) {
	g := Load(senateDataset())
	a, _ := g.Node("A")
	c, _ := g.Node("C")
	links := LinksAmong([]*Node{a, c}, g.Links)
	if len(links) != 1 || links[0].Target != c {
		t.Errorf("LinksAmong = %d links, want A-C", len(links))
	}
}

func TestDegreeExtent(t *testing.T) {
	if _, _, ok := DegreeExtent(nil); ok {
		t.Error("empty extent should report !ok")
	}
	g := Load(senateDataset())
	lo, hi, ok := DegreeExtent(g.Nodes)
	if !ok || lo != 1 || hi != 2 {
		t.Errorf("extent = [%d, %d] ok=%v, want [1, 2]", lo, hi, ok)
	}
}

func TestFilterMinDegree(t *testing.T) {
	g := Load(senateDataset())
	if got := len(FilterMinDegree(g.Nodes, 0)); got != 3 {
		t.Errorf("min 0 = %d nodes, want 3", got)
	}
	got := FilterMinDegree(g.Nodes, 2)
	if len(got) != 1 || got[0].ID != "A" {
		t.Errorf("min 2 = %v, want [A]", got)
	}
}

func TestReadDataset(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantLinks int
		wantErr   bool
	}{
		{
			name:      "Senate",
			input:     `{"nodes":[{"name":"A","party":"X"},{"name":"B"}],"links":[{"source":"A","target":"B","count":3}]}`,
			wantNodes: 2,
			wantLinks: 1,
		},
		{
			name:      "Empty",
			input:     `{"nodes":[],"links":[]}`,
			wantNodes: 0,
			wantLinks: 0,
		},
		{
			name:    "MissingName",
			input:   `{"nodes":[{"party":"X"}]}`,
			wantErr: true,
		},
		{
			name:    "NullName",
			input:   `{"nodes":[{"name":null}]}`,
			wantErr: true,
		},
		{
			name:    "ObjectName",
			input:   `{"nodes":[{"name":{"first":"A"}}]}`,
			wantErr: true,
		},
		{
			name:    "Malformed",
			input:   `{"nodes":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadDataset(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errs.Is(err, errs.ErrCodeInvalidDataset) {
					t.Errorf("code = %v, want INVALID_DATASET", errs.GetCode(err))
				}
				return
			}
			if len(ds.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(ds.Nodes), tt.wantNodes)
			}
			if len(ds.Links) != tt.wantLinks {
				t.Errorf("links = %d, want %d", len(ds.Links), tt.wantLinks)
			}
		})
	}
}

func TestNumericNodeNames(t *testing.T) {
	input := `{"nodes":[{"name":1000000},{"name":2.5}],"links":[{"source":"1000000","target":"2.5","count":1}]}`
	ds, err := ReadDataset(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	g := Load(ds)
	if g.NodeCount() != 2 {
		t.Fatalf("nodes = %d, want 2 (no synthesized duplicates)", g.NodeCount())
	}
	for _, n := range g.Nodes {
		if n.Degree != 1 {
			t.Errorf("%s degree = %d, want 1", n.ID, n.Degree)
		}
	}
	if g.Nodes[0].ID != "1000000" {
		t.Errorf("id = %q, want 1000000", g.Nodes[0].ID)
	}
}

func TestNodeRecordAttributes(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(`{"nodes":[{"name":"A","party":"X","seat":4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g := Load(ds)
	a := g.Nodes[0]
	if v, ok := a.Attr("party"); !ok || v != "X" {
		t.Errorf("party = %v, %v", v, ok)
	}
	if v, ok := a.Attr("degree"); !ok || v != 0 {
		t.Errorf("degree attr = %v, %v", v, ok)
	}
	if _, ok := a.Attr("cluster"); ok {
		t.Error("cluster should be absent before clustering")
	}

	data, err := json.Marshal(ds.Nodes[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"party":"X"`) || !strings.Contains(string(data), `"name":"A"`) {
		t.Errorf("marshal = %s", data)
	}
}

func TestReadDatasetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "votes.json")
	if err := os.WriteFile(path, []byte(`{"nodes":[{"name":"A"}],"links":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := ReadDatasetFile(path)
	if err != nil {
		t.Fatalf("ReadDatasetFile: %v", err)
	}
	if len(ds.Nodes) != 1 {
		t.Errorf("nodes = %d, want 1", len(ds.Nodes))
	}

	_, err = ReadDatasetFile(filepath.Join(dir, "missing.json"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPin(t *testing.T) {
	n := &Node{}
	if n.Pinned() {
		t.Fatal("new node should not be pinned")
	}
	n.Pin(3, 4)
	if !n.Pinned() || *n.FX != 3 || *n.FY != 4 {
		t.Errorf("pin = (%v, %v)", n.FX, n.FY)
	}
	n.Unpin()
	if n.Pinned() {
		t.Error("Unpin should clear the override")
	}
}

func TestWriteGraph(t *testing.T) {
	g := Load(senateDataset())
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatal(err)
	}
	var out struct {
		Nodes []map[string]any `json:"nodes"`
		Links []LinkRecord     `json:"links"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Nodes) != 3 || len(out.Links) != 2 {
		t.Fatalf("got %d nodes %d links", len(out.Nodes), len(out.Links))
	}
	if out.Links[1].Target != "C" {
		t.Errorf("link target = %q, want C", out.Links[1].Target)
	}
}
