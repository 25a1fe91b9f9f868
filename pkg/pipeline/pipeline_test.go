package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

const senate = `{
	"nodes": [
		{"name": "A", "party": "D"}, {"name": "B", "party": "D"}, {"name": "C", "party": "D"},
		{"name": "D", "party": "R"}, {"name": "E", "party": "R"}, {"name": "F", "party": "R"}
	],
	"links": [
		{"source": "A", "target": "B", "count": 9},
		{"source": "B", "target": "C", "count": 8},
		{"source": "A", "target": "C", "count": 9},
		{"source": "D", "target": "E", "count": 9},
		{"source": "E", "target": "F", "count": 7},
		{"source": "D", "target": "F", "count": 8},
		{"source": "C", "target": "D", "count": 1}
	]
}`

func writeSenate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "senate.json")
	if err := os.WriteFile(path, []byte(senate), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 200, 120
	return &cfg
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"dot", false},
		{"neato.svg", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{Source: "votes.json"}
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("default formats = %v", opts.Formats)
	}
	if opts.Config == nil || opts.Logger == nil {
		t.Error("config and logger should default")
	}

	bad := []Options{
		{},
		{Source: "ftp://x/votes.json"},
		{Source: "votes.json", Ticks: -1},
		{Source: "votes.json", Formats: []string{"gif"}},
	}
	for _, o := range bad {
		if err := o.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", o)
		}
	}
}

func TestOptionsKeys(t *testing.T) {
	a := Options{Source: "x", Config: smallConfig()}
	b := Options{Source: "x", Config: smallConfig()}
	b.Config.Simulation.Charge = -30

	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("simulation config should change the layout key")
	}
	if a.ArtifactKeyOpts("png") != b.ArtifactKeyOpts("png") {
		t.Error("simulation config should not change the artifact key")
	}
	b.Config.Render.MaxRadius = 8
	if a.ArtifactKeyOpts("png") == b.ArtifactKeyOpts("png") {
		t.Error("render config should change the artifact key")
	}
}

func TestExecute(t *testing.T) {
	path := writeSenate(t)
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(context.Background(), Options{
		Source:  path,
		Formats: []string{FormatPNG, FormatSVG, FormatDOT, FormatJSON},
		Config:  smallConfig(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != 6 || res.Stats.LinkCount != 7 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Ticks == 0 {
		t.Error("simulation should have ticked")
	}
	if res.DatasetHash == "" || res.LayoutHash == "" {
		t.Error("hashes should be set")
	}

	png := res.Artifacts[FormatPNG]
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png artifact should be a PNG")
	}
	if svg := string(res.Artifacts[FormatSVG]); !strings.Contains(svg, "<svg") || !strings.Contains(svg, "<circle") {
		t.Error("svg artifact should contain circles")
	}
	if dot := string(res.Artifacts[FormatDOT]); !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("dot artifact = %.40q", dot)
	}
	var out struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &out); err != nil || len(out.Nodes) != 6 {
		t.Errorf("json artifact: %v, %d nodes", err, len(out.Nodes))
	}
}

func TestExecuteTickLimit(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Source: writeSenate(t),
		Ticks:  5,
		Config: smallConfig(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", res.Stats.Ticks)
	}
}

func TestExecuteRecluster(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Source:    writeSenate(t),
		Recluster: true,
		Config:    smallConfig(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Clusters < 2 {
		t.Errorf("clusters = %d, want the two party triangles split", res.Stats.Clusters)
	}
	a, _ := res.Graph.Node("A")
	d, _ := res.Graph.Node("D")
	if a.Cluster == d.Cluster {
		t.Error("A and D should land in different clusters")
	}
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()
	opts := Options{Source: writeSenate(t), Formats: []string{FormatSVG}, Config: smallConfig()}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Fatal("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache = %+v, want hits", second.CacheInfo)
	}
	if second.LayoutHash != first.LayoutHash {
		t.Error("cached layout hash should match")
	}
	for _, id := range []string{"A", "F"} {
		n1, _ := first.Graph.Node(id)
		n2, _ := second.Graph.Node(id)
		if n1.X != n2.X || n1.Y != n2.Y {
			t.Errorf("%s restored at (%v,%v), want (%v,%v)", id, n2.X, n2.Y, n1.X, n1.Y)
		}
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact should match")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteMissingSource(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Source: filepath.Join(t.TempDir(), "missing.json"),
	})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutCaptureApply(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g, _, err := r.Load(context.Background(), writeSenate(t))
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range g.Nodes {
		n.X, n.Y, n.Cluster = float64(i), float64(-i), "k"
	}
	l := Capture(g, 0.01, 42)

	g2, _, _ := r.Load(context.Background(), writeSenate(t))
	l.Apply(g2)
	for i, n := range g2.Nodes {
		if n.X != float64(i) || n.Y != float64(-i) || n.Cluster != "k" || !n.Placed {
			t.Errorf("%s = (%v,%v,%q,%v)", n.ID, n.X, n.Y, n.Cluster, n.Placed)
		}
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil || back.Ticks != 42 || len(back.Nodes) != 6 {
		t.Errorf("round trip = %+v, %v", back, err)
	}
}
