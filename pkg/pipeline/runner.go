package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/app"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/source"
)

// Runner executes pipelines against a shared cache. It holds no per-run
// state and may be used from several goroutines.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Fetcher *source.Fetcher
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	f := source.NewFetcher(c, logger)
	f.Keyer = keyer
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, Fetcher: f}
}

// Execute runs load → simulate → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &Result{}

	start := time.Now()
	g, hash, err := r.Load(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Graph, res.DatasetHash = g, hash
	res.Stats.LoadTime = time.Since(start)
	res.Stats.NodeCount, res.Stats.LinkCount = g.NodeCount(), g.LinkCount()
	r.Logger.Info("loaded dataset",
		"nodes", g.NodeCount(),
		"links", g.LinkCount(),
		"duration", res.Stats.LoadTime)

	start = time.Now()
	a, layoutHash, hit, err := r.SimulateWithCacheInfo(ctx, g, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	res.LayoutHash = layoutHash
	res.CacheInfo.LayoutHit = hit
	res.Stats.SimTime = time.Since(start)
	st := a.Stats()
	res.Stats.VisibleNodes, res.Stats.VisibleLinks = st.Nodes, st.Links
	res.Stats.Clusters, res.Stats.Ticks = st.Clusters, st.Ticks
	r.Logger.Info("settled layout",
		"ticks", st.Ticks,
		"alpha", st.Alpha,
		"clusters", st.Clusters,
		"cached", hit,
		"duration", res.Stats.SimTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, a, layoutHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.CacheInfo.RenderHit = hit
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// Load fetches and resolves the dataset at uri and returns it with the
// hash of its canonical JSON encoding.
func (r *Runner) Load(ctx context.Context, uri string) (*graph.Graph, string, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, uri)
	start := time.Now()

	ds, err := r.Fetcher.Open(ctx, uri)
	if err != nil {
		hooks.OnLoadComplete(ctx, uri, 0, 0, time.Since(start), err)
		return nil, "", err
	}
	data, err := json.Marshal(ds)
	if err != nil {
		hooks.OnLoadComplete(ctx, uri, 0, 0, time.Since(start), err)
		return nil, "", err
	}
	g := graph.Load(ds)
	hooks.OnLoadComplete(ctx, uri, g.NodeCount(), g.LinkCount(), time.Since(start), nil)
	return g, cache.Hash(data), nil
}

// SimulateWithCacheInfo builds a headless view of g and settles it, or
// restores a cached layout. It returns the view, the layout hash and
// whether the layout came from cache.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, g *graph.Graph, datasetHash string, opts Options) (*app.App, string, bool, error) {
	key := r.Keyer.LayoutKey(datasetHash, opts.LayoutKeyOpts())

	var cached *Layout
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := UnmarshalLayout(data); err == nil {
				cached = &l
				l.Apply(g)
			}
		}
	}

	a, err := r.newApp(g, opts)
	if err != nil {
		return nil, "", false, err
	}

	if cached != nil {
		a.Sim.SetAlpha(cached.Alpha)
		if cached.Alpha < a.Sim.AlphaMin() {
			a.Sim.Stop()
		}
		a.Draw()
		data, _ := MarshalLayout(*cached)
		return a, cache.Hash(data), true, nil
	}

	a.Settle(opts.Ticks)
	if opts.Recluster {
		if err := a.Recluster(); err != nil {
			return nil, "", false, err
		}
		a.Settle(opts.Ticks)
	}

	data, err := MarshalLayout(Capture(g, a.Sim.Alpha(), a.Sim.Ticks()))
	if err != nil {
		return nil, "", false, err
	}
	if !opts.Refresh {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
	}
	return a, cache.Hash(data), false, nil
}

func (r *Runner) newApp(g *graph.Graph, opts Options) (*app.App, error) {
	w, h := opts.Config.Canvas.Width, opts.Config.Canvas.Height
	return app.New(g, canvas.NewVector(w, h), canvas.NewVector(w, h), *opts.Config, app.WithLogger(opts.Logger))
}

// RenderWithCacheInfo renders every requested format, serving them from
// cache when all are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, a *app.App, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, a, opts.Formats)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		for format, data := range rendered {
			_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
		}
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
