// Package pipeline runs the headless load → simulate → render pipeline.
//
// It is shared by the CLI render command and the frame server. A run
// fetches a dataset, settles a force view of it, optionally reclusters and
// settles again, then renders the requested formats. Settled layouts and
// rendered artifacts are cached, keyed by dataset content and options.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "senate.json",
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatDOT = "dot"
	// FormatNeato is the DOT graph laid out at the simulated positions and
	// rendered to SVG by Graphviz.
	FormatNeato = "neato.svg"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:   true,
	FormatSVG:   true,
	FormatDOT:   true,
	FormatNeato: true,
	FormatJSON:  true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, dot, neato.svg, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	// Source is the dataset location; see package source.
	Source string `json:"source"`
	// Ticks caps each settle phase. Zero runs until the simulation stops.
	Ticks int `json:"ticks,omitempty"`
	// Recluster runs community detection after the first settle and
	// settles again.
	Recluster bool     `json:"recluster,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	// Refresh bypasses the layout and artifact caches.
	Refresh bool `json:"refresh,omitempty"`

	Config *config.Config `json:"-"`
	Logger *log.Logger    `json:"-"`
}

// Validate checks required fields and fills defaults.
func (o *Options) Validate() error {
	if o.Source == "" {
		return errs.New(errs.ErrCodeInvalidInput, "source is required")
	}
	if err := errs.ValidateSourceURI(o.Source); err != nil {
		return err
	}
	if o.Ticks < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "ticks must be >= 0")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Config == nil {
		cfg := config.Default()
		o.Config = &cfg
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutKeyOpts returns the cache key options for the settled layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	data, _ := json.Marshal(o.Config)
	return cache.LayoutKeyOpts{
		Ticks:     o.Ticks,
		Recluster: o.Recluster,
		Config:    cache.Hash(data),
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	data, _ := json.Marshal(struct {
		Canvas config.Canvas
		Render config.Render
	}{o.Config.Canvas, o.Config.Render})
	return cache.ArtifactKeyOpts{Format: format, Config: cache.Hash(data)}
}

// Result holds the outputs of a run.
type Result struct {
	Graph       *graph.Graph
	DatasetHash string
	LayoutHash  string
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats holds sizes and timings of a run.
type Stats struct {
	NodeCount    int
	LinkCount    int
	VisibleNodes int
	VisibleLinks int
	Clusters     int
	Ticks        int
	LoadTime     time.Duration
	SimTime      time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
