// Package config loads forcegraph settings from TOML.
//
// Every field has a default from [Default]; a config file only needs to set
// what it changes:
//
//	[canvas]
//	width = 1200
//	height = 800
//
//	[simulation]
//	charge = -10.0
//	link_distance = 30.0
//
//	[cluster]
//	method = "louvain"
//	seed = 42
//
//	[navigator]
//	min_degree = 0
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Config is the full set of tunables.
type Config struct {
	Canvas     Canvas     `toml:"canvas" json:"canvas"`
	Simulation Simulation `toml:"simulation" json:"simulation"`
	Render     Render     `toml:"render" json:"render"`
	Cluster    Cluster    `toml:"cluster" json:"cluster"`
	Navigator  Navigator  `toml:"navigator" json:"navigator"`
}

// Canvas sizes the drawing surfaces.
type Canvas struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Simulation configures the force layout.
type Simulation struct {
	Charge          float64 `toml:"charge" json:"charge"`
	LinkDistance    float64 `toml:"link_distance" json:"link_distance"`
	AlphaMin        float64 `toml:"alpha_min" json:"alpha_min"`
	VelocityDecay   float64 `toml:"velocity_decay" json:"velocity_decay"`
	RestartAlpha    float64 `toml:"restart_alpha" json:"restart_alpha"`
	DragAlphaTarget float64 `toml:"drag_alpha_target" json:"drag_alpha_target"`
	DragRadius      float64 `toml:"drag_radius" json:"drag_radius"`
	Grouping        bool    `toml:"grouping" json:"grouping"`
	GroupStrength   float64 `toml:"group_strength" json:"group_strength"`
	Seed            uint64  `toml:"seed" json:"seed"`
	// TickRate is the number of ticks per second for live loops.
	TickRate int `toml:"tick_rate" json:"tick_rate"`
}

// Render configures frame drawing.
type Render struct {
	MinRadius     float64 `toml:"min_radius" json:"min_radius"`
	MaxRadius     float64 `toml:"max_radius" json:"max_radius"`
	LinkAlpha     float64 `toml:"link_alpha" json:"link_alpha"`
	LinkThreshold float64 `toml:"link_threshold" json:"link_threshold"`
}

// Cluster selects and tunes community detection.
type Cluster struct {
	// Method is "louvain" or "attribute".
	Method     string  `toml:"method" json:"method"`
	Attribute  string  `toml:"attribute" json:"attribute,omitempty"`
	Resolution float64 `toml:"resolution" json:"resolution"`
	Seed       uint64  `toml:"seed" json:"seed"`
}

// Navigator configures the initial filters.
type Navigator struct {
	// MinDegree hides nodes below this degree. Zero disables the filter.
	MinDegree int `toml:"min_degree" json:"min_degree"`
	// Categorical lists extra dataset attributes filterable by value.
	Categorical []string `toml:"categorical" json:"categorical,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 960, Height: 600},
		Simulation: Simulation{
			Charge:          -10,
			LinkDistance:    30,
			AlphaMin:        0.001,
			VelocityDecay:   0.4,
			RestartAlpha:    0.7,
			DragAlphaTarget: 0.3,
			DragRadius:      40,
			Grouping:        true,
			GroupStrength:   0.1,
			Seed:            1,
			TickRate:        60,
		},
		Render: Render{
			MinRadius:     2,
			MaxRadius:     5,
			LinkAlpha:     0.03,
			LinkThreshold: 0.05,
		},
		Cluster: Cluster{
			Method:     "louvain",
			Resolution: 1,
			Seed:       42,
		},
		Navigator: Navigator{Categorical: []string{"party"}},
	}
}

// Load reads a TOML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s not found", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML over base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return invalid("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	case c.Simulation.AlphaMin <= 0 || c.Simulation.AlphaMin >= 1:
		return invalid("simulation.alpha_min must be in (0, 1), got %v", c.Simulation.AlphaMin)
	case c.Simulation.VelocityDecay < 0 || c.Simulation.VelocityDecay > 1:
		return invalid("simulation.velocity_decay must be in [0, 1], got %v", c.Simulation.VelocityDecay)
	case c.Simulation.LinkDistance < 0:
		return invalid("simulation.link_distance must not be negative")
	case c.Simulation.RestartAlpha <= 0 || c.Simulation.RestartAlpha > 1:
		return invalid("simulation.restart_alpha must be in (0, 1], got %v", c.Simulation.RestartAlpha)
	case c.Simulation.DragRadius <= 0:
		return invalid("simulation.drag_radius must be positive")
	case c.Simulation.TickRate <= 0:
		return invalid("simulation.tick_rate must be positive")
	case c.Render.MinRadius <= 0 || c.Render.MaxRadius < c.Render.MinRadius:
		return invalid("render radius range [%v, %v] is invalid", c.Render.MinRadius, c.Render.MaxRadius)
	case c.Render.LinkAlpha < 0 || c.Render.LinkAlpha > 1:
		return invalid("render.link_alpha must be in [0, 1]")
	case c.Cluster.Method != "louvain" && c.Cluster.Method != "attribute":
		return invalid("cluster.method must be louvain or attribute, got %q", c.Cluster.Method)
	case c.Cluster.Method == "attribute" && c.Cluster.Attribute == "":
		return invalid("cluster.attribute is required for the attribute method")
	case c.Cluster.Resolution <= 0:
		return invalid("cluster.resolution must be positive")
	case c.Navigator.MinDegree < 0:
		return invalid("navigator.min_degree must not be negative")
	}
	for _, attr := range c.Navigator.Categorical {
		if err := errs.ValidateAttributeName(attr); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "navigator.categorical")
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidConfig, format, args...)
}

// Write encodes c as TOML.
func (c Config) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
