// Package cli implements the forcegraph command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

const appName = "forcegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Forcegraph lays out vote co-occurrence graphs",
		Long: `Forcegraph runs a force-directed layout over a co-voting graph, clusters
legislators into voting blocs and renders the result as PNG, SVG, DOT or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the on-disk cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache.Observed(store), nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/forcegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configFlags are the config overrides shared by commands that build a view.
type configFlags struct {
	path      string
	width     int
	height    int
	minDegree int
	seed      uint64
	cluster   string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "config", "c", "", "TOML config file")
	cmd.Flags().IntVar(&f.width, "width", 0, "canvas width (overrides config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "canvas height (overrides config)")
	cmd.Flags().IntVar(&f.minDegree, "min-degree", 0, "hide nodes below this degree")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "clustering seed (overrides config)")
	cmd.Flags().StringVar(&f.cluster, "cluster-by", "", "cluster by a node attribute instead of Louvain")
}

// load reads the config file and applies the flags that were set.
func (f *configFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.path)
	if err != nil {
		return config.Config{}, err
	}
	if f.width > 0 {
		cfg.Canvas.Width = f.width
	}
	if f.height > 0 {
		cfg.Canvas.Height = f.height
	}
	if f.minDegree > 0 {
		cfg.Navigator.MinDegree = f.minDegree
	}
	if f.seed > 0 {
		cfg.Cluster.Seed = f.seed
	}
	if f.cluster != "" {
		cfg.Cluster.Method = "attribute"
		cfg.Cluster.Attribute = f.cluster
	}
	return cfg, cfg.Validate()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
