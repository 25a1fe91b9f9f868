package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

type renderOpts struct {
	output    string
	formats   string
	ticks     int
	recluster bool
	noCache   bool
	refresh   bool
	config    configFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Settle a layout and write it as images or data",
		Long: `Render loads a co-voting dataset, settles the force layout and writes one
file per format. The source is a file path, a file://, http(s):// or
mongodb:// URI.

Formats: png, svg, dot, neato.svg (Graphviz neato on the settled
positions) and json.`,
		Example: `  forcegraph render senate.json
  forcegraph render senate.json -f png,svg --recluster
  forcegraph render https://example.org/senate.json -o out/senate --ticks 200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: source name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "comma-separated output formats")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "cap on simulation ticks per settle (0: until it cools)")
	cmd.Flags().BoolVar(&opts.recluster, "recluster", false, "detect voting blocs and settle again")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and outputs")
	opts.config.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, source string, opts renderOpts) error {
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	cfg, err := opts.config.load()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Settling layout...")
	spinner.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		Source:    source,
		Ticks:     opts.ticks,
		Recluster: opts.recluster,
		Formats:   formats,
		Refresh:   opts.refresh,
		Config:    &cfg,
		Logger:    c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := basePath(opts.output, source)
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	printSuccess("Rendered %s", StyleHighlight.Render(filepath.Base(base)))
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Stats.VisibleNodes, res.Stats.VisibleLinks, res.Stats.Clusters, res.CacheInfo.LayoutHit)
	if !opts.recluster {
		printNextStep("Detect voting blocs", fmt.Sprintf("%s render %s --recluster", appName, source))
	}
	return nil
}

// basePath derives the output path without extension. Remote sources fall
// back to the last path element of the URI.
func basePath(output, source string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if i := strings.Index(source, "://"); i >= 0 {
		source = source[i+3:]
		if j := strings.IndexAny(source, "?#"); j >= 0 {
			source = source[:j]
		}
	}
	name := filepath.Base(strings.TrimRight(source, "/"))
	if name == "." || name == "/" || name == "" {
		name = appName
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
