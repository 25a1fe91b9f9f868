package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/app"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

type statsOpts struct {
	ticks     int
	recluster bool
	noCache   bool
	asJSON    bool
	config    configFlags
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOpts{}

	cmd := &cobra.Command{
		Use:   "stats [source]",
		Short: "Settle a layout and summarize its voting blocs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "cap on simulation ticks per settle")
	cmd.Flags().BoolVar(&opts.recluster, "recluster", true, "detect voting blocs before summarizing")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the summary as JSON")
	opts.config.register(cmd)

	return cmd
}

func (c *CLI) runStats(ctx context.Context, source string, opts statsOpts) error {
	cfg, err := opts.config.load()
	if err != nil {
		return err
	}
	popts := pipeline.Options{
		Source:    source,
		Ticks:     opts.ticks,
		Recluster: opts.recluster,
		Config:    &cfg,
		Logger:    c.Logger,
	}
	if err := popts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	g, hash, err := runner.Load(ctx, source)
	if err != nil {
		return err
	}
	a, _, cached, err := runner.SimulateWithCacheInfo(ctx, g, hash, popts)
	if err != nil {
		return err
	}
	prog.done("Settled layout")

	st := a.Stats()
	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	printKeyValue("Source", source)
	printKeyValue("Declared", fmt.Sprintf("%d nodes, %d synthesized", g.NodeCount()-len(g.SynthesizedNodes()), len(g.SynthesizedNodes())))
	printKeyValue("Ticks", strconv.Itoa(st.Ticks))
	printKeyValue("Alpha", strconv.FormatFloat(st.Alpha, 'f', 4, 64))
	printStats(st.Nodes, st.Links, st.Clusters, cached)
	fmt.Println()
	fmt.Println(groupTable(st.Groups))
	return nil
}

// groupTable renders one row per cluster with a swatch in its color.
func groupTable(groups []app.GroupRow) string {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color)).Render("●")
		rows[i] = []string{swatch, g.Key, strconv.Itoa(g.Size), g.Color}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("", "CLUSTER", "SIZE", "COLOR").
		Rows(rows...).
		Render()
}
