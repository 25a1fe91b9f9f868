package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/app"
	"github.com/matzehuels/forcegraph/pkg/canvas"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

var (
	watchHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	watchStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

type watchOpts struct {
	output  string
	noCache bool
	config  configFlags
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{}

	cmd := &cobra.Command{
		Use:   "watch [source]",
		Short: "Run the simulation live in the terminal",
		Long: `Watch ticks the simulation at the configured tick rate and shows the
cooling alpha and the voting blocs as they form.

Keys: r recluster, p pause, s save a PNG snapshot, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "snapshot path prefix (default: source name)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.config.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, source string, opts watchOpts) error {
	cfg, err := opts.config.load()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, _, err := runner.Load(ctx, source)
	if err != nil {
		return err
	}
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	a, err := app.New(g, canvas.NewRaster(w, h), canvas.NewRaster(w, h), cfg, app.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	m := newWatchModel(ctx, a, basePath(opts.output, source))
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if wm, ok := final.(watchModel); ok {
		for _, path := range wm.saved {
			printFile(path)
		}
		printStats(len(a.VisibleNodes()), len(a.VisibleLinks()), a.Stats().Clusters, false)
	}
	return nil
}

type tickMsg time.Time

// watchModel drives an App from the bubbletea event loop. All App access
// happens in Update, which bubbletea runs on a single goroutine.
type watchModel struct {
	ctx      context.Context
	app      *app.App
	base     string
	interval time.Duration
	paused   bool
	status   string
	saved    []string
}

func newWatchModel(ctx context.Context, a *app.App, base string) watchModel {
	rate := max(a.Config.Simulation.TickRate, 1)
	return watchModel{
		ctx:      ctx,
		app:      a,
		base:     base,
		interval: time.Second / time.Duration(rate),
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
		case "r":
			if err := app.Dispatch(m.app, app.ReclusterEvent{}); err != nil {
				m.status = errs.UserMessage(err)
			} else {
				m.status = fmt.Sprintf("reclustered into %d blocs", m.app.Stats().Clusters)
			}
		case "s":
			m = m.snapshot()
		}
	case tickMsg:
		if !m.paused {
			_ = app.Dispatch(m.app, app.TickEvent{})
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) snapshot() watchModel {
	data, err := pipeline.RenderFormat(m.ctx, m.app, pipeline.FormatPNG)
	if err != nil {
		m.status = errs.UserMessage(err)
		return m
	}
	path := fmt.Sprintf("%s-%04d.png", m.base, m.app.Sim.Ticks())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.status = err.Error()
		return m
	}
	m.saved = append(m.saved, path)
	m.status = "saved " + path
	return m
}

func (m watchModel) View() string {
	st := m.app.Stats()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("forcegraph"))
	b.WriteString("  ")
	state := "running"
	switch {
	case m.paused:
		state = "paused"
	case !st.Running:
		state = "settled"
	}
	b.WriteString(watchStatusStyle.Render(state))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %s\n",
		StyleDim.Render("tick"), StyleNumber.Render(fmt.Sprint(st.Ticks)),
		StyleDim.Render("alpha"), StyleNumber.Render(fmt.Sprintf("%.4f", st.Alpha)),
		StyleDim.Render("nodes"), StyleNumber.Render(fmt.Sprint(st.Nodes)),
		StyleDim.Render("links"), StyleNumber.Render(fmt.Sprint(st.Links)),
	)
	b.WriteString(alphaBar(st.Alpha, 40))
	b.WriteString("\n\n")
	b.WriteString(groupTable(st.Groups))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(watchStatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(watchHelpStyle.Render("r recluster  p pause  s snapshot  q quit"))
	b.WriteString("\n")
	return b.String()
}

// alphaBar draws alpha in [0, 1] as a bar of the given width.
func alphaBar(alpha float64, width int) string {
	filled := int(alpha*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return StyleHighlight.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}
