package app

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/cluster"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/navigator"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option { return func(a *App) { a.Logger = l } }

// WithClusterer replaces the clusterer chosen by the config.
func WithClusterer(c cluster.Clusterer) Option { return func(a *App) { a.Clusterer = c } }

// App is the application context of one force view.
type App struct {
	Config     config.Config
	Graph      *graph.Graph
	Sim        *sim.Simulation
	Renderer   *render.Renderer
	Navigator  *navigator.Navigator
	Clusterer  cluster.Clusterer
	Controller *interact.Controller
	Logger     *log.Logger

	links   *sim.Link
	group   *sim.Group
	visible []*graph.Link
	frames  int
	settled bool
}

// New builds a view of g drawing onto primary and overlay, binds it to the
// visible nodes and starts the simulation at the configured restart alpha.
func New(g *graph.Graph, primary, overlay canvas.Surface, cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Graph: g}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = log.Default()
	}
	if a.Clusterer == nil {
		a.Clusterer = newClusterer(cfg.Cluster)
	}

	a.Renderer = render.New(primary, overlay,
		render.WithRadius(cfg.Render.MinRadius, cfg.Render.MaxRadius),
		render.WithLinkAlpha(cfg.Render.LinkAlpha),
		render.WithLinkThreshold(cfg.Render.LinkThreshold),
	)
	a.Sim = newSimulation(cfg.Simulation)
	a.installForces()

	a.Controller = interact.New(a.Sim, a.Renderer)
	a.Controller.DragRadius = cfg.Simulation.DragRadius
	a.Controller.DragAlphaTarget = cfg.Simulation.DragAlphaTarget

	a.Navigator = navigator.New().AddSequentialAttrib("degree")
	for _, attr := range cfg.Navigator.Categorical {
		a.Navigator.AddCategoricalAttrib(attr, nil)
	}
	a.Navigator.AddCategoricalAttrib("cluster", a.Renderer.Color)
	a.Navigator.Links(g.Links).Data(g.Nodes)
	a.Navigator.OnUpdate(a.Update)

	if cfg.Navigator.MinDegree > 0 {
		if err := a.Navigator.FilterRange("degree", float64(cfg.Navigator.MinDegree), math.Inf(1)); err != nil {
			return nil, err
		}
	} else {
		a.Update(a.Navigator.GetVisible())
	}
	return a, nil
}

func newClusterer(c config.Cluster) cluster.Clusterer {
	if c.Method == "attribute" {
		return cluster.ByAttribute(c.Attribute)
	}
	return &cluster.Louvain{Resolution: c.Resolution, Seed: c.Seed}
}

func newSimulation(c config.Simulation) *sim.Simulation {
	return sim.New(nil,
		sim.WithAlphaMin(c.AlphaMin),
		sim.WithAlphaDecay(1-math.Pow(c.AlphaMin, 1.0/300)),
		sim.WithVelocityDecay(c.VelocityDecay),
		sim.WithSeed(c.Seed),
	)
}

func (a *App) installForces() {
	cfg := a.Config
	w, h := float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)

	a.links = sim.NewLink(nil)
	a.links.Distance = cfg.Simulation.LinkDistance
	a.Sim.AddForce("link", a.links)
	a.Sim.AddForce("charge", sim.NewManyBody(cfg.Simulation.Charge))
	a.Sim.AddForce("center", sim.NewCenter(w/2, h/2))

	if cfg.Simulation.Grouping {
		a.group = sim.NewGroup(nil, w, h)
		a.group.Strength = cfg.Simulation.GroupStrength
		a.Sim.AddForce("group", a.group)
	}
}

// Update rebinds the view to nodes: visible links are recomputed from the
// full link list, radii and cluster groups are refreshed, and the
// simulation restarts from the current positions at the restart alpha.
func (a *App) Update(nodes []*graph.Node) {
	a.Sim.Stop()

	a.visible = graph.LinksAmong(nodes, a.Graph.Links)
	a.Logger.Infof("nodes = %d links = %d", len(nodes), len(a.visible))

	a.Renderer.Bind(nodes, a.visible)
	a.links.SetLinks(a.visible)
	if a.group != nil {
		a.group.SetLinks(a.Graph.Links)
		// A single cluster would make every link intra-cluster.
		a.links.Strength = nil
		if len(cluster.Groups(nodes)) > 1 {
			a.links.Strength = a.group.LinkStrength
		}
	}
	a.Sim.SetNodes(nodes)

	if sel := a.Controller.Selected(); sel != nil && !sel.Visible {
		a.Renderer.EraseLabel(sel)
		a.Controller.Select(nil)
	}

	a.settled = false
	a.Sim.SetAlpha(a.Config.Simulation.RestartAlpha)
	a.Sim.Restart()
	observability.Simulation().OnRebind(len(nodes), len(a.visible))
}

// Recluster runs the clusterer over the visible nodes and links, then
// re-runs [App.Update] with the same visible set.
func (a *App) Recluster() error {
	a.Logger.Debug("clustering")
	start := time.Now()
	nodes := a.Navigator.GetVisible()
	err := a.Clusterer.Cluster(nodes, a.visible)
	observability.Simulation().OnRecluster(len(cluster.Groups(nodes)), time.Since(start), err)
	if err != nil {
		return err
	}
	a.Logger.Debug("done", "clusters", len(cluster.Groups(nodes)))
	a.Update(nodes)
	return nil
}

// Tick advances the simulation one step, if it is running, and draws a
// frame. It reports whether the simulation is still running.
func (a *App) Tick() bool {
	running := a.Sim.Step()
	a.Draw()
	if !running && !a.settled {
		a.settled = true
		observability.Simulation().OnSettle(a.Sim.Ticks())
	}
	return running
}

// Settle ticks until the simulation ends or limit ticks have run (limit <= 0
// means no limit) and returns the number of ticks.
func (a *App) Settle(limit int) int {
	n := 0
	for a.Sim.Running() && (limit <= 0 || n < limit) {
		a.Tick()
		n++
	}
	return n
}

// Draw paints the current state without ticking.
func (a *App) Draw() {
	a.Renderer.Draw(a.Sim.Alpha(), a.Controller.Selected())
	a.frames++
}

// VisibleNodes returns the nodes currently simulated.
func (a *App) VisibleNodes() []*graph.Node { return a.Navigator.GetVisible() }

// VisibleLinks returns the links among the visible nodes.
func (a *App) VisibleLinks() []*graph.Link { return a.visible }

// Selected returns the hovered node, or nil.
func (a *App) Selected() *graph.Node { return a.Controller.Selected() }

// Stats summarizes the view state.
type Stats struct {
	Nodes    int        `json:"nodes"`
	Links    int        `json:"links"`
	Clusters int        `json:"clusters"`
	Alpha    float64    `json:"alpha"`
	Ticks    int        `json:"ticks"`
	Frames   int        `json:"frames"`
	Running  bool       `json:"running"`
	Selected string     `json:"selected,omitempty"`
	Groups   []GroupRow `json:"groups"`
}

// GroupRow is one cluster in [Stats].
type GroupRow struct {
	Key   string `json:"key"`
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// Stats returns a snapshot of the view state.
func (a *App) Stats() Stats {
	groups := a.Renderer.Groups()
	s := Stats{
		Nodes:    len(a.VisibleNodes()),
		Links:    len(a.visible),
		Clusters: len(groups),
		Alpha:    a.Sim.Alpha(),
		Ticks:    a.Sim.Ticks(),
		Frames:   a.frames,
		Running:  a.Sim.Running(),
		Groups:   make([]GroupRow, len(groups)),
	}
	if sel := a.Selected(); sel != nil {
		s.Selected = sel.Name
	}
	for i, g := range groups {
		s.Groups[i] = GroupRow{Key: g.Key, Size: len(g.Nodes), Color: a.Renderer.Color.Hex(g.Key)}
	}
	return s
}
