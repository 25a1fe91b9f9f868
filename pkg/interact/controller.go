package interact

import (
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	DefaultDragRadius      = 40.0
	DefaultDragAlphaTarget = 0.3
)

// State is the gesture state of a Controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Simulation is the part of the force simulation a Controller drives.
type Simulation interface {
	Find(x, y, radius float64) *graph.Node
	SetAlphaTarget(a float64)
	Restart()
}

// Labeler draws and erases the hover label.
type Labeler interface {
	EraseLabel(n *graph.Node)
	DrawLabel(n *graph.Node)
}

// Controller tracks active drags and the hover selection.
type Controller struct {
	Sim    Simulation
	Labels Labeler

	// DragRadius bounds the drag subject search.
	DragRadius float64
	// HoverRadius bounds the hover search; zero or less is unbounded.
	HoverRadius float64
	// DragAlphaTarget is the alpha target held while dragging.
	DragAlphaTarget float64

	drags    map[int]*graph.Node
	selected *graph.Node
}

// New creates a controller over sim. labels may be nil.
func New(sim Simulation, labels Labeler) *Controller {
	return &Controller{
		Sim:             sim,
		Labels:          labels,
		DragRadius:      DefaultDragRadius,
		DragAlphaTarget: DefaultDragAlphaTarget,
		drags:           make(map[int]*graph.Node),
	}
}

// State reports whether any drag is active.
func (c *Controller) State() State {
	if c.Active() > 0 {
		return Dragging
	}
	return Idle
}

// Active returns the number of drags in progress.
func (c *Controller) Active() int { return len(c.drags) }

// Subject returns the node dragged by pointer, or nil.
func (c *Controller) Subject(pointer int) *graph.Node { return c.drags[pointer] }

// Selected returns the hovered node, or nil.
func (c *Controller) Selected() *graph.Node { return c.selected }

// DragStart begins a drag for pointer at (x, y) and returns its subject.
// It returns nil, and changes nothing, when no node is within the drag
// radius or the pointer is already dragging.
func (c *Controller) DragStart(pointer int, x, y float64) *graph.Node {
	if _, busy := c.drags[pointer]; busy {
		return nil
	}
	subject := c.Sim.Find(x, y, c.DragRadius)
	if subject == nil {
		return nil
	}
	if len(c.drags) == 0 {
		c.Sim.SetAlphaTarget(c.DragAlphaTarget)
		c.Sim.Restart()
	}
	c.drags[pointer] = subject
	subject.Pin(subject.X, subject.Y)
	return subject
}

// DragMove moves the pointer's subject pin to (x, y).
func (c *Controller) DragMove(pointer int, x, y float64) {
	if subject := c.drags[pointer]; subject != nil {
		subject.Pin(x, y)
	}
}

// DragEnd releases the pointer's subject.
func (c *Controller) DragEnd(pointer int) {
	subject, ok := c.drags[pointer]
	if !ok {
		return
	}
	delete(c.drags, pointer)
	if len(c.drags) == 0 {
		c.Sim.SetAlphaTarget(0)
	}
	subject.Unpin()
}

// Hover selects the node nearest (x, y) and redraws the label. It is
// ignored while a drag is active and returns the current selection.
func (c *Controller) Hover(x, y float64) *graph.Node {
	if c.State() == Dragging {
		return c.selected
	}
	if c.Labels != nil {
		c.Labels.EraseLabel(c.selected)
	}
	c.selected = c.Sim.Find(x, y, c.HoverRadius)
	if c.Labels != nil {
		c.Labels.DrawLabel(c.selected)
	}
	return c.selected
}

// Select sets the selection directly, for example after the selected node
// was filtered out.
func (c *Controller) Select(n *graph.Node) { c.selected = n }

// Reset ends all drags and clears the selection.
func (c *Controller) Reset() {
	for p := range c.drags {
		c.DragEnd(p)
	}
	c.selected = nil
}
