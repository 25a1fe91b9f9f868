package interact

import (
	"testing"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

type labels struct {
	erased, drawn []*graph.Node
}

func (l *labels) EraseLabel(n *graph.Node) { l.erased = append(l.erased, n) }
func (l *labels) DrawLabel(n *graph.Node)  { l.drawn = append(l.drawn, n) }

func setup() (*Controller, *sim.Simulation, []*graph.Node) {
	nodes := []*graph.Node{
		{ID: "a", X: 0, Y: 0, Placed: true},
		{ID: "b", X: 100, Y: 0, Placed: true},
	}
	s := sim.New(nodes)
	s.Run(0)
	nodes[0].X, nodes[0].Y = 0, 0
	nodes[1].X, nodes[1].Y = 100, 0
	return New(s, nil), s, nodes
}

func TestDragLifecycle(t *testing.T) {
	c, s, nodes := setup()
	a := nodes[0]

	if got := c.DragStart(1, 5, 5); got != a {
		t.Fatalf("subject = %v, want a", got)
	}
	if c.State() != Dragging {
		t.Errorf("state = %v, want dragging", c.State())
	}
	if s.AlphaTarget() != DefaultDragAlphaTarget || !s.Running() {
		t.Errorf("drag start: target=%v running=%v", s.AlphaTarget(), s.Running())
	}
	if !a.Pinned() || *a.FX != 0 || *a.FY != 0 {
		t.Error("subject should be pinned at its own position")
	}

	c.DragMove(1, 30, 40)
	if *a.FX != 30 || *a.FY != 40 {
		t.Errorf("pin = (%v, %v), want (30, 40)", *a.FX, *a.FY)
	}
	s.Tick()
	if a.X != 30 || a.Y != 40 {
		t.Errorf("position = (%v, %v), want pin", a.X, a.Y)
	}

	c.DragEnd(1)
	if a.Pinned() {
		t.Error("drag end should release the pin")
	}
	if s.AlphaTarget() != 0 {
		t.Errorf("target = %v, want 0", s.AlphaTarget())
	}
	if c.State() != Idle {
		t.Error("state should return to idle")
	}
}

func TestDragStartEmptyRegion(t *testing.T) {
	c, s, nodes := setup()

	if got := c.DragStart(1, 50, 300); got != nil {
		t.Fatalf("subject = %v, want nil", got)
	}
	if c.State() != Idle || s.Running() || s.AlphaTarget() != 0 {
		t.Error("drag over empty space should change nothing")
	}
	c.DragMove(1, 10, 10)
	c.DragEnd(1)
	for _, n := range nodes {
		if n.Pinned() {
			t.Errorf("%s pinned after no-op drag", n.ID)
		}
	}
}

func TestConcurrentDrags(t *testing.T) {
	c, s, nodes := setup()

	c.DragStart(1, 0, 0)
	c.DragStart(2, 100, 0)
	if c.Active() != 2 {
		t.Fatalf("active = %d, want 2", c.Active())
	}
	if c.DragStart(2, 100, 0) != nil {
		t.Error("a pointer cannot start a second drag")
	}

	c.DragEnd(1)
	if s.AlphaTarget() != DefaultDragAlphaTarget {
		t.Error("target should hold while another drag is active")
	}
	if nodes[0].Pinned() || !nodes[1].Pinned() {
		t.Error("only the ended drag should release its pin")
	}

	c.DragEnd(2)
	if s.AlphaTarget() != 0 {
		t.Error("last drag end should drop the target")
	}
}

func TestHover(t *testing.T) {
	c, _, nodes := setup()
	l := &labels{}
	c.Labels = l

	if got := c.Hover(90, 500); got != nodes[1] {
		t.Fatalf("hover = %v, want b (unbounded search)", got)
	}
	if got := c.Hover(1, 1); got != nodes[0] {
		t.Fatalf("hover = %v, want a", got)
	}
	if c.Selected() != nodes[0] {
		t.Error("selection should follow hover")
	}
	if len(l.erased) != 2 || l.erased[0] != nil || l.erased[1] != nodes[1] {
		t.Errorf("erased = %v", l.erased)
	}
	if len(l.drawn) != 2 || l.drawn[1] != nodes[0] {
		t.Errorf("drawn = %v", l.drawn)
	}

	c.DragStart(1, 100, 0)
	if got := c.Hover(100, 0); got != nodes[0] {
		t.Error("hover should be ignored while dragging")
	}
}

func TestHoverRadius(t *testing.T) {
	c, _, _ := setup()
	c.HoverRadius = 10
	if got := c.Hover(50, 50); got != nil {
		t.Errorf("hover = %v, want nil", got)
	}
}

func TestReset(t *testing.T) {
	c, s, nodes := setup()
	c.DragStart(1, 0, 0)
	c.Hover(0, 0)
	c.Reset()
	if c.Active() != 0 || c.Selected() != nil || nodes[0].Pinned() || s.AlphaTarget() != 0 {
		t.Error("Reset should end drags and clear the selection")
	}
}
