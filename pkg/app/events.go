package app

import (
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Event is an input delivered to a [Handler].
type Event interface {
	// Name identifies the event type, e.g. "drag_start".
	Name() string
}

// TickEvent advances the simulation one step.
type TickEvent struct{}

// DragStartEvent begins a drag gesture for a pointer.
type DragStartEvent struct {
	Pointer int
	X, Y    float64
}

// DragMoveEvent moves an active drag gesture.
type DragMoveEvent struct {
	Pointer int
	X, Y    float64
}

// DragEndEvent ends a drag gesture.
type DragEndEvent struct {
	Pointer int
}

// HoverEvent is a pointer move with no button held.
type HoverEvent struct {
	X, Y float64
}

// ReclusterEvent reruns clustering on the visible set.
type ReclusterEvent struct{}

// FilterEvent changes a navigator filter. With Values set it filters a
// categorical attribute; with Min or Max set it filters a sequential
// attribute by range (a nil bound is open); Reset clears every filter.
type FilterEvent struct {
	Attr   string
	Values []string
	Min    *float64
	Max    *float64
	Reset  bool
}

func (TickEvent) Name() string      { return "tick" }
func (DragStartEvent) Name() string { return "drag_start" }
func (DragMoveEvent) Name() string  { return "drag_move" }
func (DragEndEvent) Name() string   { return "drag_end" }
func (HoverEvent) Name() string     { return "hover" }
func (ReclusterEvent) Name() string { return "recluster" }
func (FilterEvent) Name() string    { return "filter" }

// Handler processes one event against the application context.
type Handler interface {
	Handle(a *App, ev Event) error
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(a *App, ev Event) error

// Handle calls f.
func (f HandlerFunc) Handle(a *App, ev Event) error { return f(a, ev) }

// DefaultHandler dispatches each event to the matching App operation.
var DefaultHandler Handler = HandlerFunc(Dispatch)

// Dispatch is the default event mapping.
func Dispatch(a *App, ev Event) error {
	switch ev := ev.(type) {
	case TickEvent:
		a.Tick()
	case DragStartEvent:
		a.Controller.DragStart(ev.Pointer, ev.X, ev.Y)
	case DragMoveEvent:
		a.Controller.DragMove(ev.Pointer, ev.X, ev.Y)
	case DragEndEvent:
		a.Controller.DragEnd(ev.Pointer)
	case HoverEvent:
		a.Controller.Hover(ev.X, ev.Y)
	case ReclusterEvent:
		return a.Recluster()
	case FilterEvent:
		return applyFilter(a, ev)
	default:
		return errs.New(errs.ErrCodeInvalidEvent, "unknown event %T", ev)
	}
	return nil
}

func applyFilter(a *App, ev FilterEvent) error {
	nav := a.Navigator
	switch {
	case ev.Reset:
		nav.Reset()
		return nil
	case ev.Min != nil || ev.Max != nil:
		lo, hi, ok := nav.Extent(ev.Attr)
		if !ok {
			lo, hi = 0, 0
		}
		if ev.Min != nil {
			lo = *ev.Min
		}
		if ev.Max != nil {
			hi = *ev.Max
		}
		return nav.FilterRange(ev.Attr, lo, hi)
	default:
		return nav.FilterValues(ev.Attr, ev.Values...)
	}
}
