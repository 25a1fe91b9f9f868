package server

import (
	"github.com/matzehuels/forcegraph/pkg/app"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// eventRequest is the wire form of one pointer or navigator event.
type eventRequest struct {
	Type    string   `json:"type"`
	Pointer int      `json:"pointer,omitempty"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
	Attr    string   `json:"attr,omitempty"`
	Values  []string `json:"values,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Reset   bool     `json:"reset,omitempty"`
}

func (e eventRequest) event() (app.Event, error) {
	switch e.Type {
	case "tick":
		return app.TickEvent{}, nil
	case "drag_start":
		return app.DragStartEvent{Pointer: e.Pointer, X: e.X, Y: e.Y}, nil
	case "drag_move":
		return app.DragMoveEvent{Pointer: e.Pointer, X: e.X, Y: e.Y}, nil
	case "drag_end":
		return app.DragEndEvent{Pointer: e.Pointer}, nil
	case "hover":
		return app.HoverEvent{X: e.X, Y: e.Y}, nil
	case "recluster":
		return app.ReclusterEvent{}, nil
	case "filter":
		if !e.Reset {
			if err := errs.ValidateAttributeName(e.Attr); err != nil {
				return nil, err
			}
		}
		return app.FilterEvent{Attr: e.Attr, Values: e.Values, Min: e.Min, Max: e.Max, Reset: e.Reset}, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidEvent, "unknown event type %q", e.Type)
}
