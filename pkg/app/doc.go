// Package app wires the loader, simulation, renderer, navigator and
// interaction controller into one running view.
//
// # Application Context
//
// An [App] owns every piece of mutable view state: the drawing surfaces
// (through its renderer), the force simulation, the navigator, the
// clusterer, the drag/hover controller and the current selection. Nothing
// is kept in package-level variables, so several views can run side by
// side in one process.
//
// # Events
//
// User input and timer ticks are values implementing [Event]. A [Handler]
// receives the App and the event; [DefaultHandler] maps each event onto the
// matching App operation:
//
//   - [TickEvent]: advance the simulation one step and redraw
//   - [DragStartEvent], [DragMoveEvent], [DragEndEvent]: pin and move nodes
//   - [HoverEvent]: update the selection and its label
//   - [ReclusterEvent]: rerun clustering on the visible set and re-layout
//   - [FilterEvent]: change a navigator filter
//
// # Loop
//
// A [Loop] serializes all work on the App through a FIFO queue consumed by a
// single goroutine. Other goroutines [Loop.Post] events or run functions
// with [Loop.Do]; while the simulation is running, [Loop.Run] also posts a
// TickEvent at the configured tick rate. Tests drive the queue explicitly
// with [Loop.Step] and [Loop.Drain].
package app
