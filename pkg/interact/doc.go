// Package interact turns pointer gestures into simulation changes.
//
// A [Controller] implements the drag and hover behaviour of the force view:
//
//   - Drag start picks the nearest node within [DefaultDragRadius] of the
//     pointer and pins it at its current position. The first concurrent
//     drag raises the simulation's alpha target to [DefaultDragAlphaTarget]
//     and restarts it.
//   - Drag move moves the pin to the pointer.
//   - Drag end releases the pin. The last concurrent drag drops the alpha
//     target back to zero.
//   - Hover, while no drag is active, replaces the selected node with the
//     nearest node to the pointer and redraws its label.
//
// Gestures are keyed by pointer id so multiple pointers can drag
// independently. A gesture that starts over empty space is a no-op until
// it ends.
package interact
