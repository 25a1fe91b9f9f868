// Package canvas provides the drawing surfaces frames are rendered onto.
//
// A [Surface] is the minimal immediate-mode contract the renderer needs:
// clear, stroke a line, fill a circle, draw a label. Two implementations are
// provided:
//
//   - [Raster]: an RGBA bitmap backed by github.com/fogleman/gg, encodable
//     as PNG
//   - [Vector]: an operation recorder that serializes to SVG and lets tests
//     inspect exactly what was drawn
//
// Frames are normally drawn onto two surfaces of the same size, a primary
// surface for nodes and links and an overlay for the hover label, and
// flattened with [Composite] or [CompositeSVG] for export.
package canvas
