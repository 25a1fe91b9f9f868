// Package render draws the simulated graph onto drawing surfaces.
//
// # Overview
//
// A [Renderer] owns two [canvas.Surface] values: a primary surface for nodes
// and links and an overlay for the hover label. [Renderer.Bind] recomputes
// everything that depends on the visible set (node radii and cluster
// groups); [Renderer.Draw] paints one frame and is called after every
// simulation tick.
//
// # Frame Rules
//
//   - The primary surface is cleared on every frame.
//   - Links are drawn only once the layout has cooled (alpha below
//     [DefaultLinkThreshold]), at opacity [DefaultLinkAlpha], in the color
//     of the target node's cluster.
//   - Nodes are filled circles drawn cluster by cluster, largest cluster
//     first, colored by the category20 ordinal scale keyed on cluster.
//   - When a node is selected the overlay is cleared and the node's name is
//     drawn at its position.
//
// # Radius
//
// Radii come from a clamped linear scale mapping the degree extent of the
// visible nodes onto [[DefaultMinRadius], [DefaultMaxRadius]]. When every
// visible node has the same degree, all radii equal the range midpoint.
//
// # Export
//
// [EncodePNG] and [EncodeSVG] redraw the current state onto fresh surfaces
// and flatten them. The [nodelink] subpackage exports the laid-out graph
// as Graphviz DOT.
//
// [nodelink]: github.com/matzehuels/forcegraph/pkg/render/nodelink
package render
