// Package nodelink exports a laid-out graph as a Graphviz node-link diagram.
//
// # Usage
//
// Convert the visible nodes and links to DOT, then render with Graphviz:
//
//	dot := nodelink.ToDOT(nodes, links, nodelink.Options{Colors: palette})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Layout
//
// Node positions from the force simulation are written as pinned pos
// attributes ("x,y!") in points, with inputscale=72 and the neato engine, so
// Graphviz draws the layout as computed rather than laying the graph out
// again. The y axis is flipped because Graphviz puts the origin at the
// bottom left.
//
// # Options
//
//   - Detailed: node labels include degree, cluster and dataset attributes
//   - Colors: an ordinal scale used to fill nodes by cluster
//   - Height: frame height used for the y flip (0 skips flipping)
package nodelink
