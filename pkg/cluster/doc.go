// Package cluster assigns cluster labels to graph nodes and groups nodes by
// label for drawing.
//
// A [Clusterer] mutates [graph.Node.Cluster] in place. The default
// implementation, [Louvain], maximises modularity over the visible subgraph
// with link counts as weights. Any function with the right shape can be
// used through [Func].
//
// [Groups] partitions nodes by label into a deterministic order: largest
// group first, ties broken by label (numerically when both labels are
// integers).
package cluster
