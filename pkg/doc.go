// Package pkg provides the core libraries for forcegraph.
//
// # Overview
//
// Forcegraph turns a co-voting dataset (legislators as nodes, links weighted
// by how often two legislators voted together) into a force-directed
// layout whose clusters approximate voting blocs.
//
// # Architecture
//
//	dataset (file, HTTP, MongoDB)
//	         ↓
//	    [source] + [graph]     fetch, resolve links, synthesize missing nodes
//	         ↓
//	    [app]                  simulation, navigator, clusterer, renderer
//	         ↓
//	    [sim] + [cluster]      ticks until alpha < alphaMin; Louvain blocs
//	         ↓
//	    [render] + [canvas]    PNG, SVG, DOT, JSON
//
// [pipeline] runs these stages once with caching through [cache]; [session]
// and [server] keep an [app.App] alive and feed it pointer and filter
// events over HTTP.
//
// # Main Packages
//
// [graph] - Nodes, links, dataset decoding and the visible subset.
//
// [sim] - A d3-style velocity Verlet simulation with link, many-body,
// centering and cluster grouping forces.
//
// [cluster] - Community detection (Louvain) and attribute grouping.
//
// [navigator] - Attribute filters that decide which nodes are visible.
//
// [interact] - Hover and drag handling keyed by pointer.
//
// [render] - Frame drawing on [canvas] surfaces and file export.
//
// [app] - The application context and its single-threaded event loop.
//
// [pipeline] - load → simulate → render with layout and output caching.
//
// [cache] - File, Redis and null caches behind one interface.
//
// [config] - TOML configuration.
//
// [errors] - Coded errors shared by the CLI and the HTTP server.
//
// [observability] - Hooks for metrics and tracing.
//
// [graph]: github.com/matzehuels/forcegraph/pkg/graph
// [sim]: github.com/matzehuels/forcegraph/pkg/sim
// [cluster]: github.com/matzehuels/forcegraph/pkg/cluster
// [navigator]: github.com/matzehuels/forcegraph/pkg/navigator
// [interact]: github.com/matzehuels/forcegraph/pkg/interact
// [render]: github.com/matzehuels/forcegraph/pkg/render
// [canvas]: github.com/matzehuels/forcegraph/pkg/canvas
// [app]: github.com/matzehuels/forcegraph/pkg/app
// [app.App]: github.com/matzehuels/forcegraph/pkg/app#App
// [pipeline]: github.com/matzehuels/forcegraph/pkg/pipeline
// [cache]: github.com/matzehuels/forcegraph/pkg/cache
// [config]: github.com/matzehuels/forcegraph/pkg/config
// [errors]: github.com/matzehuels/forcegraph/pkg/errors
// [observability]: github.com/matzehuels/forcegraph/pkg/observability
// [source]: github.com/matzehuels/forcegraph/pkg/source
// [session]: github.com/matzehuels/forcegraph/pkg/session
// [server]: github.com/matzehuels/forcegraph/pkg/server
package pkg
