// Package graph provides the dataset format and the resolved in-memory graph
// used by the force layout.
//
// # Dataset Format
//
// Datasets use a d3-style node-link JSON layout. Nodes are identified by
// name; every other node field is kept as an attribute:
//
//	{
//	  "nodes": [{"name": "A", "party": "X"}, {"name": "B"}],
//	  "links": [{"source": "A", "target": "B", "count": 1}]
//	}
//
// Links may reference names that are not declared in the node list. The
// loader synthesizes a placeholder node for each such name instead of
// failing.
//
// # Loading
//
//	ds, _ := graph.ReadDatasetFile("votes.json")
//	g := graph.Load(ds)
//	fmt.Println(g.NodeCount(), g.LinkCount())
//
// After [Load], every [Link] holds resolved *[Node] endpoints and every node
// carries its degree (self-loops count twice).
//
// # Visibility
//
// Nodes carry a visibility flag toggled by filtering. Links have no flag of
// their own: a link is visible exactly when both endpoints are visible, so
// [Graph.VisibleLinks] always reflects the current node flags.
//
// # Concurrency
//
// A Graph is owned by a single goroutine (the application event loop). None
// of its methods are safe for concurrent mutation.
package graph
