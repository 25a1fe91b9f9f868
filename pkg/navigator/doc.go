// Package navigator filters the graph by node attributes.
//
// A [Navigator] is the headless counterpart of an attribute filter panel.
// Attributes are registered as sequential (numeric, filtered by range) or
// categorical (discrete, filtered by value set). Once bound to a graph's
// nodes with [Navigator.Data], each filter change recomputes the visible
// subset, writes it to the nodes' visibility flags and calls every
// [Navigator.OnUpdate] callback with the new visible list.
//
//	nav := navigator.New()
//	nav.AddSequentialAttrib("degree")
//	nav.AddCategoricalAttrib("party", nil)
//	nav.OnUpdate(func(visible []*graph.Node) { ... })
//	nav.Data(g.Nodes).Links(g.Links)
//	nav.FilterValues("party", "D")
package navigator
