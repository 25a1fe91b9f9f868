package graph

// VisibleNodes returns the nodes whose visibility flag is set.
func (g *Graph) VisibleNodes() []*Node {
	return VisibleNodes(g.Nodes)
}

// VisibleLinks returns the links whose endpoints are both visible.
func (g *Graph) VisibleLinks() []*Link {
	return VisibleLinks(g.Links)
}

// SetVisible makes exactly the given nodes visible and hides the rest.
// Nodes not belonging to g are ignored.
func (g *Graph) SetVisible(nodes []*Node) {
	keep := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		keep[n] = true
	}
	for _, n := range g.Nodes {
		n.Visible = keep[n]
	}
}

// ShowAll makes every node visible.
func (g *Graph) ShowAll() {
	for _, n := range g.Nodes {
		n.Visible = true
	}
}

// VisibleNodes filters nodes down to the visible ones.
func VisibleNodes(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Visible {
			out = append(out, n)
		}
	}
	return out
}

// VisibleLinks filters links down to those with both endpoints visible.
func VisibleLinks(links []*Link) []*Link {
	out := make([]*Link, 0, len(links))
	for _, l := range links {
		if l.Source.Visible && l.Target.Visible {
			out = append(out, l)
		}
	}
	return out
}

// LinksAmong returns the links whose endpoints are both in nodes. It is the
// membership-based counterpart of [VisibleLinks], used when a caller hands
// over an explicit node subset rather than relying on the flags.
func LinksAmong(nodes []*Node, links []*Link) []*Link {
	in := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	out := make([]*Link, 0, len(links))
	for _, l := range links {
		if in[l.Source] && in[l.Target] {
			out = append(out, l)
		}
	}
	return out
}

// DegreeExtent returns the minimum and maximum degree among nodes.
// ok is false when nodes is empty.
func DegreeExtent(nodes []*Node) (lo, hi int, ok bool) {
	for i, n := range nodes {
		if i == 0 {
			lo, hi = n.Degree, n.Degree
			continue
		}
		lo = min(lo, n.Degree)
		hi = max(hi, n.Degree)
	}
	return lo, hi, len(nodes) > 0
}

// FilterMinDegree returns the nodes with degree of at least minDegree.
// A minDegree of zero or less returns nodes unchanged.
func FilterMinDegree(nodes []*Node, minDegree int) []*Node {
	if minDegree <= 0 {
		return nodes
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Degree >= minDegree {
			out = append(out, n)
		}
	}
	return out
}
