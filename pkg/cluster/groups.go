package cluster

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Group is the set of nodes sharing a cluster label.
type Group struct {
	Key   string
	Nodes []*graph.Node
}

// Groups partitions nodes by cluster label. Groups are ordered by
// descending size; equal sizes are ordered by label. Within a group, nodes
// keep their input order.
func Groups(nodes []*graph.Node) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, n := range nodes {
		i, ok := index[n.Cluster]
		if !ok {
			i = len(groups)
			index[n.Cluster] = i
			groups = append(groups, Group{Key: n.Cluster})
		}
		groups[i].Nodes = append(groups[i].Nodes, n)
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(len(b.Nodes), len(a.Nodes)); c != 0 {
			return c
		}
		return CompareLabels(a.Key, b.Key)
	})
	return groups
}

// CompareLabels orders two cluster labels, numerically when both are
// integers and lexically otherwise.
func CompareLabels(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a, b)
}

// Membership returns the sorted node identifiers of each group, keyed by
// label.
func Membership(nodes []*graph.Node) map[string][]string {
	out := make(map[string][]string)
	for _, g := range Groups(nodes) {
		ids := make([]string, len(g.Nodes))
		for i, n := range g.Nodes {
			ids[i] = n.ID
		}
		slices.Sort(ids)
		out[g.Key] = ids
	}
	return out
}
