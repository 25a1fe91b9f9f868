package navigator

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scale"
)

// Kind distinguishes attribute filter types.
type Kind int

const (
	Sequential Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "sequential"
}

// Attribute is a registered filterable attribute.
type Attribute struct {
	Name  string
	Kind  Kind
	Color *scale.Ordinal
}

type filter struct {
	lo, hi float64
	values map[string]bool
}

// Navigator holds the registered attributes, the active filters and the
// bound data.
type Navigator struct {
	attrs     []Attribute
	filters   map[string]filter
	nodes     []*graph.Node
	links     []*graph.Link
	visible   []*graph.Node
	listeners []func([]*graph.Node)
}

// New creates a navigator with no attributes.
func New() *Navigator {
	return &Navigator{filters: make(map[string]filter)}
}

// AddSequentialAttrib registers a numeric attribute filtered by range.
func (n *Navigator) AddSequentialAttrib(name string) *Navigator {
	n.add(Attribute{Name: name, Kind: Sequential})
	return n
}

// AddCategoricalAttrib registers a discrete attribute filtered by value.
// colors, if non-nil, is the scale used to color its values.
func (n *Navigator) AddCategoricalAttrib(name string, colors *scale.Ordinal) *Navigator {
	n.add(Attribute{Name: name, Kind: Categorical, Color: colors})
	return n
}

func (n *Navigator) add(a Attribute) {
	for i, existing := range n.attrs {
		if existing.Name == a.Name {
			n.attrs[i] = a
			delete(n.filters, a.Name)
			return
		}
	}
	n.attrs = append(n.attrs, a)
}

// Attributes returns the registered attributes in registration order.
func (n *Navigator) Attributes() []Attribute { return slices.Clone(n.attrs) }

// Attribute looks up a registered attribute.
func (n *Navigator) Attribute(name string) (Attribute, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Data binds the nodes to filter and applies the active filters.
func (n *Navigator) Data(nodes []*graph.Node) *Navigator {
	n.nodes = nodes
	n.apply()
	return n
}

// Links binds the links used by [Navigator.VisibleLinks].
func (n *Navigator) Links(links []*graph.Link) *Navigator {
	n.links = links
	return n
}

// OnUpdate registers a callback invoked with the visible nodes after every
// filter change.
func (n *Navigator) OnUpdate(fn func(visible []*graph.Node)) *Navigator {
	n.listeners = append(n.listeners, fn)
	return n
}

// GetVisible returns the nodes passing every active filter.
func (n *Navigator) GetVisible() []*graph.Node { return n.visible }

// VisibleLinks returns the bound links whose endpoints are both visible.
func (n *Navigator) VisibleLinks() []*graph.Link { return graph.VisibleLinks(n.links) }

// FilterRange keeps nodes whose sequential attribute lies in [lo, hi].
// Nodes without the attribute, or with a non-numeric value, are hidden.
func (n *Navigator) FilterRange(attr string, lo, hi float64) error {
	a, err := n.lookup(attr, Sequential)
	if err != nil {
		return err
	}
	if lo > hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid range [%v, %v] for %s", lo, hi, attr)
	}
	n.filters[a.Name] = filter{lo: lo, hi: hi}
	n.update()
	return nil
}

// FilterValues keeps nodes whose categorical attribute is one of values.
// An empty value list clears the filter.
func (n *Navigator) FilterValues(attr string, values ...string) error {
	a, err := n.lookup(attr, Categorical)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		delete(n.filters, a.Name)
	} else {
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		n.filters[a.Name] = filter{values: set}
	}
	n.update()
	return nil
}

// ClearFilter removes the filter on one attribute.
func (n *Navigator) ClearFilter(attr string) {
	if _, ok := n.filters[attr]; !ok {
		return
	}
	delete(n.filters, attr)
	n.update()
}

// Reset removes every filter.
func (n *Navigator) Reset() {
	clear(n.filters)
	n.update()
}

// Values returns the distinct values of a categorical attribute among the
// bound nodes, in label order.
func (n *Navigator) Values(attr string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, node := range n.nodes {
		v, ok := node.Attr(attr)
		if !ok {
			continue
		}
		s := label(v)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	slices.SortFunc(out, compareLabels)
	return out
}

// Extent returns the numeric range of a sequential attribute among the
// bound nodes.
func (n *Navigator) Extent(attr string) (lo, hi float64, ok bool) {
	for _, node := range n.nodes {
		v, present := numeric(node, attr)
		if !present {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi, ok
}

func (n *Navigator) lookup(name string, kind Kind) (Attribute, error) {
	a, ok := n.Attribute(name)
	if !ok {
		return Attribute{}, errs.New(errs.ErrCodeInvalidAttribute, "attribute %q is not registered", name)
	}
	if a.Kind != kind {
		return Attribute{}, errs.New(errs.ErrCodeInvalidAttribute, "attribute %q is %s, not %s", name, a.Kind, kind)
	}
	return a, nil
}

func (n *Navigator) update() {
	n.apply()
	for _, fn := range n.listeners {
		fn(n.visible)
	}
}

func (n *Navigator) apply() {
	n.visible = n.visible[:0:0]
	for _, node := range n.nodes {
		node.Visible = n.pass(node)
		if node.Visible {
			n.visible = append(n.visible, node)
		}
	}
}

func (n *Navigator) pass(node *graph.Node) bool {
	for _, a := range n.attrs {
		f, ok := n.filters[a.Name]
		if !ok {
			continue
		}
		switch a.Kind {
		case Sequential:
			v, present := numeric(node, a.Name)
			if !present || v < f.lo || v > f.hi {
				return false
			}
		case Categorical:
			v, present := node.Attr(a.Name)
			if !present || !f.values[label(v)] {
				return false
			}
		}
	}
	return true
}

func numeric(node *graph.Node, attr string) (float64, bool) {
	v, ok := node.Attr(attr)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func label(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func compareLabels(a, b string) int {
	af, errA := strconv.ParseFloat(a, 64)
	bf, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(af, bf)
	}
	return cmp.Compare(a, b)
}
