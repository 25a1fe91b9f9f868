package graph

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Dataset - Wire Format
// =============================================================================

// Dataset is the serialized node-link format consumed by [Load].
type Dataset struct {
	Nodes []NodeRecord `json:"nodes" bson:"nodes"`
	Links []LinkRecord `json:"links" bson:"links"`
}

// NodeRecord is a declared node. Name is the identifier; all other JSON
// fields are collected into Attrs.
type NodeRecord struct {
	Name  string         `json:"name" bson:"name"`
	Attrs map[string]any `json:"-" bson:"-"`
}

// UnmarshalJSON decodes a node object, keeping unknown fields as attributes.
func (r *NodeRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	name, ok := raw["name"]
	if !ok {
		return errs.New(errs.ErrCodeInvalidDataset, "node record missing name")
	}
	id, err := NameString(name)
	if err != nil {
		return err
	}
	r.Name = id
	delete(raw, "name")
	if len(raw) > 0 {
		r.Attrs = raw
	} else {
		r.Attrs = nil
	}
	return nil
}

// NameString formats a decoded name value as a node id. Numbers are written
// in plain decimal so "1000000" and 1000000 name the same node; null,
// objects and arrays are rejected.
func NameString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	case nil:
		return "", errs.New(errs.ErrCodeInvalidDataset, "node name is null")
	}
	return "", errs.New(errs.ErrCodeInvalidDataset, "node name must be a string or number, got %T", v)
}

// MarshalJSON encodes the record as a flat object with name and attributes.
func (r NodeRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attrs)+1)
	maps.Copy(out, r.Attrs)
	out["name"] = r.Name
	return json.Marshal(out)
}

// LinkRecord references its endpoints by node name.
type LinkRecord struct {
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Count  float64 `json:"count,omitempty" bson:"count,omitempty"`
}

// =============================================================================
// Node - Resolved Graph Node
// =============================================================================

// Node is a graph vertex with its simulation and rendering state.
//
// X/Y and VX/VY are owned by the simulation. FX/FY pin the position while
// non-nil; the interaction controller sets and clears them during a drag.
type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Degree      int            `json:"degree"`
	Cluster     string         `json:"cluster,omitempty"`
	Visible     bool           `json:"visible"`
	Synthesized bool           `json:"synthesized,omitempty"`
	Radius      float64        `json:"r"`
	Attrs       map[string]any `json:"attrs,omitempty"`

	Index  int      `json:"index"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	VX     float64  `json:"vx"`
	VY     float64  `json:"vy"`
	FX     *float64 `json:"fx,omitempty"`
	FY     *float64 `json:"fy,omitempty"`
	Placed bool     `json:"-"`
}

// Attr returns a named attribute. The built-in fields "name", "degree" and
// "cluster" are addressable alongside the dataset attributes.
func (n *Node) Attr(name string) (any, bool) {
	switch name {
	case "id":
		return n.ID, true
	case "name":
		return n.Name, true
	case "degree":
		return n.Degree, true
	case "cluster":
		return n.Cluster, n.Cluster != ""
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// Pin fixes the node at (x, y) until [Node.Unpin] is called.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
}

// Unpin releases a pinned position.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether the node has a fixed-position override.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// =============================================================================
// Link - Resolved Edge
// =============================================================================

// Link connects two resolved nodes. Links are immutable after loading.
type Link struct {
	Source *Node   `json:"-"`
	Target *Node   `json:"-"`
	Count  float64 `json:"count"`
	Index  int     `json:"index"`
}

// IsSelfLoop reports whether both endpoints are the same node.
func (l *Link) IsSelfLoop() bool { return l.Source == l.Target }

// MarshalJSON encodes endpoints by identifier.
func (l *Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(LinkRecord{Source: l.Source.ID, Target: l.Target.ID, Count: l.Count})
}

// =============================================================================
// Graph
// =============================================================================

// Graph is the resolved node-link structure produced by [Load].
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Links []*Link `json:"links"`

	byID map[string]*Node
}

// NodeCount returns the number of nodes, visible or not.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// LinkCount returns the number of links, visible or not.
func (g *Graph) LinkCount() int { return len(g.Links) }

// Node looks up a node by identifier.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// SynthesizedNodes returns the placeholder nodes created for dangling link
// endpoints, in creation order.
func (g *Graph) SynthesizedNodes() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Synthesized {
			out = append(out, n)
		}
	}
	return out
}

// ClusterLabels returns the distinct cluster labels in sorted order.
func (g *Graph) ClusterLabels() []string {
	seen := make(map[string]struct{})
	for _, n := range g.Nodes {
		seen[n.Cluster] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}
