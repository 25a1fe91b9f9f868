package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Load resolves a dataset into a [Graph].
//
// Declared nodes are registered first with degree 0 and visible set. Each
// link endpoint is then resolved by identifier; identifiers that were never
// declared get a synthesized placeholder node whose display name is the
// identifier. Both endpoints of every link have their degree incremented, so
// a self-loop adds two to its node.
//
// Nodes are returned in first-seen order: declared nodes in dataset order,
// followed by synthesized nodes in the order their links appear.
func Load(ds Dataset) *Graph {
	g := &Graph{
		Nodes: make([]*Node, 0, len(ds.Nodes)),
		Links: make([]*Link, 0, len(ds.Links)),
		byID:  make(map[string]*Node, len(ds.Nodes)),
	}

	for _, rec := range ds.Nodes {
		if _, dup := g.byID[rec.Name]; dup {
			continue
		}
		g.add(&Node{
			ID:      rec.Name,
			Name:    rec.Name,
			Visible: true,
			Attrs:   maps.Clone(rec.Attrs),
		})
	}

	for _, rec := range ds.Links {
		l := &Link{
			Source: g.resolve(rec.Source, rec.Count),
			Target: g.resolve(rec.Target, rec.Count),
			Count:  rec.Count,
			Index:  len(g.Links),
		}
		l.Source.Degree++
		l.Target.Degree++
		g.Links = append(g.Links, l)
	}

	return g
}

// resolve returns the node for id, synthesizing a placeholder if needed.
func (g *Graph) resolve(id string, count float64) *Node {
	if n, ok := g.byID[id]; ok {
		return n
	}
	n := &Node{
		ID:          id,
		Name:        id,
		Visible:     true,
		Synthesized: true,
		Attrs:       map[string]any{"count": count},
	}
	g.add(n)
	return n
}

func (g *Graph) add(n *Node) {
	n.Index = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	g.byID[n.ID] = n
}

// =============================================================================
// Dataset I/O
// =============================================================================

// ReadDataset decodes a JSON dataset from r.
func ReadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, errs.Wrap(errs.ErrCodeInvalidDataset, err, "decode dataset")
	}
	return ds, nil
}

// ReadDatasetFile reads and decodes a JSON dataset file.
func ReadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Dataset{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "dataset %s not found", path)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// UnmarshalDataset decodes JSON bytes to a Dataset.
func UnmarshalDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, errs.Wrap(errs.ErrCodeInvalidDataset, err, "decode dataset")
	}
	return ds, nil
}

// WriteGraph writes the resolved graph, including positions and clusters,
// as indented JSON.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
