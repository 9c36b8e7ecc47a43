package io

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Layout is the serialized outcome of one simulation: a position per node
// plus the convergence summary. Layouts are what the cache stores.
type Layout struct {
	Nodes        []NodePosition `json:"nodes"`
	Iterations   int            `json:"iterations"`
	Converged    bool           `json:"converged"`
	ForceHistory []float64      `json:"forceHistory,omitempty"`
}

// NodePosition is one node's coordinates in a [Layout].
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// NewLayout builds a Layout from a simulation result, listing nodes in
// the graph's insertion order. Nodes missing from res (non-existing ones)
// are skipped.
func NewLayout(g *graph.Store, res force.Result) Layout {
	l := Layout{
		Iterations:   res.Iterations,
		Converged:    res.Converged,
		ForceHistory: res.ForceHistory,
		Nodes:        make([]NodePosition, 0, len(res.Positions)),
	}
	g.EachNode(func(n *graph.Node) {
		if p, ok := res.Positions[n.ID]; ok {
			l.Nodes = append(l.Nodes, NodePosition{ID: n.ID, X: p.X, Y: p.Y})
		}
	})
	return l
}

// Positions returns the layout as a position map.
func (l Layout) Positions() force.Positions {
	pos := make(force.Positions, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.ID] = r2.Vec{X: n.X, Y: n.Y}
	}
	return pos
}

// Result converts the layout back into a simulation result.
func (l Layout) Result() force.Result {
	return force.Result{
		Positions:    l.Positions(),
		Iterations:   l.Iterations,
		Converged:    l.Converged,
		ForceHistory: l.ForceHistory,
	}
}

// Apply writes the layout's positions into the given slots of g. Unknown
// IDs are ignored; it returns the number of nodes updated.
func (l Layout) Apply(g *graph.Store, props ...graph.Prop) int {
	applied := 0
	for _, p := range l.Nodes {
		if n, ok := g.Node(p.ID); ok {
			n.Set(r2.Vec{X: p.X, Y: p.Y}, props...)
			applied++
		}
	}
	return applied
}

// WriteLayout encodes l as indented JSON.
func WriteLayout(w io.Writer, l Layout) error {
	return encode(w, l)
}

// ReadLayout decodes a layout written by [WriteLayout].
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}
