package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// ReadJSON decodes a JSON graph from r into a [graph.Store].
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b", "pos": {"x": 10, "y": 0}}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// A node "pos" seeds all three position slots. Nodes without one start at
// the origin; callers usually scatter them before simulating.
//
// ReadJSON returns an INVALID_FORMAT error for malformed JSON, an
// INVALID_NODE_ID error for ids rejected by errors.ValidateNodeID, and an
// INVALID_GRAPH error when a node ID is duplicated or an edge references an
// unknown node. The store sentinel stays reachable through
// errors.Is. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Store, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := graph.New(data.Meta)
	for _, n := range data.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		nd, err := g.AddNode(n.ID, n.Data.nodeData(n.Name))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
		if n.Pos != nil {
			nd.Set(r2.Vec{X: n.Pos.X, Y: n.Pos.Y})
		}
	}
	for _, e := range data.Edges {
		var ed *graph.EdgeData
		if e.Data != nil {
			ed = &graph.EdgeData{
				Type:      e.Data.Type,
				Color:     e.Data.Color,
				LineWidth: e.Data.LineWidth,
				Meta:      e.Data.Meta,
			}
		}
		if _, err := g.AddAdjacence(e.From, e.To, ed); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %s->%s", e.From, e.To)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON graph file at path.
//
// A missing file yields a FILE_NOT_FOUND error; everything else behaves
// like [ReadJSON].
func ImportJSON(path string) (*graph.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (d nodeData) nodeData(name string) graph.NodeData {
	return graph.NodeData{
		Name:      name,
		Type:      d.Type,
		Color:     d.Color,
		LineWidth: d.LineWidth,
		Dim:       d.Dim,
		Width:     d.Width,
		Height:    d.Height,
		Meta:      d.Meta,
	}
}
