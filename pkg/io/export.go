package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

type document struct {
	Meta  graph.Metadata `json:"meta,omitempty"`
	Nodes []node         `json:"nodes"`
	Edges []edge         `json:"edges"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type node struct {
	ID   string   `json:"id"`
	Name string   `json:"name,omitempty"`
	Pos  *point   `json:"pos,omitempty"`
	Data nodeData `json:"data,omitzero"`
}

type nodeData struct {
	Type      string         `json:"type,omitempty"`
	Color     string         `json:"color,omitempty"`
	LineWidth float64        `json:"lineWidth,omitempty"`
	Dim       float64        `json:"dim,omitempty"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
	Meta      graph.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Data *edgeData `json:"data,omitempty"`
}

type edgeData struct {
	Type      string         `json:"type,omitempty"`
	Color     string         `json:"color,omitempty"`
	LineWidth float64        `json:"lineWidth,omitempty"`
	Meta      graph.Metadata `json:"meta,omitempty"`
}

// WriteJSON encodes g as JSON and writes it to w.
// Each undirected edge is written once; current positions are included so
// the output can be re-imported with [ReadJSON] as a warm start.
func WriteJSON(g *graph.Store, w io.Writer) error {
	out := document{
		Meta:  g.Meta(),
		Nodes: make([]node, 0, g.NodeCount()),
	}
	g.EachNode(func(n *graph.Node) {
		d := n.Data
		out.Nodes = append(out.Nodes, node{
			ID:   n.ID,
			Name: d.Name,
			Pos:  &point{X: n.Pos.X, Y: n.Pos.Y},
			Data: nodeData{
				Type:      d.Type,
				Color:     d.Color,
				LineWidth: d.LineWidth,
				Dim:       d.Dim,
				Width:     d.Width,
				Height:    d.Height,
				Meta:      emptyToNil(d.Meta),
			},
		})
	})
	for _, a := range g.Edges() {
		e := edge{From: a.NodeFrom.ID, To: a.NodeTo.ID}
		if d := a.Data; d != nil && (d.Type != "" || d.Color != "" || d.LineWidth != 0 || len(d.Meta) > 0) {
			e.Data = &edgeData{Type: d.Type, Color: d.Color, LineWidth: d.LineWidth, Meta: emptyToNil(d.Meta)}
		}
		out.Edges = append(out.Edges, e)
	}
	if out.Edges == nil {
		out.Edges = []edge{}
	}
	return encode(w, out)
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func emptyToNil(m graph.Metadata) graph.Metadata {
	if len(m) == 0 {
		return nil
	}
	return m
}
