// Package io provides JSON import and export for force-directed graphs and
// their computed layouts.
//
// # Graph Format
//
// A graph file has two required top-level arrays and an optional "meta"
// object:
//
//	{
//	  "nodes": [
//	    {"id": "hub", "name": "Hub", "data": {"type": "square", "color": "#557"}},
//	    {"id": "leaf", "pos": {"x": 40, "y": -10}}
//	  ],
//	  "edges": [
//	    {"from": "hub", "to": "leaf", "data": {"color": "#999"}}
//	  ]
//	}
//
// Node fields:
//   - id: unique, non-empty identifier (required)
//   - name: label text, defaults to the id
//   - pos: starting position, seeds all position slots
//   - data: render overrides (type, color, lineWidth, dim, width, height)
//     and a free-form "meta" object
//
// Edges are undirected. Listing both a→b and b→a yields one edge; a
// self-loop is kept but ignored by the simulator.
//
// Render overrides only take effect when the node or edge configuration
// is overridable, except "type", which always applies.
//
// # Import and Export
//
// Use [ImportJSON] or [ReadJSON] to load a graph, [ExportJSON] or
// [WriteJSON] to write one back, current positions included:
//
//	g, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Layout Format
//
// A [Layout] records where the simulator put every node:
//
//	{"nodes": [{"id": "hub", "x": 0, "y": 0}], "iterations": 212, "converged": true}
//
// [NewLayout] builds one from a [force.Result], [Layout.Apply] writes it
// back into a graph, and [WriteLayout] / [ReadLayout] handle the encoding.
//
// # Topology
//
// [Components] groups the existing nodes into connected components and
// [Summarize] reports node, edge, self-loop and component counts.
//
// [force.Result]: github.com/matzehuels/forcegraph/pkg/force.Result
package io
