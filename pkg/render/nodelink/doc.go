// Package nodelink renders graphs as Graphviz node-link diagrams.
//
// # Overview
//
// This package is an alternative output to the canvas renderers: the graph
// is written as DOT and laid out or drawn by Graphviz in-process. It is
// useful for sharing a layout with tools that already speak DOT.
//
// # Usage
//
// Convert a graph to DOT, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Pinned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include sorted metadata
//   - Pinned: nodes keep their force layout positions (pos="x,y!")
//   - Node, Edge: the same style configuration the canvas plotter uses,
//     so shape types, colours and overrides carry over
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly; no external binaries are required.
package nodelink
