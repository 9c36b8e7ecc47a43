// Package graph provides the node and adjacency store shared by the layout
// engine and the renderers.
//
// # Overview
//
// A [Store] owns every [Node] and [Adjacency] of one graph. Edges are
// undirected for layout purposes but stored directionally: adding the edge
// a-b creates the record a→b on a and b→a on b, both pointing at the same
// [EdgeData]. Anything that walks the graph must therefore deduplicate
// symmetric pairs.
//
// # Basic Usage
//
//	g := graph.New(nil)
//	g.AddNode("a", graph.NodeData{})
//	g.AddNode("b", graph.NodeData{Color: "#0af"})
//	g.AddAdjacence("a", "b", nil)
//
// # Node State
//
// Each node carries three positions: Pos (what is drawn), StartPos and
// EndPos (the endpoints of the running interpolation), plus the matching
// alpha triple. [Prop] addresses the position slots so callers can ask the
// layout engine to write only the animation target ([PropEndPos]) or the
// full set ([AllProps]).
//
// # Ordering
//
// Nodes live in an insertion-ordered arena indexed by ID, and adjacency
// lists keep insertion order too. Traversals are therefore deterministic,
// which is what makes seeded layouts reproducible.
//
// # Concurrency
//
// Store instances are not safe for concurrent use. The visualization that
// owns a store serializes access to it.
package graph
