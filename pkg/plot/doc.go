// Package plot renders a graph store onto a canvas surface.
//
// A [Plotter] walks every node once per call and draws each undirected edge
// exactly once even though the store keeps one adjacency record per
// direction and the graph may be cyclic. Two strategies are available:
//
//   - [DedupParity] flips a per-node Visited flag after each node; an edge is
//     drawn from whichever endpoint is reached first. Both full passes and
//     the flag state are part of the contract.
//   - [DedupVisitedPairs] keeps an explicit set of drawn (from, to) pairs for
//     the duration of one pass.
//
// Shapes are looked up by type name in a [Shapes] registry. Node styling
// comes from [NodeConfig] and, when it is overridable, from each node's
// data; edges likewise. Labels are handled by [Labels] over any
// [LabelSurface]; [MemoryLabels] is the in-process implementation used by
// the SVG renderer.
package plot
