package io

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Stats summarizes the topology of a graph.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	SelfLoops  int `json:"selfLoops"`
	Components int `json:"components"`
	Isolated   int `json:"isolated"`
}

// Components returns the connected components of the existing nodes of g.
// Each component lists node IDs in insertion order, and components are
// ordered by their first node.
func Components(g *graph.Store) [][]string {
	ug := simple.NewUndirectedGraph()
	ids := make(map[int64]string)
	var idx int64
	byID := make(map[string]int64)
	g.EachNode(func(n *graph.Node) {
		if !n.Exist {
			return
		}
		ug.AddNode(simple.Node(idx))
		ids[idx] = n.ID
		byID[n.ID] = idx
		idx++
	})
	for _, a := range g.Edges() {
		if a.IsLoop() {
			continue
		}
		from, ok1 := byID[a.NodeFrom.ID]
		to, ok2 := byID[a.NodeTo.ID]
		if !ok1 || !ok2 {
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(from), simple.Node(to)))
	}

	var out [][]string
	for _, cc := range topo.ConnectedComponents(ug) {
		comp := make([]string, 0, len(cc))
		for _, n := range cc {
			comp = append(comp, ids[n.ID()])
		}
		slices.SortFunc(comp, func(a, b string) int { return int(byID[a] - byID[b]) })
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []string) int { return int(byID[a[0]] - byID[b[0]]) })
	return out
}

// Summarize computes [Stats] for g.
func Summarize(g *graph.Store) Stats {
	s := Stats{Nodes: g.NodeCount()}
	for _, a := range g.Edges() {
		s.Edges++
		if a.IsLoop() {
			s.SelfLoops++
		}
	}
	for _, comp := range Components(g) {
		s.Components++
		if len(comp) == 1 {
			s.Isolated++
		}
	}
	return s
}
