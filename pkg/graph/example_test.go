package graph_test

import (
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleStore() {
	g := graph.New(nil)
	_, _ = g.AddNode("a", graph.NodeData{})
	_, _ = g.AddNode("b", graph.NodeData{})
	_, _ = g.AddNode("c", graph.NodeData{})
	_, _ = g.AddAdjacence("a", "b", nil)
	_, _ = g.AddAdjacence("b", "c", nil)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Records on b:", len(g.Adjacencies("b")))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Records on b: 2
}

func ExampleStore_Edges() {
	g := graph.New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_, _ = g.AddNode(id, graph.NodeData{})
	}
	_, _ = g.AddAdjacence("a", "b", nil)
	_, _ = g.AddAdjacence("b", "c", nil)
	_, _ = g.AddAdjacence("c", "a", nil)

	for _, e := range g.Edges() {
		fmt.Printf("%s-%s\n", e.NodeFrom.ID, e.NodeTo.ID)
	}
	// Output:
	// a-b
	// a-c
	// b-c
}
