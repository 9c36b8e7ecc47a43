package force_test

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleSimulator_Simulate() {
	g := graph.New(nil)
	a, _ := g.AddNode("a", graph.NodeData{})
	b, _ := g.AddNode("b", graph.NodeData{})
	_, _ = g.AddAdjacence("a", "b", nil)
	a.Set(r2.Vec{X: 0, Y: 0})
	b.Set(r2.Vec{X: 0, Y: 200})

	res := force.New(force.Params{Seed: 1}).Simulate(g)
	d := r2.Norm(r2.Sub(res.Positions["b"], res.Positions["a"]))

	// The spring's natural length is 75; short-range repulsion settles the
	// pair slightly further apart.
	fmt.Printf("converged: %v\n", res.Converged)
	fmt.Printf("separation: %.0f\n", d)
	// Output:
	// converged: true
	// separation: 78
}

func ExampleQuietDetector() {
	q := force.QuietDetector{Threshold: 10, Limit: 3}
	for i, total := range []float64{400, 250, 120, 118, 121, 119, 117} {
		if q.Observe(total) {
			fmt.Println("quiet after iteration", i)
			break
		}
	}
	// Output:
	// quiet after iteration 5
}
