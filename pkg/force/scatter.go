package force

import (
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Scatter places every node uniformly at random inside a disc of the given
// radius and writes the point to all three position slots. Graph files
// without coordinates start from here; starting every node at the origin
// works too but wastes the first iterations separating coincident nodes.
func Scatter(g *graph.Store, radius float64, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	g.EachNode(func(n *graph.Node) {
		r := radius * math.Sqrt(rng.Float64())
		angle := rng.Float64() * 2 * math.Pi
		n.Set(r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)})
	})
}

// ScatterNoise places nodes along a smooth OpenSimplex noise field. Nodes
// that are close in insertion order start close together, which keeps
// chains and trees from crossing themselves in the first frames.
func ScatterNoise(g *graph.Store, radius float64, seed int64) {
	noise := opensimplex.New(seed)
	i := 0
	g.EachNode(func(n *graph.Node) {
		t := float64(i) * noiseStep
		n.Set(r2.Vec{
			X: radius * noise.Eval2(t, 0),
			Y: radius * noise.Eval2(0, t+100),
		})
		i++
	})
}

const noiseStep = 0.37
