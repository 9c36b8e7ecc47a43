package force

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// CenterByMass shifts every node so that the mean of slot from lands on the
// origin. The shifted point is written back to from and to every slot in to.
// Non-existing nodes are shifted too but do not contribute to the mean.
func CenterByMass(g *graph.Store, from graph.Prop, to ...graph.Prop) r2.Vec {
	var sum r2.Vec
	var count float64
	g.EachNode(func(n *graph.Node) {
		if n.Exist {
			sum = r2.Add(sum, n.Get(from))
			count++
		}
	})
	if count == 0 {
		return r2.Vec{}
	}
	mean := r2.Scale(1/count, sum)
	g.EachNode(func(n *graph.Node) {
		v := r2.Sub(n.Get(from), mean)
		n.Set(v, from)
		if len(to) > 0 {
			n.Set(v, to...)
		}
	})
	return mean
}

// Bounds returns the bounding box of the given positions.
func Bounds(pos Positions) (lo, hi r2.Vec) {
	first := true
	for _, p := range pos {
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo = r2.Vec{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = r2.Vec{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	return lo, hi
}
