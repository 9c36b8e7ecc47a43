package force

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Positions maps node IDs to points.
type Positions map[string]r2.Vec

// Clone returns a copy of the map.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// EdgeForces computes the spring force of every edge. Each edge must appear
// once; [Springs] builds such a list. The returned total is the sum of
// 2*|force| over all edges.
//
// The direction is the displacement normalized by its L1 norm. Coincident
// endpoints get distance 1 and a random direction.
func EdgeForces(edges []*graph.Adjacency, pos Positions, p Params, rng *rand.Rand) (Positions, float64) {
	forces := make(Positions, len(pos))
	var total float64
	for _, e := range edges {
		from, to := e.NodeFrom.ID, e.NodeTo.ID
		a := r2.Sub(pos[to], pos[from])
		d := r2.Norm(a)

		var s r2.Vec
		if d != 0 {
			s = r2.Scale(1/(math.Abs(a.X)+math.Abs(a.Y)), a)
		} else {
			d = 1
			s = randomUnit(rng)
		}

		f := p.RestoringForce * (d - p.NaturalLength)
		df := r2.Scale(f, s)
		forces[from] = r2.Add(forces[from], df)
		forces[to] = r2.Sub(forces[to], df)
		total += math.Abs(f) * 2
	}
	return forces, total
}

// NodeForces computes the short-range repulsion between every unordered pair
// of distinct nodes. Pairs further apart than sqrt(3)*NaturalLength do not
// interact. Near-coincident pairs (squared distance <= 1) get a random
// distance in (0, 1] and a random angle.
func NodeForces(nodes []*graph.Node, pos Positions, p Params, rng *rand.Rand) (Positions, float64) {
	forces := make(Positions, len(pos))
	cutoff := p.NaturalLength * p.NaturalLength * 3
	var total float64
	for i, na := range nodes {
		for _, nb := range nodes[i+1:] {
			if na == nb || na.ID == nb.ID {
				continue
			}
			a := r2.Sub(pos[nb.ID], pos[na.ID])
			dsq := a.X*a.X + a.Y*a.Y

			var d, angle float64
			if dsq > 1 {
				if dsq > cutoff {
					continue
				}
				d = math.Sqrt(dsq)
				angle = math.Atan2(a.Y, a.X)
			} else {
				d = 1 - rng.Float64()
				angle = rng.Float64() * 2 * math.Pi
			}

			f := p.Repulsion / d
			df := r2.Vec{X: math.Cos(angle) * f, Y: math.Sin(angle) * f}
			forces[na.ID] = r2.Sub(forces[na.ID], df)
			forces[nb.ID] = r2.Add(forces[nb.ID], df)
			total += f * 2
		}
	}
	return forces, total
}

// FrictionForces opposes the accumulated force of every node, scaled by
// Mass/Friction and jittered per axis by a factor in [0.8, 1.2). The
// returned total is the negated signed sum of the friction components.
func FrictionForces(nodes []*graph.Node, acc Positions, p Params, rng *rand.Rand) (Positions, float64) {
	forces := make(Positions, len(nodes))
	var total float64
	for _, n := range nodes {
		f := acc[n.ID]
		fx := f.X * p.Mass / p.Friction * (0.4*rng.Float64() + 0.8)
		fy := f.Y * p.Mass / p.Friction * (0.4*rng.Float64() + 0.8)
		forces[n.ID] = r2.Vec{X: -fx, Y: -fy}
		total -= fx + fy
	}
	return forces, total
}

// Springs returns one adjacency per undirected edge whose endpoints both
// exist, in deterministic order.
func Springs(g *graph.Store) []*graph.Adjacency {
	var out []*graph.Adjacency
	for _, e := range g.Edges() {
		if e.NodeFrom.Exist && e.NodeTo.Exist {
			out = append(out, e)
		}
	}
	return out
}

// Existing returns the nodes that take part in the simulation.
func Existing(g *graph.Store) []*graph.Node {
	var out []*graph.Node
	g.EachNode(func(n *graph.Node) {
		if n.Exist {
			out = append(out, n)
		}
	})
	return out
}

func clamp(v, limit float64) float64 {
	return max(-limit, min(limit, v))
}

func randomUnit(rng *rand.Rand) r2.Vec {
	angle := rng.Float64() * 2 * math.Pi
	return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}
