package pipeline

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
)

// GenerateLayout places the nodes of g according to opts.Scatter, runs the
// force simulation and commits the result to every position slot.
// Options must already carry defaults (see [Options.ValidateForLayout]).
//
// A cancelled context returns the partial layout together with ctx.Err().
func GenerateLayout(ctx context.Context, g *graph.Store, opts Options) (fgio.Layout, error) {
	params := opts.Config.ForceParams()
	Scatter(g, opts.Scatter, opts.Radius, params.Seed)

	sim := force.New(params, force.WithLogger(opts.Logger))
	res, err := sim.SimulateContext(ctx, g)
	force.Commit(g, res.Positions)
	return fgio.NewLayout(g, res), err
}

// Extent returns the width and height of the box spanned by the node
// positions of l. An empty layout has zero extent.
func Extent(l fgio.Layout) r2.Vec {
	lo, hi := force.Bounds(l.Positions())
	return r2.Sub(hi, lo)
}

// Scatter places the nodes of g by strategy. Auto scatters only when every
// node still sits at the origin; none leaves the positions alone.
func Scatter(g *graph.Store, strategy string, radius float64, seed uint64) {
	switch strategy {
	case ScatterRandom:
		force.Scatter(g, radius, seed)
	case ScatterNoise:
		force.ScatterNoise(g, radius, int64(seed))
	case ScatterAuto:
		if atOrigin(g) {
			force.Scatter(g, radius, seed)
		}
	}
}

func atOrigin(g *graph.Store) bool {
	for _, n := range g.Nodes() {
		if n.Pos.X != 0 || n.Pos.Y != 0 {
			return false
		}
	}
	return true
}
