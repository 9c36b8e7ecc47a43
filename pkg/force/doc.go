// Package force implements a spring-electrical force-directed layout.
//
// # Model
//
// Every iteration sums three contributions per node:
//
//   - a spring along every edge, proportional to how far the edge is from
//     its natural length
//   - a short-range k/d repulsion between every pair of nodes closer than
//     sqrt(3) natural lengths
//   - friction opposing the sum of the two, with a small random jitter so
//     symmetric configurations do not lock into periodic oscillation
//
// The summed force is clamped per axis and damped before it moves a node.
//
// # Stopping
//
// The loop does not test the gradient. It watches the total force of each
// iteration and stops once the change between consecutive totals has stayed
// under a threshold for a run of iterations (see [QuietDetector]). A hard
// cap of 1000 iterations bounds the work; running into it yields a valid,
// if less settled, layout with Result.Converged == false.
//
// # Usage
//
//	sim := force.New(force.Params{Seed: 42})
//	res := sim.Compute(g)                    // pos, startPos and endPos
//	res = sim.Compute(g, graph.PropEndPos)   // animation target only
//
// Degenerate geometry never fails: coincident edge endpoints and
// near-coincident node pairs get a random direction instead of a division
// by zero. With a fixed seed the whole computation is deterministic.
package force
