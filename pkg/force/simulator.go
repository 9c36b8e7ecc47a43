package force

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Result is the outcome of one layout computation.
type Result struct {
	Positions    Positions // Final position of every existing node
	Iterations   int       // Iterations actually run
	Converged    bool      // False when the loop ran into MaxIterations
	ForceHistory []float64 // Total force per iteration
}

// Simulator computes force-directed layouts.
//
// Simulate is a pure function of the graph's current positions; Compute
// additionally commits the result to the nodes. A Simulator is not safe for
// concurrent use because it owns its random source.
type Simulator struct {
	params Params
	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand replaces the random source. Useful when several simulators must
// share one deterministic stream.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rng = r
		}
	}
}

// New creates a Simulator. Zero fields of p take their defaults.
func New(p Params, opts ...Option) *Simulator {
	p = p.withDefaults()
	seed := p.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &Simulator{
		params: p,
		rng:    rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params returns the effective parameters.
func (s *Simulator) Params() Params { return s.params }

// Simulate runs the layout loop to quiescence or the iteration cap and
// returns the new positions without touching the graph.
func (s *Simulator) Simulate(g *graph.Store) Result {
	res, _ := s.SimulateContext(context.Background(), g)
	return res
}

// SimulateContext is Simulate with cancellation checked between iterations.
// On cancellation it returns the partial result together with ctx.Err().
func (s *Simulator) SimulateContext(ctx context.Context, g *graph.Store) (Result, error) {
	start := time.Now()
	run := s.Begin(g)
	observability.Simulation().OnSimulateStart(ctx, len(run.nodes), len(run.edges))

	var err error
	for !run.Done() {
		if err = ctx.Err(); err != nil {
			break
		}
		run.Step()
	}

	res := run.Result()
	s.logger.Debug("simulation finished",
		"nodes", len(run.nodes),
		"edges", len(run.edges),
		"iterations", res.Iterations,
		"converged", res.Converged,
		"elapsed", time.Since(start))
	observability.Simulation().OnSimulateComplete(ctx, res.Iterations, res.Converged, time.Since(start), err)
	return res, err
}

// Compute simulates and commits the result to the given position slots
// (all three when none are given).
func (s *Simulator) Compute(g *graph.Store, props ...graph.Prop) Result {
	res := s.Simulate(g)
	Commit(g, res.Positions, props...)
	return res
}

// Commit writes positions into the given slots of every node present in
// the map.
func Commit(g *graph.Store, pos Positions, props ...graph.Prop) {
	g.EachNode(func(n *graph.Node) {
		if p, ok := pos[n.ID]; ok {
			n.Set(p, props...)
		}
	})
}

// Run is an in-progress layout computation that can be advanced one
// iteration at a time, so a caller can render the simulation itself.
type Run struct {
	sim   *Simulator
	nodes []*graph.Node
	edges []*graph.Adjacency
	pos   Positions
	quiet QuietDetector

	iterations int
	converged  bool
	history    []float64
}

// Begin snapshots the positions of the existing nodes of g and returns a
// Run positioned before the first iteration. Graphs with fewer than two
// existing nodes have no force work to do and start out converged.
func (s *Simulator) Begin(g *graph.Store) *Run {
	nodes := Existing(g)
	pos := make(Positions, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n.Pos
	}
	return &Run{
		sim:       s,
		nodes:     nodes,
		edges:     Springs(g),
		pos:       pos,
		quiet:     QuietDetector{Threshold: s.params.QuietThreshold, Limit: s.params.QuietLimit},
		converged: len(nodes) < 2,
	}
}

// Done reports whether the run converged or hit the iteration cap.
func (r *Run) Done() bool {
	return r.converged || r.iterations >= r.sim.params.MaxIterations
}

// Step runs one iteration and returns its total force. Calling Step on a
// finished run is a no-op returning 0.
func (r *Run) Step() float64 {
	if r.Done() {
		return 0
	}
	p, rng := r.sim.params, r.sim.rng

	acc := make(Positions, len(r.nodes))
	edge, total := EdgeForces(r.edges, r.pos, p, rng)
	addInto(acc, edge)
	node, nodeTotal := NodeForces(r.nodes, r.pos, p, rng)
	addInto(acc, node)
	total += nodeTotal
	friction, frictionTotal := FrictionForces(r.nodes, acc, p, rng)
	addInto(acc, friction)
	total += frictionTotal

	for _, n := range r.nodes {
		f := acc[n.ID]
		step := r2.Vec{X: clamp(f.X, p.MaxForce), Y: clamp(f.Y, p.MaxForce)}
		r.pos[n.ID] = r2.Add(r.pos[n.ID], r2.Scale(p.Damping, step))
	}

	r.iterations++
	r.history = append(r.history, total)
	if r.quiet.Observe(total) {
		r.converged = true
	}
	return total
}

// Positions returns a copy of the current working positions.
func (r *Run) Positions() Positions { return r.pos.Clone() }

// Iterations returns the number of completed iterations.
func (r *Run) Iterations() int { return r.iterations }

// Result returns the state of the run as a Result.
func (r *Run) Result() Result {
	return Result{
		Positions:    r.pos.Clone(),
		Iterations:   r.iterations,
		Converged:    r.converged,
		ForceHistory: append([]float64(nil), r.history...),
	}
}

func addInto(dst, src Positions) {
	for id, v := range src {
		dst[id] = r2.Add(dst[id], v)
	}
}
