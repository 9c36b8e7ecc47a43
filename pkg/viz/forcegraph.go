package viz

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/anim"
	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interp"
	"github.com/matzehuels/forcegraph/pkg/plot"
)

// ErrBusy is returned when an animation is started while another one is
// still running.
var ErrBusy = errors.New(errors.ErrCodeBusy, "an animation is already running")

// ForceGraph ties a graph store to a simulator, a plotter and an animation
// scheduler.
//
// Public methods are serialized. While an animation runs, the scheduler
// goroutine is the only writer of node state; callers should not mutate the
// graph until the run is done. Plot hooks run with the graph locked and must
// not call back into the ForceGraph.
type ForceGraph struct {
	mu sync.Mutex

	cfg        *config.Config
	g          *graph.Store
	sim        *force.Simulator
	plotter    *plot.Plotter
	labels     *plot.Labels
	interps    *interp.Registry
	sched      *anim.Scheduler
	controller *plot.Controller
	logger     *log.Logger

	run       *anim.Run
	exporting bool
}

// Option configures a ForceGraph.
type Option func(*options)

type options struct {
	controller *plot.Controller
	labels     plot.LabelSurface
	clock      anim.Clock
	logger     *log.Logger
	shapes     *plot.Shapes
	interps    *interp.Registry
}

// WithController installs visualization callbacks.
func WithController(c *plot.Controller) Option { return func(o *options) { o.controller = c } }

// WithLabelSurface enables labels on the given surface.
func WithLabelSurface(s plot.LabelSurface) Option { return func(o *options) { o.labels = s } }

// WithClock replaces the animation clock.
func WithClock(c anim.Clock) Option { return func(o *options) { o.clock = c } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithShapes replaces the shape registry.
func WithShapes(s *plot.Shapes) Option { return func(o *options) { o.shapes = s } }

// WithInterpolators replaces the interpolation registry.
func WithInterpolators(r *interp.Registry) Option { return func(o *options) { o.interps = r } }

// New creates a visualization of g on surface. A nil cfg selects the
// defaults.
func New(g *graph.Store, surface canvas.Surface, cfg *config.Config, opts ...Option) (*ForceGraph, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shapes == nil {
		o.shapes = plot.NewShapes()
	}
	if o.interps == nil {
		o.interps = interp.NewRegistry()
	}
	dedup, _ := plot.ParseDedup(cfg.Dedup)

	f := &ForceGraph{
		cfg:        cfg,
		g:          g,
		sim:        force.New(cfg.ForceParams(), force.WithLogger(o.logger)),
		interps:    o.interps,
		sched:      anim.NewScheduler(anim.WithClock(o.clock), anim.WithLogger(o.logger)),
		controller: o.controller,
		logger:     o.logger,
	}
	f.plotter = &plot.Plotter{
		Surface:    surface,
		Node:       cfg.Node,
		Edge:       cfg.Edge.EdgeConfig,
		Shapes:     o.shapes,
		Controller: o.controller,
		Dedup:      dedup,
	}
	if o.labels != nil {
		f.labels = plot.NewLabels(o.labels, o.controller)
		f.plotter.Labels = f.labels
	}
	return f, nil
}

// Graph returns the underlying store.
func (f *ForceGraph) Graph() *graph.Store { return f.g }

// Config returns the effective configuration.
func (f *ForceGraph) Config() *config.Config { return f.cfg }

// Surface returns the drawing surface.
func (f *ForceGraph) Surface() canvas.Surface { return f.plotter.Surface }

// Labels returns the label manager, or nil when labels are disabled.
func (f *ForceGraph) Labels() *plot.Labels { return f.labels }

// Simulator returns the layout engine.
func (f *ForceGraph) Simulator() *force.Simulator { return f.sim }

// Compute runs the simulation from the current positions and writes the
// result to the given slots (all three when none are given). It fires
// OnBeforeCompute with the root node first.
func (f *ForceGraph) Compute(props ...graph.Prop) force.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compute(props...)
}

func (f *ForceGraph) compute(props ...graph.Prop) force.Result {
	if root := f.g.Root(); root != nil {
		f.controller.BeforeCompute(root)
	}
	res := f.sim.Compute(f.g, props...)
	f.logger.Debug("computed layout", "nodes", f.g.NodeCount(), "iterations", res.Iterations, "converged", res.Converged)
	return res
}

// Reposition computes the layout into EndPos only, leaving the current
// positions as the animation start.
func (f *ForceGraph) Reposition() force.Result {
	return f.Compute(graph.PropEndPos)
}

// Refresh computes the layout into every slot and plots it.
func (f *ForceGraph) Refresh() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compute()
	return f.plot(false)
}

// Plot renders the graph at its current state.
func (f *ForceGraph) Plot() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plot(false)
}

func (f *ForceGraph) plot(animating bool) error {
	return f.plotter.Plot(f.g, plot.Options{
		ClearCanvas: f.cfg.ClearCanvas,
		WithLabels:  f.cfg.WithLabels,
	}, animating)
}

// CenterByMass moves the mean of slot from to the origin and copies the
// shifted points into to.
func (f *ForceGraph) CenterByMass(from graph.Prop, to ...graph.Prop) r2.Vec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return force.CenterByMass(f.g, from, to...)
}

// ClearLabels disposes labels of removed nodes, or all labels when all is
// set.
func (f *ForceGraph) ClearLabels(all bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.labels != nil {
		f.labels.ClearLabels(f.g, all)
	}
}

// Busy reports whether an animation, sequence or frame export is running.
func (f *ForceGraph) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy()
}

func (f *ForceGraph) busy() bool {
	if f.exporting {
		return true
	}
	if f.run == nil {
		return false
	}
	select {
	case <-f.run.Done():
		return false
	default:
		return true
	}
}

// AnimateOptions overrides the configured animation settings for one run.
// Zero fields fall back to the configuration.
type AnimateOptions struct {
	Modes      []interp.Mode
	Transition string
	Duration   time.Duration
	FPS        int
	// HideLabels hides the label container for the duration of the run.
	HideLabels bool
	// Versor is the Möbius transform vector. Each frame uses versor·(−delta).
	Versor *r2.Vec
	// OnComplete runs after the final plot, before OnAfterCompute.
	OnComplete func()
}

type animation struct {
	f        *ForceGraph
	fns      []interp.Func
	opts     AnimateOptions
	trans    interp.Transition
	started  bool
	firstErr error
}

func (f *ForceGraph) prepare(opts AnimateOptions) (*animation, error) {
	if opts.Modes == nil {
		opts.Modes = f.cfg.InterpModes()
	}
	fns, err := f.interps.Resolve(opts.Modes)
	if err != nil {
		return nil, err
	}
	name := opts.Transition
	if name == "" {
		name = f.cfg.Transition
	}
	trans, err := interp.TransitionByName(name)
	if err != nil {
		return nil, err
	}
	if err := f.checkShapes(); err != nil {
		return nil, err
	}
	return &animation{f: f, fns: fns, opts: opts, trans: trans}, nil
}

// checkShapes resolves every shape type up front so a bad type fails
// before any frame is drawn.
func (f *ForceGraph) checkShapes() error {
	for _, n := range f.g.Nodes() {
		if _, err := f.plotter.Shapes.Node(f.plotter.Node.Resolve(n).Type); err != nil {
			return err
		}
	}
	for _, e := range f.g.Edges() {
		if _, err := f.plotter.Shapes.Edge(f.plotter.Edge.Resolve(e).Type); err != nil {
			return err
		}
	}
	return nil
}

func (a *animation) begin() {
	if a.opts.HideLabels && a.f.labels != nil {
		a.f.labels.HideLabels(true)
	}
}

func (a *animation) compute(delta float64) {
	f := a.f
	f.mu.Lock()
	defer f.mu.Unlock()
	var vector r2.Vec
	if a.opts.Versor != nil {
		vector = r2.Scale(-delta, *a.opts.Versor)
	}
	f.g.EachNode(func(n *graph.Node) {
		for _, fn := range a.fns {
			fn(n, delta, vector)
		}
	})
	a.record(f.plot(a.started))
	a.started = true
}

func (a *animation) complete() {
	f := a.f
	f.mu.Lock()
	f.g.EachNode(func(n *graph.Node) {
		n.StartPos = n.Pos
		n.StartAlpha = n.Alpha
		for _, adj := range n.Adjacencies() {
			adj.StartAlpha = adj.Alpha
		}
	})
	if a.opts.HideLabels && f.labels != nil {
		f.labels.HideLabels(false)
	}
	a.record(f.plot(false))
	f.mu.Unlock()

	if a.opts.OnComplete != nil {
		a.opts.OnComplete()
	} else {
		f.controller.Complete()
	}
	f.controller.AfterCompute()
}

func (a *animation) record(err error) {
	if err != nil && a.firstErr == nil {
		a.firstErr = err
		a.f.logger.Error("plot failed", "err", err)
	}
}

// Animate interpolates every node from its start to its end state over the
// configured duration, plotting each frame. The first frame and the final
// plot run the plot hooks; the frames in between do not. On completion
// every node's start state is reset to its current state.
func (f *ForceGraph) Animate(ctx context.Context, opts AnimateOptions) (*anim.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy() {
		return nil, ErrBusy
	}
	a, err := f.prepare(opts)
	if err != nil {
		return nil, err
	}
	a.begin()

	dur := opts.Duration
	if dur <= 0 {
		dur = f.cfg.Duration()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = f.cfg.FPS
	}
	f.run = f.sched.Start(ctx, anim.Options{
		Duration:   dur,
		FPS:        fps,
		Transition: a.trans,
		Compute:    a.compute,
		Complete:   a.complete,
	})
	return f.run, nil
}

// AnimateFrames runs the same animation synchronously through n frames and
// calls frame after each one is plotted. The final call has index n-1 and
// shows the completed state. The ForceGraph reports busy until it returns.
// A frame error stops the export like a cancelled run: node state stays as
// plotted and no completion callbacks fire.
func (f *ForceGraph) AnimateFrames(n int, opts AnimateOptions, frame func(i int, delta float64) error) error {
	f.mu.Lock()
	if f.busy() {
		f.mu.Unlock()
		return ErrBusy
	}
	a, err := f.prepare(opts)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.exporting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.exporting = false
		f.mu.Unlock()
	}()

	a.begin()
	err = anim.RunFrames(n, anim.Options{
		Transition: a.trans,
		Compute:    a.compute,
		Complete:   a.complete,
	}, frame)
	if err != nil {
		return err
	}
	return a.firstErr
}

// SequenceOptions configures [ForceGraph.Sequence].
type SequenceOptions struct {
	Condition  func() bool
	Step       func()
	OnComplete func()
	Interval   time.Duration
}

// Sequence repeats Step while Condition holds, refreshing the layout and
// the plot after every tick, then fires OnComplete.
func (f *ForceGraph) Sequence(ctx context.Context, opts SequenceOptions) (*anim.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy() {
		return nil, ErrBusy
	}
	f.run = f.sched.Sequence(ctx, anim.SequenceOptions{
		Condition:  opts.Condition,
		Step:       opts.Step,
		OnComplete: opts.OnComplete,
		Interval:   opts.Interval,
		Refresh: func() {
			if err := f.Refresh(); err != nil {
				f.logger.Error("refresh failed", "err", err)
			}
		},
	})
	return f.run, nil
}
