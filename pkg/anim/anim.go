package anim

import (
	"context"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/interp"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Defaults for bounded animations.
const (
	DefaultFPS      = 40
	DefaultDuration = 2500 * time.Millisecond
	DefaultInterval = 200 * time.Millisecond
)

// Options describes one bounded animation.
type Options struct {
	Duration   time.Duration
	FPS        int
	Transition interp.Transition

	// Compute receives the eased progress of each frame. The final frame
	// always receives exactly 1.
	Compute func(delta float64)
	// Complete runs once after the final frame. It is skipped when the run
	// is canceled.
	Complete func()
}

func (o Options) withDefaults() Options {
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Transition == nil {
		o.Transition = interp.LinearTransition
	}
	if o.Compute == nil {
		o.Compute = func(float64) {}
	}
	if o.Complete == nil {
		o.Complete = func() {}
	}
	return o
}

// Interval is the frame period for the configured rate.
func (o Options) Interval() time.Duration {
	fps := o.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Duration(math.Round(float64(time.Second) / float64(fps)))
}

// Scheduler starts animations against a clock.
type Scheduler struct {
	clock  Clock
	logger *log.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler creates a scheduler on the wall clock.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{clock: RealClock{}, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// Run is a handle on a started animation or sequence.
type Run struct {
	ID string

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	frames int
	err    error
}

func newRun(ctx context.Context) (*Run, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	return &Run{ID: uuid.NewString(), cancel: cancel, done: make(chan struct{})}, ctx
}

// Cancel stops the run after the current frame. Node state stays at the
// last computed frame and no completion callback fires.
func (r *Run) Cancel() { r.cancel() }

// Done is closed when the run has finished or been canceled.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run ends. It returns the context error when the
// run was canceled.
func (r *Run) Wait() error {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Frames returns how many frames have been computed so far.
func (r *Run) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Run) frame() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	return r.frames
}

func (r *Run) finish(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	r.cancel()
	close(r.done)
}

// Start runs a bounded animation in its own goroutine. Each tick computes
// transition(elapsed/duration); once the duration has elapsed it computes
// delta 1 and calls Complete.
func (s *Scheduler) Start(ctx context.Context, opts Options) *Run {
	opts = opts.withDefaults()
	run, ctx := newRun(ctx)
	start := s.clock.Now()
	ticker := s.clock.NewTicker(opts.Interval())
	hooks := observability.Animation()
	s.logger.Debug("animation started", "run", run.ID, "duration", opts.Duration, "fps", opts.FPS)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hooks.OnAnimationComplete(ctx, run.ID, run.Frames(), true)
				s.logger.Debug("animation canceled", "run", run.ID, "frames", run.Frames())
				run.finish(ctx.Err())
				return
			case now := <-ticker.C():
				elapsed := now.Sub(start)
				if elapsed >= opts.Duration {
					opts.Compute(1)
					hooks.OnFrame(ctx, run.ID, run.frame(), 1)
					opts.Complete()
					hooks.OnAnimationComplete(ctx, run.ID, run.Frames(), false)
					s.logger.Debug("animation complete", "run", run.ID, "frames", run.Frames())
					run.finish(nil)
					return
				}
				delta := opts.Transition(float64(elapsed) / float64(opts.Duration))
				opts.Compute(delta)
				hooks.OnFrame(ctx, run.ID, run.frame(), delta)
			}
		}
	}()
	return run
}

// RunFrames drives an animation synchronously through exactly n frames
// without a clock: frame i receives transition(i/(n-1)) and the last frame
// receives 1. After each Compute, frame (if non-nil) is called with the
// frame index and delta. The first frame error stops the run before
// Complete, leaving state as it was after the failed frame.
func RunFrames(n int, opts Options, frame func(i int, delta float64) error) error {
	opts = opts.withDefaults()
	last := max(n, 1) - 1
	for i := 0; i <= last; i++ {
		delta := 1.0
		if i < last {
			delta = opts.Transition(float64(i) / float64(last))
		}
		opts.Compute(delta)
		if frame != nil {
			if err := frame(i, delta); err != nil {
				return err
			}
		}
	}
	opts.Complete()
	return nil
}

// SequenceOptions describes an unbounded repeat-until driver.
type SequenceOptions struct {
	// Condition is checked every interval; Step runs while it holds.
	Condition func() bool
	Step      func()
	// OnComplete runs once, on the first tick the condition is false.
	OnComplete func()
	// Refresh runs after every tick, including the final one.
	Refresh  func()
	Interval time.Duration
}

// Sequence runs Step at a fixed interval while Condition holds, then fires
// OnComplete and stops.
func (s *Scheduler) Sequence(ctx context.Context, opts SequenceOptions) *Run {
	if opts.Condition == nil {
		opts.Condition = func() bool { return false }
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	run, ctx := newRun(ctx)
	ticker := s.clock.NewTicker(opts.Interval)
	hooks := observability.Animation()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hooks.OnAnimationComplete(ctx, run.ID, run.Frames(), true)
				run.finish(ctx.Err())
				return
			case <-ticker.C():
				more := opts.Condition()
				if more {
					if opts.Step != nil {
						opts.Step()
					}
				} else if opts.OnComplete != nil {
					opts.OnComplete()
				}
				if opts.Refresh != nil {
					opts.Refresh()
				}
				hooks.OnFrame(ctx, run.ID, run.frame(), 0)
				if !more {
					hooks.OnAnimationComplete(ctx, run.ID, run.Frames(), false)
					run.finish(nil)
					return
				}
			}
		}
	}()
	return run
}
