package viz

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/anim"
	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/config"
	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interp"
	"github.com/matzehuels/forcegraph/pkg/plot"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Transition = "linear"
	cfg.DurationMS = 100
	cfg.FPS = 20
	cfg.Physics.Seed = 42
	return cfg
}

// pair builds a-b with a moving from (0,0) to (100,0) and b from (0,200)
// to (100,200).
func pair(t *testing.T) *graph.Store {
	t.Helper()
	g := graph.New(nil)
	a, err := g.AddNode("a", graph.NodeData{})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.AddNode("b", graph.NodeData{})
	a.Set(r2.Vec{}, graph.PropPos, graph.PropStartPos)
	a.EndPos = r2.Vec{X: 100}
	b.Set(r2.Vec{Y: 200}, graph.PropPos, graph.PropStartPos)
	b.EndPos = r2.Vec{X: 100, Y: 200}
	if _, err := g.AddAdjacence("a", "b", nil); err != nil {
		t.Fatal(err)
	}
	return g
}

func drive(t *testing.T, clock *anim.ManualClock, run *anim.Run, step time.Duration) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-run.Done():
			return
		case <-deadline:
			t.Fatal("run did not finish")
		default:
			clock.Advance(step)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestAnimate(t *testing.T) {
	g := pair(t)
	clock := anim.NewManualClock(time.Unix(0, 0))
	var order []string
	nodeHooks := 0
	fg, err := New(g, canvas.NewRecorder(400, 400), testConfig(),
		WithClock(clock),
		WithController(&plot.Controller{
			OnBeforePlotNode: func(*graph.Node) { nodeHooks++ },
			OnComplete:       func() { order = append(order, "complete") },
			OnAfterCompute:   func() { order = append(order, "after") },
		}))
	if err != nil {
		t.Fatal(err)
	}

	run, err := fg.Animate(context.Background(), AnimateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	drive(t, clock, run, 50*time.Millisecond)
	if err := run.Wait(); err != nil {
		t.Fatalf("Wait = %v", err)
	}

	g.EachNode(func(n *graph.Node) {
		if n.Pos != n.EndPos {
			t.Errorf("%s: pos %v, want end %v", n.ID, n.Pos, n.EndPos)
		}
		if n.StartPos != n.Pos {
			t.Errorf("%s: startPos not reset to pos", n.ID)
		}
	})
	if len(order) != 2 || order[0] != "complete" || order[1] != "after" {
		t.Errorf("completion order = %v", order)
	}
	// First frame and the final plot run the hooks, frames in between do not.
	if nodeHooks != 4 {
		t.Errorf("node hooks = %d, want 4", nodeHooks)
	}
	if fg.Busy() {
		t.Error("still busy after completion")
	}
}

func TestAnimateBusy(t *testing.T) {
	clock := anim.NewManualClock(time.Unix(0, 0))
	fg, err := New(pair(t), canvas.NewRecorder(10, 10), testConfig(), WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}
	run, err := fg.Animate(context.Background(), AnimateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	_, busyErr := fg.Animate(context.Background(), AnimateOptions{})
	if !errors.Is(busyErr, ErrBusy) {
		t.Errorf("second Animate = %v, want ErrBusy", busyErr)
	}
	if !ferrors.Is(busyErr, ferrors.ErrCodeBusy) {
		t.Errorf("busy error code = %q", ferrors.GetCode(busyErr))
	}

	run.Cancel()
	if err := run.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait = %v", err)
	}
	if fg.Busy() {
		t.Error("busy after cancel")
	}
	next, err := fg.Animate(context.Background(), AnimateOptions{})
	if err != nil {
		t.Fatalf("Animate after cancel: %v", err)
	}
	next.Cancel()
	next.Wait()
}

func TestAnimateFrames(t *testing.T) {
	g := pair(t)
	fg, err := New(g, canvas.NewRecorder(10, 10), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := g.Node("a")
	var xs []float64
	err = fg.AnimateFrames(5, AnimateOptions{}, func(i int, delta float64) error {
		xs = append(xs, a.Pos.X)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 25, 50, 75, 100}
	if len(xs) != len(want) {
		t.Fatalf("frames = %v, want %v", xs, want)
	}
	for i := range want {
		if math.Abs(xs[i]-want[i]) > 1e-9 {
			t.Errorf("frame %d x = %v, want %v", i, xs[i], want[i])
		}
	}
	if a.StartPos != a.EndPos {
		t.Errorf("startPos = %v, want %v", a.StartPos, a.EndPos)
	}
}

func TestAnimateFramesStopsOnError(t *testing.T) {
	g := pair(t)
	completes, afters := 0, 0
	fg, err := New(g, canvas.NewRecorder(10, 10), testConfig(), WithController(&plot.Controller{
		OnComplete:     func() { completes++ },
		OnAfterCompute: func() { afters++ },
	}))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := g.Node("a")
	boom := errors.New("disk full")
	calls := 0
	err = fg.AnimateFrames(10, AnimateOptions{}, func(i int, _ float64) error {
		calls++
		if i == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) || calls != 4 {
		t.Errorf("err = %v after %d calls, want %v after 4", err, calls, boom)
	}
	if completes != 0 || afters != 0 {
		t.Errorf("OnComplete ran %d times, OnAfterCompute %d times; want none", completes, afters)
	}
	if a.StartPos != (r2.Vec{}) {
		t.Errorf("startPos = %v, want the original origin", a.StartPos)
	}
	if a.Pos == a.StartPos || a.Pos == a.EndPos {
		t.Errorf("pos = %v, want frozen between start and end", a.Pos)
	}
	if fg.Busy() {
		t.Error("still busy after a failed export")
	}
}

func TestAnimateFramesIsBusy(t *testing.T) {
	fg, err := New(pair(t), canvas.NewRecorder(10, 10), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	var busy []bool
	var animateErr, sequenceErr, nestedErr error
	err = fg.AnimateFrames(3, AnimateOptions{}, func(i int, _ float64) error {
		busy = append(busy, fg.Busy())
		if i == 0 {
			_, animateErr = fg.Animate(context.Background(), AnimateOptions{})
			_, sequenceErr = fg.Sequence(context.Background(), SequenceOptions{})
			nestedErr = fg.AnimateFrames(2, AnimateOptions{}, nil)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range busy {
		if !b {
			t.Errorf("Busy() during frame %d = false", i)
		}
	}
	for name, e := range map[string]error{"Animate": animateErr, "Sequence": sequenceErr, "AnimateFrames": nestedErr} {
		if !errors.Is(e, ErrBusy) {
			t.Errorf("%s during export = %v, want ErrBusy", name, e)
		}
	}
	if fg.Busy() {
		t.Error("still busy after the export")
	}
}

func TestAnimateHideLabels(t *testing.T) {
	mem := plot.NewMemoryLabels()
	fg, _ := New(pair(t), canvas.NewRecorder(600, 600), testConfig(), WithLabelSurface(mem))
	hidden := 0
	err := fg.AnimateFrames(3, AnimateOptions{HideLabels: true}, func(int, float64) error {
		if !mem.ContainerVisible() {
			hidden++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if hidden != 3 {
		t.Errorf("frames with hidden labels = %d, want 3", hidden)
	}
	if !mem.ContainerVisible() || fg.Labels().Hidden() {
		t.Error("labels not restored after completion")
	}
	if len(mem.Visible()) != 2 {
		t.Errorf("visible labels = %d, want 2", len(mem.Visible()))
	}
}

func TestAnimateFadeVertex(t *testing.T) {
	g := pair(t)
	a, _ := g.Node("a")
	for _, adj := range a.Adjacencies() {
		adj.Alpha, adj.StartAlpha, adj.EndAlpha = 0, 0, 1
	}
	fg, _ := New(g, canvas.NewRecorder(10, 10), testConfig())
	err := fg.AnimateFrames(3, AnimateOptions{Modes: []interp.Mode{interp.FadeEdges}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	adj := a.Adjacencies()[0]
	if adj.Alpha != 1 || adj.StartAlpha != 1 {
		t.Errorf("adjacency alpha = %v start = %v, want 1 and 1", adj.Alpha, adj.StartAlpha)
	}
	if a.Pos != a.StartPos || a.Pos == a.EndPos {
		t.Error("fade-only animation moved the node")
	}
}

func TestAnimateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		opts  AnimateOptions
		setup func(*graph.Store)
		code  ferrors.Code
	}{
		{"mode", AnimateOptions{Modes: []interp.Mode{"warp"}}, nil, ferrors.ErrCodeInvalidMode},
		{"transition", AnimateOptions{Transition: "bounce"}, nil, ferrors.ErrCodeUnknownTransition},
		{"shape", AnimateOptions{}, func(g *graph.Store) {
			n, _ := g.Node("a")
			n.Data.Type = "hexagon"
		}, ferrors.ErrCodeUnknownShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := pair(t)
			if tt.setup != nil {
				tt.setup(g)
			}
			fg, _ := New(g, canvas.NewRecorder(10, 10), testConfig())
			_, err := fg.Animate(context.Background(), tt.opts)
			if !ferrors.Is(err, tt.code) {
				t.Errorf("Animate = %v, want %s", err, tt.code)
			}
			if fg.Busy() {
				t.Error("failed Animate left the graph busy")
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	g := pair(t)
	rec := canvas.NewRecorder(400, 400)
	var root string
	fg, _ := New(g, rec, testConfig(), WithController(&plot.Controller{
		OnBeforeCompute: func(n *graph.Node) { root = n.ID },
	}))
	if err := fg.Refresh(); err != nil {
		t.Fatal(err)
	}
	if root != "a" {
		t.Errorf("OnBeforeCompute root = %q, want a", root)
	}
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	if a.Pos != a.StartPos || a.Pos != a.EndPos {
		t.Error("Refresh should write every slot")
	}
	if d := r2.Norm(r2.Sub(a.Pos, b.Pos)); math.Abs(d-75) > 15 {
		t.Errorf("separation = %.1f, want near 75", d)
	}
	if rec.Count("Stroke") != 1 || rec.Count("Arc") != 2 {
		t.Errorf("ops: %d strokes, %d arcs", rec.Count("Stroke"), rec.Count("Arc"))
	}
}

func TestReposition(t *testing.T) {
	g := pair(t)
	fg, _ := New(g, canvas.NewRecorder(10, 10), testConfig())
	a, _ := g.Node("a")
	before := a.Pos
	fg.Reposition()
	if a.Pos != before {
		t.Error("Reposition moved the current position")
	}
	if a.EndPos == (r2.Vec{X: 100}) {
		t.Error("Reposition did not write EndPos")
	}
}

func TestCenterByMass(t *testing.T) {
	g := pair(t)
	fg, _ := New(g, canvas.NewRecorder(10, 10), testConfig())
	mean := fg.CenterByMass(graph.PropEndPos)
	if mean != (r2.Vec{X: 100, Y: 100}) {
		t.Errorf("mean = %v", mean)
	}
	a, _ := g.Node("a")
	if a.EndPos != (r2.Vec{Y: -100}) {
		t.Errorf("a.EndPos = %v", a.EndPos)
	}
}

func TestSequence(t *testing.T) {
	clock := anim.NewManualClock(time.Unix(0, 0))
	rec := canvas.NewRecorder(10, 10)
	fg, _ := New(pair(t), rec, testConfig(), WithClock(clock))
	steps := 0
	completed := 0
	run, err := fg.Sequence(context.Background(), SequenceOptions{
		Condition:  func() bool { return steps < 2 },
		Step:       func() { steps++ },
		OnComplete: func() { completed++ },
		Interval:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	drive(t, clock, run, 10*time.Millisecond)
	if err := run.Wait(); err != nil {
		t.Fatal(err)
	}
	if steps != 2 || completed != 1 {
		t.Errorf("steps=%d completed=%d", steps, completed)
	}
	if rec.Count("Clear") < 3 {
		t.Errorf("refreshes = %d, want at least 3", rec.Count("Clear"))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.FPS = -1
	if _, err := New(pair(t), canvas.NewRecorder(1, 1), cfg); !ferrors.Is(err, ferrors.ErrCodeInvalidConfig) {
		t.Errorf("New = %v", err)
	}
}
