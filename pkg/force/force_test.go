package force

import (
	"context"
	"errors"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

const eps = 1e-9

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func buildGraph(t *testing.T, pos map[string]r2.Vec, edges [][2]string) *graph.Store {
	t.Helper()
	g := graph.New(nil)
	for _, id := range sortedKeys(pos) {
		n, err := g.AddNode(id, graph.NodeData{})
		if err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
		n.Set(pos[id])
	}
	for _, e := range edges {
		if _, err := g.AddAdjacence(e[0], e[1], nil); err != nil {
			t.Fatalf("AddAdjacence(%v): %v", e, err)
		}
	}
	return g
}

func sortedKeys(m map[string]r2.Vec) []string {
	return slices.Sorted(maps.Keys(m))
}

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestEdgeForcesNewtonSymmetry(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	p := DefaultParams()
	for i := 0; i < 100; i++ {
		a := r2.Vec{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		b := r2.Vec{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		g := buildGraph(t, map[string]r2.Vec{"a": a, "b": b}, [][2]string{{"a", "b"}})
		forces, total := EdgeForces(Springs(g), g.Positions(graph.PropPos), p, newRand())

		if !near(forces["a"], r2.Scale(-1, forces["b"])) {
			t.Fatalf("case %d: force on a %v is not opposite to force on b %v", i, forces["a"], forces["b"])
		}
		d := r2.Norm(r2.Sub(b, a))
		want := 2 * math.Abs(p.RestoringForce*(d-p.NaturalLength))
		if math.Abs(total-want) > 1e-6 {
			t.Fatalf("case %d: total = %v, want %v", i, total, want)
		}
	}
}

func TestEdgeForcesDirection(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name  string
		b     r2.Vec
		wantA r2.Vec
	}{
		// stretched: d=200, force=250 pulls a towards b
		{"stretched", r2.Vec{Y: 200}, r2.Vec{Y: 250}},
		// compressed: d=25, force=-100 pushes a away from b
		{"compressed", r2.Vec{X: 25}, r2.Vec{X: -100}},
		// L1 normalisation: A=(30,40), d=50, S=(30/70, 40/70), force=-50
		{"diagonal", r2.Vec{X: 30, Y: 40}, r2.Vec{X: -50 * 30.0 / 70, Y: -50 * 40.0 / 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": tt.b}, [][2]string{{"a", "b"}})
			forces, _ := EdgeForces(Springs(g), g.Positions(graph.PropPos), p, newRand())
			if !near(forces["a"], tt.wantA) {
				t.Errorf("force on a = %v, want %v", forces["a"], tt.wantA)
			}
		})
	}
}

func TestEdgeForcesCoincident(t *testing.T) {
	p := DefaultParams()
	g := buildGraph(t, map[string]r2.Vec{"a": {X: 5, Y: 5}, "b": {X: 5, Y: 5}}, [][2]string{{"a", "b"}})
	forces, total := EdgeForces(Springs(g), g.Positions(graph.PropPos), p, newRand())

	// distance is taken as 1 along a random unit direction
	f := forces["a"]
	if got := r2.Norm(f); math.Abs(got-148) > 1e-6 {
		t.Errorf("|force| = %v, want 148", got)
	}
	if total != 296 {
		t.Errorf("total = %v, want 296", total)
	}
	for _, v := range []float64{f.X, f.Y, total} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("degenerate force %v", f)
		}
	}
}

// A self-loop is not exempt from the spring pass: it contributes to the
// total but applies equal and opposite forces to the same node.
func TestEdgeForcesSelfLoop(t *testing.T) {
	p := DefaultParams()
	g := buildGraph(t, map[string]r2.Vec{"a": {X: 1, Y: 2}}, [][2]string{{"a", "a"}})
	forces, total := EdgeForces(Springs(g), g.Positions(graph.PropPos), p, newRand())

	if !near(forces["a"], r2.Vec{}) {
		t.Errorf("net self-loop force = %v, want zero", forces["a"])
	}
	if want := 2 * math.Abs(p.RestoringForce*(1-p.NaturalLength)); total != want {
		t.Errorf("total = %v, want %v", total, want)
	}
}

func TestNodeForcesSkipsIdentity(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}}, [][2]string{{"a", "a"}})
	forces, total := NodeForces(Existing(g), g.Positions(graph.PropPos), DefaultParams(), newRand())
	if total != 0 || !near(forces["a"], r2.Vec{}) {
		t.Errorf("single node repulsion = %v (total %v), want none", forces["a"], total)
	}
}

func TestNodeForcesMonotonic(t *testing.T) {
	p := DefaultParams()
	prev := math.Inf(1)
	for d := 2.0; d*d <= 3*p.NaturalLength*p.NaturalLength; d += 3 {
		g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {X: d}}, nil)
		forces, total := NodeForces(Existing(g), g.Positions(graph.PropPos), p, newRand())
		mag := r2.Norm(forces["b"])
		if mag >= prev {
			t.Fatalf("repulsion at d=%v is %v, not below %v", d, mag, prev)
		}
		if math.Abs(mag-p.Repulsion/d) > 1e-9 {
			t.Fatalf("repulsion at d=%v is %v, want %v", d, mag, p.Repulsion/d)
		}
		if math.Abs(total-2*mag) > 1e-9 {
			t.Fatalf("total at d=%v is %v, want %v", d, total, 2*mag)
		}
		if !near(forces["a"], r2.Scale(-1, forces["b"])) {
			t.Fatalf("repulsion at d=%v is not symmetric", d)
		}
		// b sits on +X so it must be pushed further along +X
		if forces["b"].X <= 0 {
			t.Fatalf("repulsion at d=%v points the wrong way: %v", d, forces["b"])
		}
		prev = mag
	}
}

func TestNodeForcesCutoff(t *testing.T) {
	p := DefaultParams()
	d := math.Sqrt(3*p.NaturalLength*p.NaturalLength) + 0.5
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {X: d}}, nil)
	_, total := NodeForces(Existing(g), g.Positions(graph.PropPos), p, newRand())
	if total != 0 {
		t.Errorf("pair beyond cutoff produced total %v", total)
	}
}

func TestNodeForcesNearCoincident(t *testing.T) {
	p := DefaultParams()
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {X: 0.5}}, nil)
	forces, total := NodeForces(Existing(g), g.Positions(graph.PropPos), p, newRand())
	mag := r2.Norm(forces["a"])
	if math.IsInf(mag, 0) || math.IsNaN(mag) {
		t.Fatalf("degenerate repulsion %v", forces["a"])
	}
	// random distance in (0, 1] means at least k/1
	if mag < p.Repulsion-1e-9 {
		t.Errorf("|force| = %v, want >= %v", mag, p.Repulsion)
	}
	if math.Abs(total-2*mag) > 1e-9 {
		t.Errorf("total = %v, want %v", total, 2*mag)
	}
}

func TestFrictionForces(t *testing.T) {
	p := DefaultParams()
	g := buildGraph(t, map[string]r2.Vec{"a": {}}, nil)
	acc := Positions{"a": {X: 100, Y: -50}}
	forces, total := FrictionForces(Existing(g), acc, p, newRand())

	f := forces["a"]
	// -100 * 1/10 * [0.8, 1.2)
	if f.X > -8 || f.X <= -12 {
		t.Errorf("friction x = %v, want in (-12, -8]", f.X)
	}
	if f.Y < 4 || f.Y >= 6 {
		t.Errorf("friction y = %v, want in [4, 6)", f.Y)
	}
	if math.Abs(total-(f.X+f.Y)) > 1e-9 {
		t.Errorf("total = %v, want %v", total, f.X+f.Y)
	}
}

func TestQuietDetector(t *testing.T) {
	t.Run("stops at exactly the limit", func(t *testing.T) {
		q := QuietDetector{Threshold: 10, Limit: 10}
		seq := []float64{500, 300, 200}
		for i := 0; i < 20; i++ {
			seq = append(seq, 100+float64(i%2)*5)
		}
		stopAt := -1
		for i, v := range seq {
			if q.Observe(v) {
				stopAt = i
				break
			}
		}
		// 200 -> 100 at index 3 is loud, so the quiet run starts at index 4
		// and reaches ten at index 13
		if stopAt != 13 {
			t.Errorf("stopped at %d, want 13", stopAt)
		}
	})

	t.Run("loud step resets the run", func(t *testing.T) {
		q := QuietDetector{Threshold: 10, Limit: 3}
		for _, v := range []float64{0, 1, 50, 51, 52} {
			if q.Observe(v) {
				t.Fatalf("stopped early at %v", v)
			}
		}
		if q.Quiet() != 2 {
			t.Errorf("Quiet() = %d, want 2", q.Quiet())
		}
		if !q.Observe(53) {
			t.Error("expected stop after third quiet step")
		}
	})

	t.Run("previous total frozen on stop", func(t *testing.T) {
		q := QuietDetector{Threshold: 10, Limit: 1}
		if !q.Observe(5) {
			t.Fatal("first observation within threshold of zero should stop")
		}
		if q.prev != 0 {
			t.Errorf("prev = %v, want 0", q.prev)
		}
	})
}

func TestSimulateTwoNodes(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {Y: 200}}, [][2]string{{"a", "b"}})
	sim := New(Params{Seed: 1})
	res := sim.Simulate(g)

	if res.Iterations >= DefaultMaxIterations {
		t.Errorf("did not settle: %d iterations", res.Iterations)
	}
	d := r2.Norm(r2.Sub(res.Positions["b"], res.Positions["a"]))
	if math.Abs(d-DefaultNaturalLength) > 10 {
		t.Errorf("separation = %v, want %v±10", d, DefaultNaturalLength)
	}
	a, _ := g.Node("a")
	if a.Pos != (r2.Vec{}) {
		t.Error("Simulate must not write to the graph")
	}
	if len(res.ForceHistory) != res.Iterations {
		t.Errorf("history length %d != iterations %d", len(res.ForceHistory), res.Iterations)
	}
}

func TestSimulateSingleNode(t *testing.T) {
	start := r2.Vec{X: 12, Y: -3}
	g := buildGraph(t, map[string]r2.Vec{"solo": start}, nil)
	res := New(Params{Seed: 1}).Simulate(g)

	if res.Positions["solo"] != start {
		t.Errorf("position = %v, want %v", res.Positions["solo"], start)
	}
	if res.Iterations != 0 || !res.Converged {
		t.Errorf("iterations = %d converged = %v, want 0 true", res.Iterations, res.Converged)
	}
}

func TestSimulateTerminates(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	pos := map[string]r2.Vec{}
	var edges [][2]string
	ids := []string{}
	for i := 0; i < 40; i++ {
		id := string(rune('A'+i%26)) + string(rune('a'+i/26))
		ids = append(ids, id)
		pos[id] = r2.Vec{X: rng.Float64() * 10, Y: rng.Float64() * 10}
	}
	for i := 1; i < len(ids); i++ {
		edges = append(edges, [2]string{ids[i], ids[rng.IntN(i)]})
	}
	g := buildGraph(t, pos, edges)
	res := New(Params{Seed: 9}).Simulate(g)
	if res.Iterations > DefaultMaxIterations {
		t.Errorf("iterations = %d, exceeds cap", res.Iterations)
	}
	for id, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("node %s ended at NaN", id)
		}
	}
}

func TestSimulateIterationCap(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {X: 300}}, [][2]string{{"a", "b"}})
	res := New(Params{Seed: 1, MaxIterations: 3}).Simulate(g)
	if res.Iterations != 3 || res.Converged {
		t.Errorf("iterations = %d converged = %v, want 3 false", res.Iterations, res.Converged)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	pos := map[string]r2.Vec{"a": {}, "b": {}, "c": {X: 1}}
	edges := [][2]string{{"a", "b"}, {"b", "c"}}
	first := New(Params{Seed: 42}).Simulate(buildGraph(t, pos, edges))
	second := New(Params{Seed: 42}).Simulate(buildGraph(t, pos, edges))
	if first.Iterations != second.Iterations {
		t.Fatalf("iterations differ: %d vs %d", first.Iterations, second.Iterations)
	}
	for id := range first.Positions {
		if first.Positions[id] != second.Positions[id] {
			t.Errorf("%s: %v vs %v", id, first.Positions[id], second.Positions[id])
		}
	}
}

func TestWithRandReplacesSeed(t *testing.T) {
	pos := map[string]r2.Vec{"a": {}, "b": {}, "c": {X: 1}}
	edges := [][2]string{{"a", "b"}, {"b", "c"}}
	seeded := New(Params{Seed: 42}).Simulate(buildGraph(t, pos, edges))
	shared := New(Params{Seed: 1}, WithRand(rand.New(rand.NewPCG(42, 42^0xdeadbeef)))).Simulate(buildGraph(t, pos, edges))
	if seeded.Iterations != shared.Iterations {
		t.Fatalf("iterations differ: %d vs %d", seeded.Iterations, shared.Iterations)
	}
	for id := range seeded.Positions {
		if seeded.Positions[id] != shared.Positions[id] {
			t.Errorf("%s: %v vs %v", id, seeded.Positions[id], shared.Positions[id])
		}
	}

	plain := New(Params{Seed: 1}).Simulate(buildGraph(t, pos, edges))
	if got := New(Params{Seed: 1}, WithRand(nil)).Simulate(buildGraph(t, pos, edges)); got.Positions["a"] != plain.Positions["a"] {
		t.Errorf("WithRand(nil) should keep the seeded source: %v vs %v", got.Positions["a"], plain.Positions["a"])
	}
}

func TestSimulateIgnoresNonExisting(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {X: 10}, "ghost": {X: 5}}, [][2]string{{"a", "ghost"}, {"a", "b"}})
	ghost, _ := g.Node("ghost")
	ghost.Exist = false

	res := New(Params{Seed: 1}).Simulate(g)
	if _, ok := res.Positions["ghost"]; ok {
		t.Error("non-existing node should not be simulated")
	}
	Commit(g, res.Positions)
	if ghost.Pos != (r2.Vec{X: 5}) {
		t.Errorf("ghost moved to %v", ghost.Pos)
	}
}

// One more iteration on a settled layout can move a node by at most the
// clamped, damped force.
func TestOneMoreIterationIsBounded(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {Y: 200}, "c": {X: 150}}, [][2]string{{"a", "b"}, {"b", "c"}})
	sim := New(Params{Seed: 5})
	sim.Compute(g)

	run := sim.Begin(g)
	before := run.Positions()
	run.Step()
	after := run.Positions()
	limit := DefaultMaxForce*DefaultDamping + 1e-9
	for id := range before {
		dx := math.Abs(after[id].X - before[id].X)
		dy := math.Abs(after[id].Y - before[id].Y)
		if dx > limit || dy > limit {
			t.Errorf("%s moved by (%v, %v), limit %v", id, dx, dy, limit)
		}
	}
}

func TestSimulateContextCanceled(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {Y: 200}}, [][2]string{{"a", "b"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(Params{Seed: 1}).SimulateContext(ctx, g)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Iterations != 0 {
		t.Errorf("iterations = %d, want 0", res.Iterations)
	}
	if res.Positions["b"] != (r2.Vec{Y: 200}) {
		t.Errorf("canceled run should return the starting positions")
	}
}

func TestComputeCommitsProps(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {Y: 200}}, [][2]string{{"a", "b"}})
	b, _ := g.Node("b")

	New(Params{Seed: 1}).Compute(g, graph.PropEndPos)
	if b.Pos != (r2.Vec{Y: 200}) || b.StartPos != (r2.Vec{Y: 200}) {
		t.Errorf("Compute(endPos) changed pos/startPos: %v %v", b.Pos, b.StartPos)
	}
	if b.EndPos == (r2.Vec{Y: 200}) {
		t.Error("Compute(endPos) did not write endPos")
	}

	New(Params{Seed: 1}).Compute(g)
	if b.Pos != b.StartPos || b.Pos != b.EndPos {
		t.Errorf("Compute() should write all slots: %v %v %v", b.Pos, b.StartPos, b.EndPos)
	}
}

func TestCenterByMass(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {X: 10, Y: 10}, "b": {X: 30, Y: -10}}, nil)
	mean := CenterByMass(g, graph.PropPos, graph.PropEndPos)
	if mean != (r2.Vec{X: 20}) {
		t.Errorf("mean = %v, want (20, 0)", mean)
	}
	a, _ := g.Node("a")
	if a.Pos != (r2.Vec{X: -10, Y: 10}) || a.EndPos != a.Pos {
		t.Errorf("a = pos %v end %v", a.Pos, a.EndPos)
	}
	if a.StartPos != (r2.Vec{X: 10, Y: 10}) {
		t.Errorf("startPos should be untouched, got %v", a.StartPos)
	}

	empty := graph.New(nil)
	if got := CenterByMass(empty, graph.PropPos); got != (r2.Vec{}) {
		t.Errorf("empty graph mean = %v", got)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		pos    Positions
		lo, hi r2.Vec
	}{
		{"empty", nil, r2.Vec{}, r2.Vec{}},
		{"single", Positions{"a": {X: 3, Y: -4}}, r2.Vec{X: 3, Y: -4}, r2.Vec{X: 3, Y: -4}},
		{"spread", Positions{"a": {X: -10, Y: 5}, "b": {X: 20, Y: -5}, "c": {X: 0, Y: 30}},
			r2.Vec{X: -10, Y: -5}, r2.Vec{X: 20, Y: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Bounds(tt.pos)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("Bounds() = %v, %v, want %v, %v", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestScatter(t *testing.T) {
	g := buildGraph(t, map[string]r2.Vec{"a": {}, "b": {}, "c": {}}, nil)
	Scatter(g, 100, 7)
	seen := map[r2.Vec]bool{}
	g.EachNode(func(n *graph.Node) {
		if r2.Norm(n.Pos) > 100 {
			t.Errorf("%s outside radius: %v", n.ID, n.Pos)
		}
		if n.StartPos != n.Pos || n.EndPos != n.Pos {
			t.Errorf("%s slots differ", n.ID)
		}
		seen[n.Pos] = true
	})
	if len(seen) != 3 {
		t.Error("scattered nodes coincide")
	}
}

func TestScatterNoise(t *testing.T) {
	ids := map[string]r2.Vec{"a": {}, "b": {}, "c": {}, "d": {}}
	g := buildGraph(t, ids, nil)
	h := buildGraph(t, ids, nil)
	ScatterNoise(g, 50, 3)
	ScatterNoise(h, 50, 3)

	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		m, _ := h.Node(id)
		if n.Pos != m.Pos {
			t.Errorf("%s: same seed gave %v and %v", id, n.Pos, m.Pos)
		}
		if math.Abs(n.Pos.X) > 50 || math.Abs(n.Pos.Y) > 50 {
			t.Errorf("%s outside box: %v", id, n.Pos)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{"zero", Params{}, false},
		{"defaults", DefaultParams(), false},
		{"negative length", Params{NaturalLength: -1}, true},
		{"damping above one", Params{Damping: 1.5}, true},
		{"negative limit", Params{QuietLimit: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
