package pipeline

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
)

const square = `{
  "nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}, {"id": "d"}],
  "edges": [
    {"from": "a", "to": "b"}, {"from": "b", "to": "c"},
    {"from": "c", "to": "d"}, {"from": "d", "to": "a"}
  ]
}`

func load(t *testing.T) *graph.Store {
	t.Helper()
	g, err := fgio.ReadJSON(strings.NewReader(square))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 300, 300
	cfg.Physics.Seed = 7
	return cfg
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"txt", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if o.Config == nil || o.Scatter != ScatterAuto || o.Radius != DefaultRadius {
		t.Errorf("layout defaults not applied: %+v", o)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}

	bad := Options{Scatter: "spiral"}
	if err := bad.ValidateForLayout(); err == nil {
		t.Error("unknown scatter should fail")
	}
}

func TestGenerateLayout(t *testing.T) {
	opts := Options{Config: testConfig()}
	opts.SetLayoutDefaults()

	g1, g2 := load(t), load(t)
	l1, err := GenerateLayout(context.Background(), g1, opts)
	if err != nil {
		t.Fatal(err)
	}
	l2, _ := GenerateLayout(context.Background(), g2, opts)

	if len(l1.Nodes) != 4 || l1.Iterations == 0 {
		t.Fatalf("layout = %+v", l1)
	}
	for i := range l1.Nodes {
		if l1.Nodes[i] != l2.Nodes[i] {
			t.Errorf("same seed gave different layouts: %+v vs %+v", l1.Nodes[i], l2.Nodes[i])
		}
	}
	a, _ := g1.Node("a")
	if a.Pos != a.EndPos || a.Pos != a.StartPos {
		t.Error("layout should be committed to every slot")
	}

	if ext := Extent(l1); ext.X <= 0 || ext.Y <= 0 {
		t.Errorf("Extent = %v, want a positive box", ext)
	}
	if ext := Extent(fgio.Layout{}); ext.X != 0 || ext.Y != 0 {
		t.Errorf("empty Extent = %v", ext)
	}
}

func TestRunnerCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Config: testConfig(), Formats: []string{FormatSVG, FormatDOT, FormatJSON, FormatText}}

	first, err := r.Execute(ctx, load(t), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Nodes != 4 || first.Stats.Edges != 4 || first.Stats.Components != 1 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if first.Stats.Extent != Extent(first.Layout) || first.Stats.Extent.X <= 0 {
		t.Errorf("stats extent = %v", first.Stats.Extent)
	}

	second, err := r.Execute(ctx, load(t), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs")
	}
	if first.GraphHash != second.GraphHash || first.GraphHash == "" {
		t.Errorf("graph hashes %q / %q", first.GraphHash, second.GraphHash)
	}

	a, _ := second.Graph.Node("a")
	want := first.Layout.Positions()["a"]
	if a.Pos != want {
		t.Errorf("cached layout not applied: %v, want %v", a.Pos, want)
	}

	refreshed, err := r.Execute(ctx, load(t), Options{Config: testConfig(), Formats: opts.Formats, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}
}

// gateCache always misses and holds the first Set until release is closed.
type gateCache struct {
	gets    chan struct{}
	setting chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateCache() *gateCache {
	return &gateCache{
		gets:    make(chan struct{}, 4),
		setting: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (c *gateCache) Get(context.Context, string) ([]byte, bool, error) {
	c.gets <- struct{}{}
	return nil, false, nil
}

func (c *gateCache) Set(context.Context, string, []byte, time.Duration) error {
	first := false
	c.once.Do(func() {
		first = true
		close(c.setting)
	})
	if first {
		<-c.release
	}
	return nil
}

func (c *gateCache) Delete(context.Context, string) error { return nil }
func (c *gateCache) Close() error                         { return nil }

func TestRunnerSharedLayoutOutlivesCancelledLeader(t *testing.T) {
	c := newGateCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Config: testConfig()}

	type outcome struct {
		layout fgio.Layout
		err    error
	}

	leaderGraph := load(t)
	before := leaderGraph.Positions(graph.PropPos)
	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leader := make(chan outcome, 1)
	go func() {
		l, _, err := r.LayoutWithCacheInfo(leaderCtx, leaderGraph, opts)
		leader <- outcome{l, err}
	}()
	<-c.gets
	<-c.setting

	followerGraph := load(t)
	follower := make(chan outcome, 1)
	go func() {
		l, _, err := r.LayoutWithCacheInfo(context.Background(), followerGraph, opts)
		follower <- outcome{l, err}
	}()
	<-c.gets
	time.Sleep(20 * time.Millisecond)

	cancel()
	got := <-leader
	if !errors.Is(got.err, context.Canceled) {
		t.Fatalf("leader err = %v, want context.Canceled", got.err)
	}
	if after := leaderGraph.Positions(graph.PropPos); !maps.Equal(before, after) {
		t.Errorf("cancelled caller's graph changed: %v, want %v", after, before)
	}

	close(c.release)
	got = <-follower
	if got.err != nil {
		t.Fatalf("follower err = %v", got.err)
	}
	if len(got.layout.Nodes) != 4 {
		t.Fatalf("follower layout = %+v", got.layout)
	}
	a, _ := followerGraph.Node("a")
	if want := got.layout.Positions()["a"]; a.Pos != want || a.StartPos != want {
		t.Errorf("shared layout not applied: %v, want %v", a.Pos, want)
	}
}

func TestRenderFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), load(t), Options{
		Config:  testConfig(),
		Formats: []string{FormatPNG, FormatSVG, FormatText, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]string{
		FormatPNG:  "\x89PNG",
		FormatSVG:  "<svg",
		FormatDOT:  "graph G {",
		FormatJSON: `"iterations"`,
	}
	for format, want := range checks {
		if !bytes.Contains(res.Artifacts[format], []byte(want)) {
			t.Errorf("%s artifact missing %q", format, want)
		}
	}
	if len(res.Artifacts[FormatText]) == 0 {
		t.Error("empty text artifact")
	}

	l, err := fgio.ReadLayout(bytes.NewReader(res.Artifacts[FormatJSON]))
	if err != nil || len(l.Nodes) != 4 {
		t.Errorf("json artifact = %+v, %v", l, err)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), load(t), Options{Formats: []string{"gif"}}); err == nil {
		t.Error("invalid format should fail")
	}
}
