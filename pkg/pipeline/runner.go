package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/graph"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
)

var tracer = otel.Tracer("forcegraph/pipeline")

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options. Concurrent layouts of identical graphs
// with identical options share a single simulation.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL and ArtifactTTL override the cache entry lifetimes.
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration

	// LayoutTimeout bounds a shared simulation once it no longer follows
	// the context of the caller that started it. Zero means no bound
	// beyond the iteration cap.
	LayoutTimeout time.Duration

	layouts singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		LayoutTTL:     cache.TTLLayout,
		ArtifactTTL:   cache.TTLArtifact,
		LayoutTimeout: DefaultLayoutTimeout,
	}
}

// DefaultLayoutTimeout is the LayoutTimeout of runners made by NewRunner.
const DefaultLayoutTimeout = 2 * time.Minute

// sharedContext keeps ctx's values, such as the trace span, and drops its
// cancellation and deadline in favour of LayoutTimeout.
func (r *Runner) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if r.LayoutTimeout > 0 {
		return context.WithTimeout(detached, r.LayoutTimeout)
	}
	return context.WithCancel(detached)
}

// GraphHash returns the content hash of g: its structure, data and
// current positions.
func GraphHash(g *graph.Store) string {
	var buf bytes.Buffer
	if err := fgio.WriteJSON(g, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// Execute runs layout and render for g with caching.
func (r *Runner) Execute(ctx context.Context, g *graph.Store, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	ctx, span := tracer.Start(ctx, "pipeline.Execute", trace.WithAttributes(
		attribute.Int("nodes", g.NodeCount()),
		attribute.StringSlice("formats", opts.Formats),
	))
	defer span.End()

	result := &Result{Graph: g, GraphHash: GraphHash(g)}
	result.Stats.Stats = fgio.Summarize(g)

	start := time.Now()
	layout, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.Iterations = layout.Iterations
	result.Stats.Converged = layout.Converged
	result.Stats.Extent = Extent(layout)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"nodes", g.NodeCount(),
		"iterations", layout.Iterations,
		"converged", layout.Converged,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, layout, opts)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	span.SetAttributes(
		attribute.Bool("layout_hit", result.CacheInfo.LayoutHit),
		attribute.Bool("render_hit", result.CacheInfo.RenderHit),
	)
	return result, nil
}

// LayoutWithCacheInfo computes the layout of g with caching and returns
// whether it came from the cache. The positions are committed to every slot
// of g whether they were cached, simulated or shared with a concurrent
// caller. If ctx ends first, LayoutWithCacheInfo returns ctx.Err() and
// leaves g untouched.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Store, opts Options) (fgio.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return fgio.Layout{}, false, err
	}

	ctx, span := tracer.Start(ctx, "pipeline.Layout")
	defer span.End()

	key := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())

	if !opts.Refresh {
		var cached fgio.Layout
		if hit, err := cache.GetJSON(ctx, r.Cache, key, &cached); err == nil && hit {
			cached.Apply(g)
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, true, nil
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "err", err)
		}
	}

	// Callers with the same key share one simulation on a private copy of
	// the graph. It outlives any caller that gives up.
	work := g.Clone()
	ch := r.layouts.DoChan(key, func() (any, error) {
		sctx, cancel := r.sharedContext(ctx)
		defer cancel()
		layout, err := GenerateLayout(sctx, work, opts)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(sctx, r.Cache, key, layout, r.LayoutTTL); err != nil {
			r.Logger.Warn("layout cache write failed", "err", err)
		}
		return layout, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		recordError(span, ctx.Err())
		return fgio.Layout{}, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		recordError(span, res.Err)
		return fgio.Layout{}, false, res.Err
	}
	layout, ok := res.Val.(fgio.Layout)
	if !ok {
		return fgio.Layout{}, false, fmt.Errorf("unexpected layout type %T", res.Val)
	}
	layout.Apply(g)
	shared := res.Shared
	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Bool("shared", shared),
		attribute.Int("iterations", layout.Iterations),
	)
	return layout, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Store, opts Options) (fgio.Layout, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns whether
// all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Store, layout fgio.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	ctx, span := tracer.Start(ctx, "pipeline.Render")
	defer span.End()

	var buf bytes.Buffer
	if err := fgio.WriteLayout(&buf, layout); err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(append(buf.Bytes(), GraphHash(g)...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFromLayout(g, layout, opts)
	if err != nil {
		recordError(span, err)
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Store, layout fgio.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
