// Package pkg provides the core libraries for forcegraph force-directed
// graph layout and animation.
//
// # Overview
//
// forcegraph places the nodes of an undirected graph by simulating springs
// along the edges and repulsion between every pair of nodes, then draws and
// animates the result. The pkg directory is organized into four areas:
//
//  1. Model: [graph] (node and edge store), [io] (JSON import and export)
//  2. Physics: [force] (simulator), [interp] (interpolators and easings),
//     [anim] (frame scheduler)
//  3. Drawing: [canvas] (raster, vector and braille surfaces), [plot]
//     (deduplicating render walk, labels, shapes), [render] (frame encoding
//     and Graphviz export), [viz] (the ForceGraph facade)
//  4. Infrastructure: [config], [cache], [pipeline], [observability],
//     [errors], [httputil], [buildinfo], [fonts]
//
// # Architecture
//
// The typical data flow through forcegraph:
//
//	graph.json
//	     ↓
//	[io] package (decode into a graph.Store)
//	     ↓
//	[force] package (scatter, simulate until quiet)
//	     ↓
//	[plot] package (walk nodes and edges onto a canvas.Surface)
//	     ↓
//	PNG/SVG/braille frames, DOT, layout JSON
//
// # Quick Start
//
// Lay out a graph file and render it to SVG:
//
//	g, _ := io.ImportJSON("graph.json")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Execute(ctx, g, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	os.WriteFile("graph.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// Animate a graph from its current positions to a new layout:
//
//	surface := canvas.NewVector(800, 600, "#fff")
//	fg, _ := viz.New(g, surface, config.Default())
//	fg.Reposition()
//	run, _ := fg.Animate(ctx, viz.AnimateOptions{})
//	<-run.Done()
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/force/...              # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB cache tests run when FORCEGRAPH_TEST_REDIS_URL and
// FORCEGRAPH_TEST_MONGO_URI are set.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/io
// [force]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/force
// [interp]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/interp
// [anim]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/anim
// [canvas]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/canvas
// [plot]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/plot
// [render]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render
// [viz]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/viz
// [config]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/buildinfo
// [fonts]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/fonts
package pkg
