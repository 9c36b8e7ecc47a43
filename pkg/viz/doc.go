// Package viz is the force-directed graph visualization.
//
// A [ForceGraph] owns one graph store and drives it through the layout
// engine, the plotter and the animation scheduler:
//
//	fg, _ := viz.New(g, canvas.NewRaster(800, 600, "#fff"), cfg)
//	fg.Reposition()                          // layout into EndPos
//	run, _ := fg.Animate(ctx, viz.AnimateOptions{})
//	run.Wait()
//
// [ForceGraph.Refresh] computes and plots in one step. [ForceGraph.Animate]
// blends every node from StartPos to EndPos with the configured
// interpolation modes and easing; [ForceGraph.AnimateFrames] does the same
// synchronously for frame export. [ForceGraph.Sequence] repeats a step
// until a condition fails, refreshing after each tick.
package viz
