package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interp"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/plot"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// animateOpts holds the command-line flags for the animate command.
type animateOpts struct {
	outDir     string // frame directory
	format     string // png, svg or txt
	frames     int    // frame count; 0 derives it from fps and duration
	modes      string // comma-separated interpolation modes
	transition string // easing name
}

// animateCommand creates the animate command for exporting frame sequences.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		opts  animateOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "animate [graph.json]",
		Short: "Export the transition from the start positions to the layout as frames",
		Long: `Export an animation as numbered frame files.

Nodes start where --scatter puts them (or where the graph file places them
with --scatter none) and move to the computed layout. Each frame is written
as <dir>/frame_NNNN.<format>; the last frame shows the settled layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := flags.options(cmd, cfg)
			if opts.modes != "" {
				cfg.Modes = strings.Split(opts.modes, ",")
			}
			if opts.transition != "" {
				cfg.Transition = opts.transition
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			format, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			if opts.frames <= 0 {
				opts.frames = max(cfg.FPS*cfg.DurationMS/1000, 2)
			}
			return c.runAnimate(cmd.Context(), args[0], format, opts, popts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "dir", "d", "", "output directory (default: <input>_frames)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(render.FormatPNG), "frame format: png, svg, txt")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "number of frames (default: fps × duration)")
	cmd.Flags().StringVar(&opts.modes, "modes", "", "interpolation modes: linear, polar, moebius, fade:nodes, fade:vertex (comma-separated)")
	cmd.Flags().StringVar(&opts.transition, "transition", "", "easing, e.g. linear, quart:in-out")
	flags.bind(cmd)

	return cmd
}

// runAnimate lays the graph out on a copy, then animates the original from
// its start positions to the layout.
func (c *CLI) runAnimate(ctx context.Context, input string, format render.Format, opts animateOpts, popts pipeline.Options, noCache bool) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}
	cfg := popts.Config

	if err := pipeline.ValidateScatter(popts.Scatter); err != nil {
		return err
	}
	pipeline.Scatter(g, popts.Scatter, popts.Radius, cfg.Physics.Seed)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %d nodes...", g.NodeCount()))
	spinner.Start()

	work := g.Clone()
	popts.Scatter = pipeline.ScatterNone
	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, work, popts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	layout.Apply(g, graph.PropEndPos)

	surface, err := render.NewSurface(format, cfg.Width, cfg.Height, cfg.Background)
	if err != nil {
		spinner.Stop()
		return err
	}
	var vopts []viz.Option
	var labels *plot.MemoryLabels
	if cfg.WithLabels {
		labels = plot.NewMemoryLabels()
		vopts = append(vopts, viz.WithLabelSurface(labels))
	}
	vopts = append(vopts, viz.WithLogger(c.Logger))
	fg, err := viz.New(g, surface, cfg, vopts...)
	if err != nil {
		spinner.Stop()
		return err
	}

	dir := opts.outDir
	if dir == "" {
		dir = outputPath(input, "", "_frames")
	}

	spinner.SetMessage(fmt.Sprintf("Writing %d frames...", opts.frames))
	st := startStage(component(c.Logger, "animate"))
	paths, err := render.WriteSequence(fg, viz.AnimateOptions{
		Modes:      interp.ParseModes(cfg.Modes),
		Transition: cfg.Transition,
	}, render.SequenceOptions{
		Dir:    dir,
		Format: format,
		Frames: opts.frames,
		Labels: labels,
		Logger: c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Animation failed")
		return err
	}
	spinner.Stop()
	st.done("wrote frames", "frames", len(paths), "format", format, "dir", dir)

	printSuccess("Animation complete")
	printFile(dir)
	printDetail("%d frames, %s … %s", len(paths), paths[0], paths[len(paths)-1])
	printStats(layoutStats(g, layout), cacheHit)
	return nil
}
