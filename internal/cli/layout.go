package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// layoutFlags are the simulation flags shared by every command that runs a
// layout. Flags left unset keep the config file values.
type layoutFlags struct {
	scatter  string
	radius   float64
	seed     uint64
	maxIter  int
	noCache  bool
	refresh  bool
	width    int
	height   int
	noLabels bool
}

func (f *layoutFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scatter, "scatter", pipeline.ScatterAuto, "initial placement: auto, random, noise, none")
	cmd.Flags().Float64Var(&f.radius, "radius", pipeline.DefaultRadius, "scatter radius")
	cmd.Flags().Uint64Var(&f.seed, "seed", defaultSeed, "random seed (0 seeds from the clock)")
	cmd.Flags().IntVar(&f.maxIter, "max-iterations", 0, "iteration cap (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().IntVar(&f.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "do not draw node labels")
}

// apply copies the flags the user set onto cfg.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("seed") || cfg.Physics.Seed == 0 {
		cfg.Physics.Seed = f.seed
	}
	if f.maxIter > 0 {
		cfg.Physics.MaxIterations = f.maxIter
	}
	if f.width > 0 {
		cfg.Width = f.width
	}
	if f.height > 0 {
		cfg.Height = f.height
	}
	if f.noLabels {
		cfg.WithLabels = false
	}
}

// options builds pipeline options from the flags and cfg.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	f.apply(cmd, cfg)
	return pipeline.Options{
		Config:  cfg,
		Scatter: f.scatter,
		Radius:  f.radius,
		Refresh: f.refresh,
	}
}

// layoutCommand creates the layout command for computing graph layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		trace  bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a force-directed layout",
		Long: `Compute a force-directed layout for a graph.

The layout command reads a graph.json file, scatters nodes that have no
position, and runs the spring simulation until the total force stays below
the quiet threshold or the iteration cap is reached. The output is a
layout.json file with one position per node, the same format as
'render -f json'.

Results are cached, so running the same graph with the same physics twice
returns immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			return c.runLayout(cmd.Context(), args[0], output, trace, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&trace, "trace", false, "plot the total force per iteration")
	flags.bind(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, trace bool, opts pipeline.Options, noCache bool) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.Config, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %d nodes...", g.NodeCount()))
	spinner.Start()

	st := startStage(component(c.Logger, "layout"))
	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	st.done("simulated", "nodes", g.NodeCount(), "iterations", layout.Iterations, "cached", cacheHit)

	outputPath := outputPath(input, output, ".layout.json")
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	if err := fgio.WriteLayout(f, layout); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(layoutStats(g, layout), cacheHit)
	if trace {
		printNewline()
		printTrace(layout.ForceHistory, 72)
	}
	printNewline()
	printNextStep("Render", "forcegraph render "+input)

	return nil
}
