package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
)

// Graphviz engines accepted by --graphviz.
const (
	graphvizSVG = "svg"
	graphvizPNG = "png"
)

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		formats  string
		detailed bool
		graphviz string
		flags    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Lay out a graph and render it to PNG, SVG, text or DOT",
		Long: `Lay out a graph and render the settled frame.

Formats:
  png   raster frame
  svg   vector frame
  txt   braille frame for terminals
  dot   Graphviz source with pinned positions
  json  layout positions (same as the layout command)

With --graphviz the DOT output is additionally run through Graphviz's neato
engine, which keeps the pinned positions but draws with Graphviz styling.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.Formats = parseFormats(formats)
			opts.Detailed = detailed
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			switch graphviz {
			case "", graphvizSVG, graphvizPNG:
			default:
				return fmt.Errorf("invalid graphviz output: %s (must be 'svg' or 'png')", graphviz)
			}
			return c.runRender(cmd.Context(), args[0], output, graphviz, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, txt, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node metadata in DOT labels")
	cmd.Flags().StringVar(&graphviz, "graphviz", "", "also render the DOT output with Graphviz: svg, png")
	flags.bind(cmd)

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input, output, graphviz string, opts pipeline.Options, noCache bool) error {
	g, err := loadGraph(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.Config, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(input, output, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	if graphviz != "" {
		path, err := c.writeGraphviz(ctx, input, output, graphviz, result)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit)
	return nil
}

// writeGraphviz lays the pinned DOT source out with Graphviz.
func (c *CLI) writeGraphviz(ctx context.Context, input, output, format string, result *pipeline.Result) (string, error) {
	dot := nodelink.ToDOT(result.Graph, nodelink.Options{Pinned: true})
	var (
		data []byte
		err  error
	)
	switch format {
	case graphvizPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	default:
		data, err = nodelink.RenderSVG(ctx, dot)
	}
	if err != nil {
		return "", fmt.Errorf("graphviz: %w", err)
	}
	base := input
	if output != "" {
		base = output
	}
	path := trimExt(base) + ".graphviz." + format
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	c.Logger.Debug("graphviz output", "path", path, "bytes", len(data))
	return path, nil
}

// writeArtifacts writes each format next to the input, or to output when
// exactly one format was requested.
func writeArtifacts(input, output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		var path string
		switch {
		case output != "" && len(formats) == 1:
			path = output
		case output != "":
			path = trimExt(output) + "." + format
		default:
			path = outputPath(input, "", "."+format)
			if format == pipeline.FormatJSON {
				path = outputPath(input, "", ".layout.json")
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
