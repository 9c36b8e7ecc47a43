package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/graph"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
	"github.com/matzehuels/forcegraph/pkg/plot"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// RenderFromLayout applies layout to g and generates artifacts in the
// requested formats. Options must already carry defaults (see
// [Options.ValidateForRender]).
func RenderFromLayout(g *graph.Store, layout fgio.Layout, opts Options) (map[string][]byte, error) {
	layout.Apply(g)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatPNG, FormatSVG, FormatText:
			data, err = renderFrame(g, render.Format(format), opts)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(g, nodelink.Options{
				Detailed: opts.Detailed,
				Pinned:   true,
				Node:     opts.Config.Node,
				Edge:     opts.Config.Edge.EdgeConfig,
			}))
		case FormatJSON:
			var buf bytes.Buffer
			err = fgio.WriteLayout(&buf, layout)
			data = buf.Bytes()
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderFrame plots g once onto a fresh surface of the given format.
func renderFrame(g *graph.Store, format render.Format, opts Options) ([]byte, error) {
	cfg := opts.Config
	surface, err := render.NewSurface(format, cfg.Width, cfg.Height, cfg.Background)
	if err != nil {
		return nil, err
	}

	var vopts []viz.Option
	var mem *plot.MemoryLabels
	if cfg.WithLabels {
		mem = plot.NewMemoryLabels()
		vopts = append(vopts, viz.WithLabelSurface(mem))
	}
	vopts = append(vopts, viz.WithLogger(opts.Logger))

	fg, err := viz.New(g, surface, cfg, vopts...)
	if err != nil {
		return nil, err
	}
	if err := fg.Plot(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := render.WriteFrame(&buf, surface, mem, render.DefaultLabelColor); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
