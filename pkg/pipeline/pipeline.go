// Package pipeline provides the load → layout → render pipeline shared by
// the CLI commands and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a graph file (see pkg/io)
//  2. Layout: scatter the nodes if needed and run the force simulation
//  3. Render: draw the laid-out graph into one or more output formats
//
// Layouts and artifacts are cached by content hash. Concurrent requests for
// the same layout are collapsed into one simulation.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//		Config:  cfg,
//		Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also run on their own:
//
//	layout, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, g, layout, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	fgio "github.com/matzehuels/forcegraph/pkg/io"
)

// DefaultRadius is the scatter radius used when Options.Radius is zero.
const DefaultRadius = 200.0

// Scatter strategies for initial node placement.
const (
	// ScatterAuto scatters randomly only when every node sits at the origin.
	ScatterAuto   = "auto"
	ScatterRandom = "random"
	ScatterNoise  = "noise"
	ScatterNone   = "none"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatText: true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidScatters is the set of supported scatter strategies.
var ValidScatters = map[string]bool{
	ScatterAuto:   true,
	ScatterRandom: true,
	ScatterNoise:  true,
	ScatterNone:   true,
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Config carries canvas size, styling and physics. Nil selects the
	// defaults.
	Config *config.Config `json:"-"`

	// Layout options
	Scatter string  `json:"scatter,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Refresh bool    `json:"refresh,omitempty"` // bypass the cache for reads

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT labels include metadata

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *graph.Store
	GraphHash string
	Layout    fgio.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	fgio.Stats
	Iterations int
	Converged  bool
	Extent     r2.Vec // width and height of the node bounding box
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: png, svg, txt, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScatter checks that a scatter strategy is valid.
func ValidateScatter(s string) error {
	if !ValidScatters[s] {
		return fmt.Errorf("invalid scatter: %q (must be one of: auto, random, noise, none)", s)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Scatter == "" {
		o.Scatter = ScatterAuto
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateScatter(o.Scatter); err != nil {
		return err
	}
	return o.Config.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	o.SetLayoutDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return o.Config.Validate()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Physics: o.Config.ForceParams(),
		Scatter: o.Scatter,
		Radius:  o.Radius,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style, _ := json.Marshal(struct {
		Node       any
		Edge       any
		Background string
		Labels     bool
		Dedup      string
		Detailed   bool
	}{o.Config.Node, o.Config.Edge, o.Config.Background, o.Config.WithLabels, o.Config.Dedup, o.Detailed})
	return cache.ArtifactKeyOpts{
		Format:    format,
		Width:     o.Config.Width,
		Height:    o.Config.Height,
		StyleHash: cache.Hash(style),
	}
}
