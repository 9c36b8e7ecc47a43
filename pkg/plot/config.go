package plot

import (
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Default node and edge styling.
const (
	DefaultNodeType      = "circle"
	DefaultNodeDim       = 10
	DefaultNodeColor     = "#ccb"
	DefaultNodeLineWidth = 1

	DefaultEdgeType      = "line"
	DefaultEdgeColor     = "#f00"
	DefaultEdgeLineWidth = 2
	DefaultEdgeDim       = 15
)

// NodeConfig is the default node styling. When Overridable is set, fields of
// a node's [graph.NodeData] replace the matching default. The shape type is
// always taken from the node data when present.
type NodeConfig struct {
	Type        string  `toml:"type" yaml:"type" json:"type"`
	Dim         float64 `toml:"dim" yaml:"dim" json:"dim"`
	Width       float64 `toml:"width" yaml:"width" json:"width"`
	Height      float64 `toml:"height" yaml:"height" json:"height"`
	Color       string  `toml:"color" yaml:"color" json:"color"`
	LineWidth   float64 `toml:"line_width" yaml:"line_width" json:"line_width"`
	Overridable bool    `toml:"overridable" yaml:"overridable" json:"overridable"`
}

// EdgeConfig is the default edge styling. Dim is the arrow head size.
type EdgeConfig struct {
	Type        string  `toml:"type" yaml:"type" json:"type"`
	Color       string  `toml:"color" yaml:"color" json:"color"`
	LineWidth   float64 `toml:"line_width" yaml:"line_width" json:"line_width"`
	Dim         float64 `toml:"dim" yaml:"dim" json:"dim"`
	Overridable bool    `toml:"overridable" yaml:"overridable" json:"overridable"`
}

// DefaultNodeConfig returns the built-in node styling.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		Type:      DefaultNodeType,
		Dim:       DefaultNodeDim,
		Width:     DefaultNodeDim,
		Height:    DefaultNodeDim,
		Color:     DefaultNodeColor,
		LineWidth: DefaultNodeLineWidth,
	}
}

// DefaultEdgeConfig returns the built-in edge styling.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		Type:      DefaultEdgeType,
		Color:     DefaultEdgeColor,
		LineWidth: DefaultEdgeLineWidth,
		Dim:       DefaultEdgeDim,
	}
}

// Validate checks colours and sizes.
func (c NodeConfig) Validate() error {
	if err := errors.ValidateColor(c.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "node color")
	}
	if c.Dim < 0 || c.Width < 0 || c.Height < 0 || c.LineWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node sizes must not be negative")
	}
	return nil
}

// Validate checks colours and sizes.
func (c EdgeConfig) Validate() error {
	if err := errors.ValidateColor(c.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "edge color")
	}
	if c.Dim < 0 || c.LineWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "edge sizes must not be negative")
	}
	return nil
}

// NodeStyle is the resolved styling of one node.
type NodeStyle struct {
	Type      string
	Dim       float64
	Width     float64
	Height    float64
	Color     string
	LineWidth float64
}

// EdgeStyle is the resolved styling of one edge.
type EdgeStyle struct {
	Type      string
	Color     string
	LineWidth float64
	Dim       float64
}

// Resolve applies n's overrides to the defaults.
func (c NodeConfig) Resolve(n *graph.Node) NodeStyle {
	st := NodeStyle{
		Type:      pick(n.Data.Type, c.Type),
		Dim:       c.Dim,
		Width:     c.Width,
		Height:    c.Height,
		Color:     c.Color,
		LineWidth: c.LineWidth,
	}
	if c.Overridable {
		d := n.Data
		st.Dim = pickf(d.Dim, st.Dim)
		st.Width = pickf(d.Width, st.Width)
		st.Height = pickf(d.Height, st.Height)
		st.Color = pick(d.Color, st.Color)
		st.LineWidth = pickf(d.LineWidth, st.LineWidth)
	}
	return st
}

// Resolve applies a's overrides to the defaults.
func (c EdgeConfig) Resolve(a *graph.Adjacency) EdgeStyle {
	st := EdgeStyle{Type: c.Type, Color: c.Color, LineWidth: c.LineWidth, Dim: c.Dim}
	if a.Data == nil {
		return st
	}
	st.Type = pick(a.Data.Type, st.Type)
	if c.Overridable {
		st.Color = pick(a.Data.Color, st.Color)
		st.LineWidth = pickf(a.Data.LineWidth, st.LineWidth)
	}
	return st
}

func pick(override, def string) string {
	if override != "" {
		return override
	}
	return def
}

func pickf(override, def float64) float64 {
	if override != 0 {
		return override
	}
	return def
}
