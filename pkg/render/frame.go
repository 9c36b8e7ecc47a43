package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/fonts"
	"github.com/matzehuels/forcegraph/pkg/plot"
)

// Format is an output format for rendered frames.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatText Format = "txt"
)

// Formats lists the supported frame formats.
var Formats = []Format{FormatPNG, FormatSVG, FormatText}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	switch f {
	case FormatPNG, FormatSVG, FormatText:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported frame format %q", s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// NewSurface creates a drawing surface for f. Text surfaces are sized in
// braille cells, one cell per 8×16 pixels (4 units per dot).
func NewSurface(f Format, width, height int, background string) (canvas.Surface, error) {
	switch f {
	case FormatPNG:
		return canvas.NewRaster(width, height, background), nil
	case FormatSVG:
		return canvas.NewVector(width, height, background), nil
	case FormatText:
		return canvas.NewBraille(max(width/8, 1), max(height/16, 1), 4), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported frame format %q", f)
}

// LabelOffset is the vertical distance between a node centre and its
// label baseline centre.
const LabelOffset = fonts.DefaultSize + 4

// DrawLabels paints the given labels as text onto s. Label positions are
// canvas pixels; they are converted back to origin-centred coordinates.
// Surfaces without text support are left untouched.
func DrawLabels(s canvas.Surface, labels []plot.MemoryLabel, color string) {
	tx, ok := s.(canvas.Texter)
	if !ok || len(labels) == 0 {
		return
	}
	size := s.Size()
	ctx := s.Context()
	ctx.Save()
	ctx.SetGlobalAlpha(1)
	ctx.SetFillStyle(color)
	for _, lab := range labels {
		tx.Text(float64(lab.X)-size.Width/2, float64(lab.Y)-size.Height/2+LabelOffset, lab.Text)
	}
	ctx.Restore()
}

// Encode writes the current contents of s in its native format: PNG for
// raster surfaces, SVG for vector surfaces and braille text for terminal
// surfaces.
func Encode(w io.Writer, s canvas.Surface) error {
	switch s := s.(type) {
	case *canvas.Raster:
		return s.EncodePNG(w)
	case *canvas.Vector:
		_, err := s.WriteTo(w)
		return err
	case *canvas.Braille:
		_, err := io.WriteString(w, s.Frame())
		return err
	}
	return errors.New(errors.ErrCodeUnsupported, "cannot encode surface %T", s)
}

// WriteFrame draws the visible labels of mem (if any) onto s and encodes
// the result. Drawing labels mutates s, so the next plot must clear the
// canvas.
func WriteFrame(w io.Writer, s canvas.Surface, mem *plot.MemoryLabels, labelColor string) error {
	if mem != nil {
		DrawLabels(s, mem.Visible(), labelColor)
	}
	if err := Encode(w, s); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}
