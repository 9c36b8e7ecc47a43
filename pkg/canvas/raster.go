package canvas

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/forcegraph/pkg/fonts"
)

// Raster is an RGBA image surface backed by gg.
type Raster struct {
	styleStack
	dc         *gg.Context
	size       Size
	background string
}

// NewRaster creates a width×height image surface. An empty background
// leaves cleared pixels transparent.
func NewRaster(width, height int, background string) *Raster {
	r := &Raster{
		styleStack: newStyleStack(),
		dc:         gg.NewContext(width, height),
		size:       Size{Width: float64(width), Height: float64(height)},
		background: background,
	}
	if f, err := fonts.Regular(fonts.DefaultSize); err == nil {
		r.dc.SetFontFace(f)
	}
	r.Clear()
	return r
}

func (r *Raster) Size() Size         { return r.size }
func (r *Raster) Context() Context   { return r }
func (r *Raster) Image() image.Image { return r.dc.Image() }

// Clear resets the pixels and the paint state.
func (r *Raster) Clear() {
	r.reset()
	if r.background == "" {
		r.dc.SetRGBA(0, 0, 0, 0)
	} else {
		r.setColor(r.background, 1)
	}
	r.dc.Clear()
	r.dc.ClearPath()
}

// EncodePNG writes the current image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

func (r *Raster) tx(x float64) float64 { return x + r.size.Width/2 }
func (r *Raster) ty(y float64) float64 { return y + r.size.Height/2 }

func (r *Raster) BeginPath()          { r.dc.ClearPath() }
func (r *Raster) MoveTo(x, y float64) { r.dc.MoveTo(r.tx(x), r.ty(y)) }
func (r *Raster) LineTo(x, y float64) { r.dc.LineTo(r.tx(x), r.ty(y)) }
func (r *Raster) ClosePath()          { r.dc.ClosePath() }

func (r *Raster) Arc(x, y, radius, start, end float64, ccw bool) {
	start, end = arcSweep(start, end, ccw)
	r.dc.DrawArc(r.tx(x), r.ty(y), radius, start, end)
}

func (r *Raster) Rect(x, y, w, h float64) {
	r.dc.DrawRectangle(r.tx(x), r.ty(y), w, h)
}

func (r *Raster) Fill() {
	r.setColor(r.cur.Fill, r.cur.Alpha)
	r.dc.FillPreserve()
}

func (r *Raster) Stroke() {
	r.setColor(r.cur.Stroke, r.cur.Alpha)
	r.dc.SetLineWidth(r.cur.LineWidth)
	r.dc.StrokePreserve()
}

// Text draws s centred on (x, y) in the fill colour.
func (r *Raster) Text(x, y float64, s string) {
	r.setColor(r.cur.Fill, r.cur.Alpha)
	r.dc.DrawStringAnchored(s, r.tx(x), r.ty(y), 0.5, 0.5)
}

func (r *Raster) setColor(hex string, alpha float64) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{}
	}
	r.dc.SetRGBA(c.R, c.G, c.B, alpha)
}

// arcSweep turns canvas arc angles into the signed sweep gg expects.
func arcSweep(start, end float64, ccw bool) (float64, float64) {
	sweep := end - start
	switch {
	case ccw && sweep <= -FullCircle, !ccw && sweep >= FullCircle:
		return start, start + math.Copysign(FullCircle, sweep)
	case ccw && sweep >= FullCircle:
		return start, start - FullCircle
	case !ccw && sweep <= -FullCircle:
		return start, start + FullCircle
	case ccw && sweep > 0:
		return start, end - FullCircle*math.Ceil(sweep/FullCircle)
	case !ccw && sweep < 0:
		return start, end + FullCircle*math.Ceil(-sweep/FullCircle)
	}
	return start, end
}
