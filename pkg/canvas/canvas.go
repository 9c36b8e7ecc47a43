package canvas

import "math"

// Size is the extent of a drawing surface in its own units.
type Size struct {
	Width  float64
	Height float64
}

// Mode selects how [Path] finishes the geometry it builds.
type Mode string

const (
	Fill   Mode = "fill"
	Stroke Mode = "stroke"
)

// Context is the immediate-mode drawing state of a surface. Coordinates are
// origin-centred: (0, 0) is the middle of the surface.
type Context interface {
	Save()
	Restore()

	SetGlobalAlpha(a float64)
	GlobalAlpha() float64
	SetLineWidth(w float64)
	SetFillStyle(color string)
	SetStrokeStyle(color string)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, r, start, end float64, ccw bool)
	Rect(x, y, w, h float64)
	ClosePath()
	Fill()
	Stroke()
}

// Surface is something a graph can be plotted onto.
type Surface interface {
	Clear()
	Size() Size
	Context() Context
}

// Texter is implemented by surfaces that can draw text themselves.
type Texter interface {
	Text(x, y float64, s string)
}

// Path begins a path, lets build add geometry, then fills or strokes it.
func Path(s Surface, mode Mode, build func(Context)) {
	ctx := s.Context()
	ctx.BeginPath()
	build(ctx)
	if mode == Stroke {
		ctx.Stroke()
	} else {
		ctx.Fill()
	}
}

// FullCircle is the end angle of a closed arc.
const FullCircle = 2 * math.Pi

// Style is the paint state saved and restored by [Context.Save] and
// [Context.Restore].
type Style struct {
	Alpha     float64
	LineWidth float64
	Fill      string
	Stroke    string
}

// DefaultStyle matches a freshly created HTML canvas.
var DefaultStyle = Style{Alpha: 1, LineWidth: 1, Fill: "#000", Stroke: "#000"}

// styleStack implements the save/restore half of Context for every surface.
type styleStack struct {
	cur   Style
	saved []Style
}

func newStyleStack() styleStack { return styleStack{cur: DefaultStyle} }

func (s *styleStack) Save() { s.saved = append(s.saved, s.cur) }

func (s *styleStack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

func (s *styleStack) SetGlobalAlpha(a float64) {
	if a >= 0 && a <= 1 {
		s.cur.Alpha = a
	}
}

func (s *styleStack) GlobalAlpha() float64 { return s.cur.Alpha }

func (s *styleStack) SetLineWidth(w float64) {
	if w > 0 {
		s.cur.LineWidth = w
	}
}

func (s *styleStack) SetFillStyle(c string)   { s.cur.Fill = c }
func (s *styleStack) SetStrokeStyle(c string) { s.cur.Stroke = c }

func (s *styleStack) reset() {
	s.cur = DefaultStyle
	s.saved = s.saved[:0]
}
