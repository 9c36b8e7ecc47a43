package canvas

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/forcegraph/pkg/fonts"
)

// Vector is an SVG surface. Filled and stroked paths are buffered as
// elements and written out by [Vector.WriteTo].
type Vector struct {
	styleStack
	size       Size
	background string
	elements   []element
	d          strings.Builder
	hasPoint   bool
}

type element struct {
	d     string
	style string
	text  string
	x, y  float64
}

// NewVector creates an SVG surface of the given size.
func NewVector(width, height int, background string) *Vector {
	return &Vector{
		styleStack: newStyleStack(),
		size:       Size{Width: float64(width), Height: float64(height)},
		background: background,
	}
}

func (v *Vector) Size() Size       { return v.size }
func (v *Vector) Context() Context { return v }

// Clear drops every buffered element and resets the paint state.
func (v *Vector) Clear() {
	v.reset()
	v.elements = v.elements[:0]
	v.BeginPath()
}

// Len reports the number of buffered elements.
func (v *Vector) Len() int { return len(v.elements) }

// WriteTo renders the buffered elements as a standalone SVG document.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	doc := svg.New(cw)
	width, height := int(v.size.Width), int(v.size.Height)
	doc.Start(width, height)
	if v.background != "" {
		doc.Rect(0, 0, width, height, "fill:"+v.background)
	}
	for _, e := range v.elements {
		if e.text != "" {
			doc.Text(int(math.Round(e.x)), int(math.Round(e.y)), e.text, e.style)
			continue
		}
		doc.Path(e.d, e.style)
	}
	doc.End()
	return cw.n, cw.err
}

func (v *Vector) tx(x float64) float64 { return x + v.size.Width/2 }
func (v *Vector) ty(y float64) float64 { return y + v.size.Height/2 }

func (v *Vector) BeginPath() {
	v.d.Reset()
	v.hasPoint = false
}

func (v *Vector) MoveTo(x, y float64) {
	v.cmd("M", v.tx(x), v.ty(y))
	v.hasPoint = true
}

func (v *Vector) LineTo(x, y float64) {
	if !v.hasPoint {
		v.MoveTo(x, y)
		return
	}
	v.cmd("L", v.tx(x), v.ty(y))
}

func (v *Vector) ClosePath() {
	if v.hasPoint {
		v.d.WriteString("Z ")
	}
}

func (v *Vector) Rect(x, y, w, h float64) {
	v.MoveTo(x, y)
	v.LineTo(x+w, y)
	v.LineTo(x+w, y+h)
	v.LineTo(x, y+h)
	v.ClosePath()
}

func (v *Vector) Arc(x, y, r, start, end float64, ccw bool) {
	start, end = arcSweep(start, end, ccw)
	cx, cy := v.tx(x), v.ty(y)
	sx, sy := cx+r*math.Cos(start), cy+r*math.Sin(start)
	if v.hasPoint {
		v.cmd("L", sx, sy)
	} else {
		v.cmd("M", sx, sy)
		v.hasPoint = true
	}
	sweep := end - start
	if math.Abs(sweep) >= FullCircle {
		// A single SVG arc cannot close on itself.
		mid := start + sweep/2
		v.arcTo(r, sweep/2, cx+r*math.Cos(mid), cy+r*math.Sin(mid))
		sweep /= 2
	}
	v.arcTo(r, sweep, cx+r*math.Cos(end), cy+r*math.Sin(end))
}

func (v *Vector) arcTo(r, sweep, x, y float64) {
	large, dir := 0, 0
	if math.Abs(sweep) > math.Pi {
		large = 1
	}
	if sweep > 0 {
		dir = 1
	}
	fmt.Fprintf(&v.d, "A %s %s 0 %d %d %s %s ", num(r), num(r), large, dir, num(x), num(y))
}

func (v *Vector) Fill() {
	v.push(fmt.Sprintf("fill:%s;fill-opacity:%s;stroke:none", v.cur.Fill, num(v.cur.Alpha)))
}

func (v *Vector) Stroke() {
	v.push(fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-opacity:%s",
		v.cur.Stroke, num(v.cur.LineWidth), num(v.cur.Alpha)))
}

// Text adds s centred on (x, y) in the fill colour.
func (v *Vector) Text(x, y float64, s string) {
	v.elements = append(v.elements, element{
		text: s,
		x:    v.tx(x),
		y:    v.ty(y),
		style: fmt.Sprintf("fill:%s;fill-opacity:%s;font-family:%s;font-size:%dpx;text-anchor:middle;dominant-baseline:central",
			v.cur.Fill, num(v.cur.Alpha), fonts.FontFamily, fonts.DefaultSize),
	})
}

func (v *Vector) push(style string) {
	d := strings.TrimSpace(v.d.String())
	if d == "" {
		return
	}
	v.elements = append(v.elements, element{d: d, style: style})
}

func (v *Vector) cmd(op string, x, y float64) {
	v.d.WriteString(op)
	v.d.WriteByte(' ')
	v.d.WriteString(num(x))
	v.d.WriteByte(' ')
	v.d.WriteString(num(y))
	v.d.WriteByte(' ')
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
