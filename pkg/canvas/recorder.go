package canvas

import (
	"fmt"
	"strings"
)

// Op is one recorded drawing call.
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Style Style
}

func (o Op) String() string {
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = num(a)
	}
	if o.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", o.Text))
	}
	return o.Name + "(" + strings.Join(parts, ",") + ")"
}

// Recorder is a surface that logs every path and paint call. Fill, Stroke
// and Text record the style in effect at the time of the call.
type Recorder struct {
	styleStack
	size Size
	Ops  []Op
}

// NewRecorder creates a recording surface of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{styleStack: newStyleStack(), size: Size{Width: width, Height: height}}
}

func (r *Recorder) Size() Size       { return r.size }
func (r *Recorder) Context() Context { return r }

func (r *Recorder) Clear() {
	r.reset()
	r.Ops = append(r.Ops, Op{Name: "Clear"})
}

// Reset forgets every recorded op.
func (r *Recorder) Reset() { r.Ops = nil }

// Count returns how many ops named name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the recorded ops named name, in order.
func (r *Recorder) Filter(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) add(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args, Style: r.cur})
}

func (r *Recorder) BeginPath()          { r.add("BeginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.add("MoveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("LineTo", x, y) }
func (r *Recorder) ClosePath()          { r.add("ClosePath") }
func (r *Recorder) Fill()               { r.add("Fill") }
func (r *Recorder) Stroke()             { r.add("Stroke") }

func (r *Recorder) Rect(x, y, w, h float64) { r.add("Rect", x, y, w, h) }

func (r *Recorder) Arc(x, y, radius, start, end float64, ccw bool) {
	c := 0.0
	if ccw {
		c = 1
	}
	r.add("Arc", x, y, radius, start, end, c)
}

func (r *Recorder) Text(x, y float64, s string) {
	r.Ops = append(r.Ops, Op{Name: "Text", Args: []float64{x, y}, Text: s, Style: r.cur})
}
