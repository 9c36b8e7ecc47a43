package canvas

import (
	"math"
	"strings"
)

// Braille cells hold 2×4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

// DefaultAlphaThreshold is the global alpha below which braille output
// draws nothing.
const DefaultAlphaThreshold = 0.3

// Braille is a terminal surface made of Unicode braille cells. Each dot
// covers Scale×Scale layout units; colours are ignored.
type Braille struct {
	styleStack
	Cols, Rows int
	Scale      float64
	// Threshold is the minimum global alpha that marks dots.
	Threshold float64

	grid     [][]rune
	subpaths [][][2]float64
}

// NewBraille creates a cols×rows cell surface.
func NewBraille(cols, rows int, scale float64) *Braille {
	if scale <= 0 {
		scale = 1
	}
	b := &Braille{
		styleStack: newStyleStack(),
		Cols:       cols,
		Rows:       rows,
		Scale:      scale,
		Threshold:  DefaultAlphaThreshold,
		grid:       make([][]rune, rows),
	}
	for i := range b.grid {
		b.grid[i] = make([]rune, cols)
	}
	b.Clear()
	return b
}

func (b *Braille) Context() Context { return b }

func (b *Braille) Size() Size {
	return Size{Width: float64(b.Cols*2) * b.Scale, Height: float64(b.Rows*4) * b.Scale}
}

func (b *Braille) Clear() {
	b.reset()
	for i := range b.grid {
		for j := range b.grid[i] {
			b.grid[i][j] = blankCell
		}
	}
	b.subpaths = b.subpaths[:0]
}

// Frame returns the grid as newline-terminated rows.
func (b *Braille) Frame() string {
	var sb strings.Builder
	for _, row := range b.grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Braille) String() string { return b.Frame() }

// Set marks the dot at (x, y) in dot coordinates.
func (b *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Cols || row >= b.Rows {
		return
	}
	b.grid[row][col] |= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is marked.
func (b *Braille) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= b.Cols || y/4 >= b.Rows {
		return false
	}
	return b.grid[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Line draws a Bresenham line between two dots.
func (b *Braille) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		b.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *Braille) dot(x, y float64) [2]float64 {
	s := b.Size()
	return [2]float64{(x + s.Width/2) / b.Scale, (y + s.Height/2) / b.Scale}
}

func (b *Braille) BeginPath() { b.subpaths = b.subpaths[:0] }

func (b *Braille) MoveTo(x, y float64) {
	b.subpaths = append(b.subpaths, [][2]float64{b.dot(x, y)})
}

func (b *Braille) LineTo(x, y float64) {
	if len(b.subpaths) == 0 {
		b.MoveTo(x, y)
		return
	}
	last := len(b.subpaths) - 1
	b.subpaths[last] = append(b.subpaths[last], b.dot(x, y))
}

func (b *Braille) ClosePath() {
	if len(b.subpaths) == 0 {
		return
	}
	last := b.subpaths[len(b.subpaths)-1]
	if len(last) > 1 {
		b.subpaths[len(b.subpaths)-1] = append(last, last[0])
	}
}

func (b *Braille) Rect(x, y, w, h float64) {
	b.MoveTo(x, y)
	b.LineTo(x+w, y)
	b.LineTo(x+w, y+h)
	b.LineTo(x, y+h)
	b.ClosePath()
}

func (b *Braille) Arc(x, y, r, start, end float64, ccw bool) {
	start, end = arcSweep(start, end, ccw)
	steps := int(math.Max(8, math.Ceil(math.Abs(end-start)*r/b.Scale)))
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		px, py := x+r*math.Cos(a), y+r*math.Sin(a)
		if i == 0 && len(b.subpaths) == 0 {
			b.MoveTo(px, py)
			continue
		}
		b.LineTo(px, py)
	}
}

func (b *Braille) visible() bool { return b.cur.Alpha >= b.Threshold }

func (b *Braille) Stroke() {
	if !b.visible() {
		return
	}
	for _, sp := range b.subpaths {
		if len(sp) == 1 {
			b.Set(round(sp[0][0]), round(sp[0][1]))
			continue
		}
		for i := 1; i < len(sp); i++ {
			b.Line(round(sp[i-1][0]), round(sp[i-1][1]), round(sp[i][0]), round(sp[i][1]))
		}
	}
}

// Fill marks every dot whose centre lies inside the path (even-odd rule),
// plus the outline so that sub-dot shapes stay visible.
func (b *Braille) Fill() {
	if !b.visible() || len(b.subpaths) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range b.subpaths {
		for _, p := range sp {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			if b.inside(float64(x), float64(y)) {
				b.Set(x, y)
			}
		}
	}
	b.Stroke()
}

func (b *Braille) inside(x, y float64) bool {
	in := false
	for _, sp := range b.subpaths {
		n := len(sp)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			pi, pj := sp[i], sp[j]
			if (pi[1] > y) != (pj[1] > y) &&
				x < (pj[0]-pi[0])*(y-pi[1])/(pj[1]-pi[1])+pi[0] {
				in = !in
			}
		}
	}
	return in
}

func round(f float64) int { return int(math.Round(f)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
