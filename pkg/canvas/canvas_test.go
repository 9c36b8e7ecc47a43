package canvas

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"
)

func TestStyleStack(t *testing.T) {
	r := NewRecorder(100, 100)
	ctx := r.Context()

	ctx.SetGlobalAlpha(0.5)
	ctx.SetFillStyle("#f00")
	ctx.Save()
	ctx.SetGlobalAlpha(0.2)
	ctx.SetFillStyle("#0f0")
	if got := ctx.GlobalAlpha(); got != 0.2 {
		t.Errorf("alpha after set = %v, want 0.2", got)
	}
	ctx.Restore()
	if got := ctx.GlobalAlpha(); got != 0.5 {
		t.Errorf("alpha after restore = %v, want 0.5", got)
	}
	ctx.Fill()
	if got := r.Filter("Fill")[0].Style.Fill; got != "#f00" {
		t.Errorf("fill style = %q, want #f00", got)
	}

	// Unbalanced restore is a no-op.
	ctx.Restore()
	ctx.Restore()
	if got := ctx.GlobalAlpha(); got != 0.5 {
		t.Errorf("alpha after extra restore = %v, want 0.5", got)
	}
}

func TestGlobalAlphaOutOfRangeIgnored(t *testing.T) {
	r := NewRecorder(10, 10)
	for _, a := range []float64{-0.1, 1.5, math.NaN()} {
		r.SetGlobalAlpha(a)
		if got := r.GlobalAlpha(); got != 1 {
			t.Errorf("SetGlobalAlpha(%v): alpha = %v, want 1", a, got)
		}
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		mode Mode
		last string
	}{
		{Fill, "Fill"},
		{Stroke, "Stroke"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRecorder(10, 10)
			Path(r, tt.mode, func(ctx Context) {
				ctx.MoveTo(0, 0)
				ctx.LineTo(1, 1)
			})
			var names []string
			for _, op := range r.Ops {
				names = append(names, op.Name)
			}
			want := "BeginPath,MoveTo,LineTo," + tt.last
			if got := strings.Join(names, ","); got != want {
				t.Errorf("ops = %s, want %s", got, want)
			}
		})
	}
}

func TestArcSweep(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		ccw        bool
		wantSweep  float64
	}{
		{"cw quarter", 0, math.Pi / 2, false, math.Pi / 2},
		{"ccw quarter", 0, math.Pi / 2, true, math.Pi/2 - FullCircle},
		{"cw full", 0, FullCircle, false, FullCircle},
		{"ccw full", 0, FullCircle, true, -FullCircle},
		{"cw backwards", math.Pi / 2, 0, false, FullCircle - math.Pi/2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := arcSweep(tt.start, tt.end, tt.ccw)
			if got := e - s; math.Abs(got-tt.wantSweep) > 1e-9 {
				t.Errorf("sweep = %v, want %v", got, tt.wantSweep)
			}
		})
	}
}

func TestRasterCentredOrigin(t *testing.T) {
	r := NewRaster(40, 20, "#ffffff")
	Path(r, Fill, func(ctx Context) {
		ctx.SetFillStyle("#ff0000")
		ctx.Arc(0, 0, 4, 0, FullCircle, true)
	})

	img := r.Image()
	cr, cg, _, _ := img.At(20, 10).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0 {
		t.Errorf("centre pixel = (%d,%d), want red", cr>>8, cg>>8)
	}
	cr, cg, _, _ = img.At(1, 1).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0xff {
		t.Errorf("corner pixel = (%d,%d), want white", cr>>8, cg>>8)
	}

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("bounds = %v, want 40x20", b)
	}
}

func TestRasterClearTransparent(t *testing.T) {
	r := NewRaster(4, 4, "")
	if _, _, _, a := r.Image().At(0, 0).RGBA(); a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
}

func TestVector(t *testing.T) {
	v := NewVector(100, 50, "#fff")
	ctx := v.Context()
	Path(v, Stroke, func(ctx Context) {
		ctx.MoveTo(-10, 0)
		ctx.LineTo(10, 0)
	})
	ctx.SetGlobalAlpha(0.5)
	Path(v, Fill, func(ctx Context) {
		ctx.Arc(0, 0, 5, 0, FullCircle, true)
	})
	v.Text(0, 10, "a<b")

	if v.Len() != 3 {
		t.Fatalf("elements = %d, want 3", v.Len())
	}

	var buf bytes.Buffer
	n, err := v.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo n = %d, buffer has %d", n, buf.Len())
	}
	out := buf.String()
	for _, want := range []string{
		`width="100"`,
		`d="M 40 25 L 60 25"`,
		"fill-opacity:0.5",
		"A 5 5 0",
		"a&lt;b",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q\n%s", want, out)
		}
	}

	v.Clear()
	if v.Len() != 0 {
		t.Errorf("elements after Clear = %d", v.Len())
	}
}

func TestVectorEmptyPathSkipped(t *testing.T) {
	v := NewVector(10, 10, "")
	Path(v, Fill, func(Context) {})
	if v.Len() != 0 {
		t.Errorf("elements = %d, want 0", v.Len())
	}
}

func TestBrailleSetAndLine(t *testing.T) {
	b := NewBraille(2, 1, 1)
	b.Set(0, 0)
	b.Set(1, 3)
	if got := []rune(b.Frame())[0]; got != blankCell|0x1|0x80 {
		t.Errorf("cell = %U, want %U", got, blankCell|0x1|0x80)
	}
	b.Set(-1, 0)
	b.Set(100, 0)

	b.Clear()
	b.Line(0, 0, 3, 3)
	for i := 0; i <= 3; i++ {
		if !b.IsSet(i, i) {
			t.Errorf("dot (%d,%d) not set", i, i)
		}
	}
}

func TestBrailleFillDisc(t *testing.T) {
	b := NewBraille(10, 5, 1)
	Path(b, Fill, func(ctx Context) {
		ctx.Arc(0, 0, 4, 0, FullCircle, true)
	})
	// Surface is 20×20 dots, the centre is dot (10, 10).
	if !b.IsSet(10, 10) {
		t.Error("disc centre not set")
	}
	if b.IsSet(0, 0) {
		t.Error("corner should stay blank")
	}
}

func TestBrailleAlphaThreshold(t *testing.T) {
	b := NewBraille(4, 2, 1)
	b.SetGlobalAlpha(0.1)
	Path(b, Stroke, func(ctx Context) {
		ctx.MoveTo(-2, 0)
		ctx.LineTo(2, 0)
	})
	if strings.Trim(b.Frame(), string(rune(blankCell))+"\n") != "" {
		t.Error("faint stroke should not mark dots")
	}
}

func TestBrailleSize(t *testing.T) {
	b := NewBraille(40, 10, 2.5)
	if got := b.Size(); got != (Size{Width: 200, Height: 100}) {
		t.Errorf("Size = %+v", got)
	}
}
