// Package fonts provides the label typeface shared by the raster and vector
// surfaces.
//
// Raster output draws with the Go Regular font, which ships inside
// golang.org/x/image and needs no files on disk. Vector output names a CSS
// family list headed by the same font so both outputs look alike.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultSize is the label size in points.
const DefaultSize = 10

// FontFamily is the CSS font-family for SVG labels.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	parsed    *sfnt.Font
	parseErr  error
	parseOnce sync.Once

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// Regular returns a Go Regular face at size points. Faces are cached per
// size; the returned face must not be closed.
func Regular(size float64) (font.Face, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if size <= 0 {
		size = DefaultSize
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	faces[size] = f
	return f, nil
}
