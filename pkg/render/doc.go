// Package render turns ForceGraph drawings into files.
//
// # Frames
//
// A frame is the encoded contents of a canvas surface after a plot pass.
// [NewSurface] picks the surface for a [Format]:
//
//   - png: [canvas.Raster], encoded with [Encode] as PNG
//   - svg: [canvas.Vector], encoded as an SVG document
//   - txt: [canvas.Braille], encoded as braille text
//
// Labels live outside the canvas (see [plot.LabelSurface]). When a
// ForceGraph is built with a [plot.MemoryLabels] surface, [WriteFrame]
// paints the visible labels into the frame just before encoding.
//
// # Sequences
//
// [WriteSequence] drives [viz.ForceGraph.AnimateFrames] and writes one
// numbered file per frame:
//
//	paths, err := render.WriteSequence(fg, viz.AnimateOptions{}, render.SequenceOptions{
//	    Dir:    "out",
//	    Format: render.FormatPNG,
//	    Frames: 60,
//	    Labels: mem,
//	})
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports graphs to Graphviz DOT and renders
// them with an embedded Graphviz.
//
// [canvas.Raster]: github.com/matzehuels/forcegraph/pkg/canvas.Raster
// [canvas.Vector]: github.com/matzehuels/forcegraph/pkg/canvas.Vector
// [canvas.Braille]: github.com/matzehuels/forcegraph/pkg/canvas.Braille
// [plot.LabelSurface]: github.com/matzehuels/forcegraph/pkg/plot.LabelSurface
// [plot.MemoryLabels]: github.com/matzehuels/forcegraph/pkg/plot.MemoryLabels
// [viz.ForceGraph.AnimateFrames]: github.com/matzehuels/forcegraph/pkg/viz.ForceGraph.AnimateFrames
// [nodelink]: github.com/matzehuels/forcegraph/pkg/render/nodelink
package render
