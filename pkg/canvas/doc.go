// Package canvas defines the drawing-surface contract the plotter renders
// through, and ships the surfaces forcegraph can output to.
//
// The contract mirrors an HTML canvas 2-D context: a save/restore stack of
// paint state (global alpha, line width, fill and stroke colour) and path
// primitives that are filled or stroked as a unit. [Path] wraps the
// begin/build/finish sequence.
//
// # Surfaces
//
//   - [Raster] draws into an RGBA image with fogleman/gg and encodes PNG
//   - [Vector] collects SVG path elements and writes them with svgo
//   - [Braille] draws onto a grid of Unicode braille cells for terminals
//   - [Recorder] keeps a log of every call, for tests
//
// All surfaces use origin-centred coordinates: layout point (0, 0) lands in
// the middle of the surface.
package canvas
