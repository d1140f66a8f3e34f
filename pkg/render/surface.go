// Package render paints a graph onto a 2D drawing surface.
//
// The Renderer only knows the Surface interface, so the same painting code
// drives the terminal canvas, SVG export, PNG export and the recording
// surface used in tests.
package render

// Surface is an immediate-mode drawing target. Coordinates are canvas
// pixels with y growing downward; angles are radians measured clockwise
// from +x.
type Surface interface {
	// Clear erases everything drawn so far.
	Clear()
	StrokeCircle(cx, cy, r float64)
	StrokeLine(x1, y1, x2, y2 float64)
	// StrokeQuad draws a quadratic Bézier from (x1, y1) through control
	// point (cx, cy) to (x2, y2).
	StrokeQuad(x1, y1, cx, cy, x2, y2 float64)
	// StrokeArc draws the part of a circle between angles a1 and a2,
	// sweeping in the direction of increasing angle.
	StrokeArc(cx, cy, r, a1, a2 float64)
	// Text draws s centred on (x, y).
	Text(s string, x, y float64)
}
