package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// Canvas pixels per terminal cell. Cells are roughly twice as tall as wide.
const (
	CellWidth  = 6.0
	CellHeight = 12.0
)

// toCanvas maps a cell to the canvas point at its centre.
func toCanvas(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// toCell maps a canvas point to the cell containing it.
func toCell(x, y float64) (col, row int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

// cellSurface rasterises drawing calls onto screen cells. Only rows above
// the status lines are painted.
type cellSurface struct {
	screen tcell.Screen
	ink    tcell.Style
	label  tcell.Style
	footer int // rows reserved at the bottom
}

func newCellSurface(s tcell.Screen, footer int) *cellSurface {
	return &cellSurface{
		screen: s,
		ink:    styleTrans,
		label:  styleLabel,
		footer: footer,
	}
}

func (c *cellSurface) bounds() (w, h int) {
	w, h = c.screen.Size()
	return w, h - c.footer
}

func (c *cellSurface) plot(x, y float64, r rune) {
	col, row := toCell(x, y)
	w, h := c.bounds()
	if col < 0 || row < 0 || col >= w || row >= h {
		return
	}
	c.screen.SetContent(col, row, r, nil, c.ink)
}

// stroke samples fn over [0,1] finely enough to touch every cell the path
// crosses. fn returns the point and the tangent at t.
func (c *cellSurface) stroke(length float64, fn func(t float64) (x, y, dx, dy float64)) {
	steps := int(length/(CellWidth/2)) + 1
	for i := 0; i <= steps; i++ {
		x, y, dx, dy := fn(float64(i) / float64(steps))
		c.plot(x, y, lineRune(dx, dy))
	}
}

// lineRune picks a glyph for a path heading in direction (dx, dy). The
// vertical component is scaled by the cell aspect ratio.
func lineRune(dx, dy float64) rune {
	if dx == 0 && dy == 0 {
		return '·'
	}
	a := math.Atan2(dy/CellHeight, dx/CellWidth) * 180 / math.Pi
	if a < 0 {
		a += 180
	}
	switch {
	case a < 22.5 || a >= 157.5:
		return '─'
	case a < 67.5:
		return '╲'
	case a < 112.5:
		return '│'
	default:
		return '╱'
	}
}

func (c *cellSurface) Clear() {
	w, h := c.bounds()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			c.screen.SetContent(col, row, ' ', nil, styleDefault)
		}
	}
}

func (c *cellSurface) StrokeCircle(cx, cy, r float64) {
	c.StrokeArc(cx, cy, r, 0, 2*math.Pi)
}

func (c *cellSurface) StrokeLine(x1, y1, x2, y2 float64) {
	dx, dy := x2-x1, y2-y1
	c.stroke(math.Hypot(dx, dy), func(t float64) (float64, float64, float64, float64) {
		return x1 + dx*t, y1 + dy*t, dx, dy
	})
}

func (c *cellSurface) StrokeQuad(x1, y1, cx, cy, x2, y2 float64) {
	length := math.Hypot(cx-x1, cy-y1) + math.Hypot(x2-cx, y2-cy)
	c.stroke(length, func(t float64) (float64, float64, float64, float64) {
		u := 1 - t
		x := u*u*x1 + 2*u*t*cx + t*t*x2
		y := u*u*y1 + 2*u*t*cy + t*t*y2
		dx := 2*u*(cx-x1) + 2*t*(x2-cx)
		dy := 2*u*(cy-y1) + 2*t*(y2-cy)
		return x, y, dx, dy
	})
}

func (c *cellSurface) StrokeArc(cx, cy, r, a1, a2 float64) {
	sweep := a2 - a1
	c.stroke(math.Abs(sweep)*r, func(t float64) (float64, float64, float64, float64) {
		a := a1 + sweep*t
		return cx + r*math.Cos(a), cy + r*math.Sin(a), -math.Sin(a), math.Cos(a)
	})
}

// Text centres s on the cell containing (x, y).
func (c *cellSurface) Text(s string, x, y float64) {
	col, row := toCell(x, y)
	runes := []rune(s)
	col -= len(runes) / 2
	w, h := c.bounds()
	if row < 0 || row >= h {
		return
	}
	for i, r := range runes {
		if col+i >= 0 && col+i < w {
			c.screen.SetContent(col+i, row, r, nil, c.label)
		}
	}
}
