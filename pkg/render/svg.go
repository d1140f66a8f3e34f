// SVG surface for static exports of the canvas.

package render

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// SVGOptions controls the document wrapped around the drawn elements.
type SVGOptions struct {
	Width    int    // canvas width in pixels
	Height   int    // canvas height in pixels
	FontSize int    // label font size
	Title    string // optional <title>
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:    800,
		Height:   600,
		FontSize: 14,
	}
}

// SVGSurface collects drawing calls as SVG elements.
type SVGSurface struct {
	opts SVGOptions
	body strings.Builder
}

// NewSVGSurface creates an empty SVG surface.
func NewSVGSurface(opts SVGOptions) *SVGSurface {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}
	return &SVGSurface{opts: opts}
}

func (s *SVGSurface) Clear() {
	s.body.Reset()
}

func (s *SVGSurface) StrokeCircle(cx, cy, r float64) {
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" class="stroke"/>
`, cx, cy, r))
}

func (s *SVGSurface) StrokeLine(x1, y1, x2, y2 float64) {
	s.body.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="stroke"/>
`, x1, y1, x2, y2))
}

func (s *SVGSurface) StrokeQuad(x1, y1, cx, cy, x2, y2 float64) {
	s.body.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f" class="stroke"/>
`, x1, y1, cx, cy, x2, y2))
}

func (s *SVGSurface) StrokeArc(cx, cy, r, a1, a2 float64) {
	sweep := a2 - a1
	if sweep >= 2*math.Pi {
		s.StrokeCircle(cx, cy, r)
		return
	}
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	sx, sy := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
	ex, ey := cx+r*math.Cos(a2), cy+r*math.Sin(a2)
	// sweep-flag 1 follows increasing angle on a y-down canvas
	s.body.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f" class="stroke"/>
`, sx, sy, r, r, large, ex, ey))
}

func (s *SVGSurface) Text(str string, x, y float64) {
	s.body.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="label">%s</text>
`, x, y, html.EscapeString(str)))
}

// String returns the complete SVG document.
func (s *SVGSurface) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<style>
  .stroke { fill: none; stroke: #333; stroke-width: 1.5; }
  .label { font-family: sans-serif; font-size: %dpx; fill: #333; text-anchor: middle; dominant-baseline: middle; }
</style>
<rect width="100%%" height="100%%" fill="white"/>
`, s.opts.Width, s.opts.Height, s.opts.Width, s.opts.Height, s.opts.FontSize))

	if s.opts.Title != "" {
		sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(s.opts.Title)))
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}
