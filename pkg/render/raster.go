// Raster surface for PNG exports.
// Draws at a multiple of the target size and downsamples for smoother output.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// RasterOptions configures PNG rendering.
type RasterOptions struct {
	Width       int
	Height      int
	Supersample int     // drawing scale before downsampling
	LineWidth   float64 // stroke width in output pixels
	FontSize    float64 // label size in points
}

// DefaultRasterOptions returns sensible defaults for PNG rendering.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Width:       800,
		Height:      600,
		Supersample: 4,
		LineWidth:   1.5,
		FontSize:    12,
	}
}

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorInk        = color.RGBA{51, 51, 51, 255} // #333
)

// RasterSurface draws onto an in-memory image with gg.
type RasterSurface struct {
	opts RasterOptions
	dc   *gg.Context
}

// NewRasterSurface creates a white canvas of the configured size.
func NewRasterSurface(opts RasterOptions) (*RasterSurface, error) {
	def := DefaultRasterOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Supersample <= 0 {
		opts.Supersample = def.Supersample
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = def.LineWidth
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}

	scale := float64(opts.Supersample)
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	// Glyphs are not affected by the context matrix, so size the face for
	// the supersampled image.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    opts.FontSize * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	dc := gg.NewContext(opts.Width*opts.Supersample, opts.Height*opts.Supersample)
	dc.Scale(scale, scale)
	dc.SetFontFace(face)
	dc.SetLineWidth(opts.LineWidth * scale)

	s := &RasterSurface{opts: opts, dc: dc}
	s.Clear()
	return s, nil
}

func (s *RasterSurface) Clear() {
	s.dc.SetColor(colorBackground)
	s.dc.Clear()
	s.dc.SetColor(colorInk)
}

func (s *RasterSurface) StrokeCircle(cx, cy, r float64) {
	s.dc.DrawCircle(cx, cy, r)
	s.dc.Stroke()
}

func (s *RasterSurface) StrokeLine(x1, y1, x2, y2 float64) {
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *RasterSurface) StrokeQuad(x1, y1, cx, cy, x2, y2 float64) {
	s.dc.MoveTo(x1, y1)
	s.dc.QuadraticTo(cx, cy, x2, y2)
	s.dc.Stroke()
}

func (s *RasterSurface) StrokeArc(cx, cy, r, a1, a2 float64) {
	s.dc.DrawArc(cx, cy, r, a1, a2)
	s.dc.Stroke()
}

func (s *RasterSurface) Text(str string, x, y float64) {
	s.dc.DrawStringAnchored(str, x, y, 0.5, 0.35)
}

// Image returns the canvas downsampled to the output size.
func (s *RasterSurface) Image() image.Image {
	large := s.dc.Image()
	out := image.NewRGBA(image.Rect(0, 0, s.opts.Width, s.opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), large, large.Bounds(), draw.Over, nil)
	return out
}

// EncodePNG writes the downsampled canvas as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}
