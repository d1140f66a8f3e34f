package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ha1tch/fsm-canvas/pkg/graph"
)

// Export formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// ExportOptions sizes a static export.
type ExportOptions struct {
	Format string
	Width  int
	Height int
	Title  string
}

// FormatFromPath guesses the export format from a file extension,
// returning fallback when it is not recognised.
func FormatFromPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG
	case ".png":
		return FormatPNG
	case ".dot", ".gv":
		return FormatDOT
	}
	return fallback
}

// Export paints g in the requested format and writes it to w.
func Export(w io.Writer, g *graph.Graph, opts ExportOptions) error {
	r := New()
	switch opts.Format {
	case FormatSVG:
		s := NewSVGSurface(SVGOptions{
			Width:  opts.Width,
			Height: opts.Height,
			Title:  opts.Title,
		})
		r.Paint(s, g, nil)
		_, err := io.WriteString(w, s.String())
		return err
	case FormatPNG:
		ropts := DefaultRasterOptions()
		ropts.Width, ropts.Height = opts.Width, opts.Height
		s, err := NewRasterSurface(ropts)
		if err != nil {
			return err
		}
		r.Paint(s, g, nil)
		return s.EncodePNG(w)
	case FormatDOT:
		_, err := io.WriteString(w, DOT(g, opts.Title))
		return err
	}
	return fmt.Errorf("unknown export format %q", opts.Format)
}
