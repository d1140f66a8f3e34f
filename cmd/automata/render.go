package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
	"github.com/ha1tch/fsm-canvas/pkg/graph"
	"github.com/ha1tch/fsm-canvas/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var opts render.ExportOptions
	var output string
	cmd := &cobra.Command{
		Use:   "render <document.json>",
		Short: "Render a document to SVG, PNG or DOT",
		Example: `  automata render abc.json -o abc.svg
  automata render abc.json --format dot | dot -Tpng -o abc.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(a, args[0])
			if err != nil {
				return err
			}
			if opts.Format == "" {
				opts.Format = render.FormatFromPath(output, a.cfg.FileType)
			}
			if opts.Title == "" {
				opts.Title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return render.Export(out, g, opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "svg, png or dot (default from the output extension)")
	cmd.Flags().IntVar(&opts.Width, "width", 800, "Canvas width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 600, "Canvas height in pixels")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Document title")
	return cmd
}

// loadGraph reads a document file and lays it out. Dropped items are
// logged and do not fail the load.
func loadGraph(a *app, path string) (*graph.Graph, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	g, warns := codec.Import(doc)
	for _, w := range warns {
		a.log.Warn("import", "file", path, "warning", w.Msg)
	}
	return g, nil
}

func loadDocument(path string) (codec.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return codec.Document{}, err
	}
	doc, _, err := codec.ParseJSON(data)
	if err != nil {
		return codec.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
