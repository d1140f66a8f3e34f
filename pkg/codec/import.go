package codec

import "github.com/ha1tch/fsm-canvas/pkg/graph"

// Grid used to place imported states.
const (
	LayoutColumns = 5
	LayoutPitch   = 120.0
	LayoutOriginX = 80.0
	LayoutOriginY = 80.0
)

// LayoutPosition returns the canvas position of the i-th imported state.
func LayoutPosition(i int) (x, y float64) {
	col, row := i%LayoutColumns, i/LayoutColumns
	return LayoutOriginX + float64(col)*LayoutPitch, LayoutOriginY + float64(row)*LayoutPitch
}

// Import builds a graph from doc. Items that cannot be resolved are dropped
// and reported; the returned graph always satisfies the model invariants.
func Import(doc Document) (*graph.Graph, []Warning) {
	g := graph.New()
	var warns []Warning

	for i, id := range doc.States {
		x, y := LayoutPosition(i)
		if !g.Insert(id, x, y) {
			if id == "" {
				warns = append(warns, warnf("empty state id dropped"))
			} else {
				warns = append(warns, warnf("duplicate state %q dropped", id))
			}
		}
	}

	for i, t := range doc.Transitions {
		if _, err := g.AddTransition(t.From, t.To, t.Symbol); err != nil {
			warns = append(warns, warnf("transition %d (%s -%s-> %s) dropped: %v", i, t.From, t.Symbol, t.To, err))
		}
	}

	if doc.Start != nil {
		if err := g.SetStart(*doc.Start); err != nil {
			warns = append(warns, warnf("start ignored: %v", err))
		}
	}

	for _, id := range doc.Accepting {
		if g.IsFinal(id) {
			continue
		}
		if err := g.SetFinal(id); err != nil {
			warns = append(warns, warnf("accepting state ignored: %v", err))
		}
	}

	return g, warns
}
