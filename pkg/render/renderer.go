package render

import (
	"math"
	"strings"

	"github.com/ha1tch/fsm-canvas/pkg/graph"
)

// Options controls the decoration sizes used by the Renderer.
type Options struct {
	ArrowLength float64 // length of each arrowhead stroke
	ArrowAngle  float64 // half-angle between the two head strokes
	StartStub   float64 // length of the start marker line
	FinalInset  float64 // inner circle is Radius - FinalInset
	LoopJoin    string  // separator for stacked self-loop symbols
}

// DefaultOptions returns the canvas defaults.
func DefaultOptions() Options {
	return Options{
		ArrowLength: 10,
		ArrowAngle:  math.Pi / 6,
		StartStub:   20,
		FinalInset:  5,
		LoopJoin:    ", ",
	}
}

// Preview is the straight line shown while a transition is being drawn.
type Preview struct {
	FromX, FromY float64
	ToX, ToY     float64
}

// Renderer draws a graph. It holds no reference to the graph between calls.
type Renderer struct {
	Options Options
}

// New returns a Renderer with DefaultOptions.
func New() *Renderer {
	return &Renderer{Options: DefaultOptions()}
}

// Paint redraws the whole scene: clear, transitions, states, then the
// preview line if p is non-nil. Transitions are painted first so that state
// circles sit on top of edge ends.
func (r *Renderer) Paint(s Surface, g *graph.Graph, p *Preview) {
	s.Clear()

	looped := make(map[string]bool)
	for _, t := range g.Transitions() {
		from, to := g.State(t.From), g.State(t.To)
		if from == nil || to == nil {
			continue
		}
		if t.IsSelfLoop() {
			if looped[from.ID] {
				continue
			}
			looped[from.ID] = true
			r.selfLoop(s, from, g.SelfLoops(from.ID))
			continue
		}
		r.edge(s, from, to, t.Symbol)
	}

	for _, st := range g.States() {
		r.state(s, st, g.IsStart(st.ID), g.IsFinal(st.ID))
	}

	if p != nil {
		s.StrokeLine(p.FromX, p.FromY, p.ToX, p.ToY)
	}
}

func (r *Renderer) state(s Surface, st *graph.State, start, final bool) {
	s.StrokeCircle(st.X, st.Y, st.Radius)
	if start {
		edge := st.X - st.Radius
		s.StrokeLine(edge-r.Options.StartStub, st.Y, edge, st.Y)
		r.arrowhead(s, graph.Point{X: edge, Y: st.Y}, graph.Point{X: 1, Y: 0})
	}
	if final && st.Radius > r.Options.FinalInset {
		s.StrokeCircle(st.X, st.Y, st.Radius-r.Options.FinalInset)
	}
	s.Text(st.ID, st.X, st.Y)
}

func (r *Renderer) edge(s Surface, from, to *graph.State, symbol string) {
	c := graph.EdgeCurve(from, to)
	s.StrokeQuad(c.Start.X, c.Start.Y, c.Control.X, c.Control.Y, c.End.X, c.End.Y)
	tip, dir := c.Arrow(to.Radius)
	r.arrowhead(s, tip, dir)
	lbl := c.Label()
	s.Text(symbol, lbl.X, lbl.Y)
}

// selfLoop draws one arc for all the loops on st, labelled with every
// symbol in insertion order.
func (r *Renderer) selfLoop(s Surface, st *graph.State, loops []*graph.Transition) {
	l := graph.SelfLoop(st)
	s.StrokeArc(l.Center.X, l.Center.Y, l.Radius, l.Start, l.End)
	tip, dir := l.Arrow()
	r.arrowhead(s, tip, dir)

	symbols := make([]string, len(loops))
	for i, t := range loops {
		symbols[i] = t.Symbol
	}
	lbl := l.Label()
	s.Text(strings.Join(symbols, r.Options.LoopJoin), lbl.X, lbl.Y)
}

// arrowhead draws two strokes back from tip, each ArrowAngle off the reverse
// of dir.
func (r *Renderer) arrowhead(s Surface, tip, dir graph.Point) {
	back := math.Atan2(-dir.Y, -dir.X)
	for _, a := range []float64{back - r.Options.ArrowAngle, back + r.Options.ArrowAngle} {
		s.StrokeLine(tip.X, tip.Y, tip.X+r.Options.ArrowLength*math.Cos(a), tip.Y+r.Options.ArrowLength*math.Sin(a))
	}
}
