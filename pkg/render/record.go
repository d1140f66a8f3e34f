package render

import "fmt"

// OpKind names a recorded drawing call.
type OpKind int

const (
	OpClear OpKind = iota
	OpCircle
	OpLine
	OpQuad
	OpArc
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpCircle:
		return "circle"
	case OpLine:
		return "line"
	case OpQuad:
		return "quad"
	case OpArc:
		return "arc"
	case OpText:
		return "text"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is one recorded call. Args holds the numeric arguments in call order;
// Text is set for OpText.
type Op struct {
	Kind OpKind
	Args []float64
	Text string
}

// Recorder is a Surface that remembers every call since the last Clear.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear})
}

func (r *Recorder) StrokeCircle(cx, cy, rad float64) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Args: []float64{cx, cy, rad}})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Args: []float64{x1, y1, x2, y2}})
}

func (r *Recorder) StrokeQuad(x1, y1, cx, cy, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpQuad, Args: []float64{x1, y1, cx, cy, x2, y2}})
}

func (r *Recorder) StrokeArc(cx, cy, rad, a1, a2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpArc, Args: []float64{cx, cy, rad, a1, a2}})
}

func (r *Recorder) Text(s string, x, y float64) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Args: []float64{x, y}, Text: s})
}

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Texts returns the strings passed to Text, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}
