package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-canvas/pkg/graph"
)

// DOT converts a graph to Graphviz DOT format. Canvas positions are passed
// as pos attributes so `neato -n` reproduces the layout.
func DOT(g *graph.Graph, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	if start, ok := g.Start(); ok {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		sb.WriteString(fmt.Sprintf("    __start -> \"%s\";\n", escapeDOT(start)))
		sb.WriteString("\n")
	}

	for _, s := range g.States() {
		shape := "circle"
		if g.IsFinal(s.ID) {
			shape = "doublecircle"
		}
		// DOT's y axis points up
		sb.WriteString(fmt.Sprintf("    \"%s\" [shape=%s, pos=\"%.0f,%.0f!\"];\n",
			escapeDOT(s.ID), shape, s.X, -s.Y))
	}
	sb.WriteString("\n")

	// Group symbols by (from, to), keeping first-seen edge order
	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, t := range g.Transitions() {
		key := edge{t.From, t.To}
		if _, seen := labels[key]; !seen {
			order = append(order, key)
		}
		labels[key] = append(labels[key], t.Symbol)
	}
	for _, key := range order {
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(key.from), escapeDOT(key.to), escapeDOT(strings.Join(labels[key], ", "))))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
