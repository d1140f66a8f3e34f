package codec

import "github.com/ha1tch/fsm-canvas/pkg/graph"

// Export snapshots g. States and transitions keep model order, the alphabet
// lists symbols in first-seen order, and accepting keeps the order in which
// states were marked final.
func Export(g *graph.Graph) Document {
	doc := Document{
		States:      make([]string, 0, g.Len()),
		Alphabet:    []string{},
		Transitions: make([]Transition, 0, len(g.Transitions())),
		Accepting:   g.Finals(),
	}
	for _, s := range g.States() {
		doc.States = append(doc.States, s.ID)
	}

	seen := make(map[string]bool)
	for _, t := range g.Transitions() {
		doc.Transitions = append(doc.Transitions, Transition{From: t.From, Symbol: t.Symbol, To: t.To})
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			doc.Alphabet = append(doc.Alphabet, t.Symbol)
		}
	}

	if id, ok := g.Start(); ok {
		doc.Start = strPtr(id)
	}
	return doc
}
