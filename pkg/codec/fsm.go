package codec

import "github.com/ha1tch/fsm-canvas/pkg/fsm"

// ToFSM converts a document to an automaton. Symbols used by transitions
// but missing from the alphabet are added to it.
func ToFSM(doc Document) *fsm.FSM {
	f := fsm.New()
	for _, s := range doc.States {
		f.AddState(s)
	}
	for _, a := range doc.Alphabet {
		f.AddInput(a)
	}
	for _, t := range doc.Transitions {
		f.AddInput(t.Symbol)
		f.AddTransition(t.From, t.Symbol, t.To)
	}
	f.SetInitial(doc.StartID())
	f.SetAccepting(append([]string{}, doc.Accepting...))
	return f
}

// FromFSM converts an automaton to a document.
func FromFSM(f *fsm.FSM) Document {
	doc := Document{
		States:      append([]string{}, f.States...),
		Alphabet:    append([]string{}, f.Alphabet...),
		Transitions: make([]Transition, 0, len(f.Transitions)),
		Accepting:   append([]string{}, f.Accepting...),
	}
	for _, t := range f.Transitions {
		doc.Transitions = append(doc.Transitions, Transition{From: t.From, Symbol: t.Input, To: t.To})
	}
	if f.Initial != "" {
		doc.Start = strPtr(f.Initial)
	}
	return doc
}
