// Package fsm provides the finite automaton engine behind the backend:
// classification, recognition, subset construction, minimization and
// language equivalence.
package fsm

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the kind of automaton reported by Classify.
type Type string

const (
	TypeDFA Type = "DFA"
	TypeNFA Type = "NFA"
)

var (
	// ErrInvalidSymbol is returned when an input symbol is not in the
	// alphabet.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrNotDeterministic is returned by operations that need a DFA.
	ErrNotDeterministic = errors.New("automaton is not deterministic")

	// ErrNoInitial is returned by operations that need an initial state.
	ErrNoInitial = errors.New("automaton has no initial state")
)

// Transition is a single labelled edge.
type Transition struct {
	From  string
	Input string
	To    string
}

// FSM is a finite automaton over string symbols. Initial is "" when the
// automaton has no start state.
type FSM struct {
	States      []string
	Alphabet    []string
	Initial     string
	Accepting   []string
	Transitions []Transition
}

// New creates an empty automaton.
func New() *FSM {
	return &FSM{
		States:      make([]string, 0),
		Alphabet:    make([]string, 0),
		Accepting:   make([]string, 0),
		Transitions: make([]Transition, 0),
	}
}

// AddState adds a state if it is not already present.
func (f *FSM) AddState(name string) {
	if f.StateIndex(name) < 0 {
		f.States = append(f.States, name)
	}
}

// AddInput adds a symbol to the alphabet if it is not already present.
func (f *FSM) AddInput(symbol string) {
	if f.InputIndex(symbol) < 0 {
		f.Alphabet = append(f.Alphabet, symbol)
	}
}

// AddTransition appends from --input--> to.
func (f *FSM) AddTransition(from, input, to string) {
	f.Transitions = append(f.Transitions, Transition{From: from, Input: input, To: to})
}

// SetInitial sets the initial state.
func (f *FSM) SetInitial(state string) {
	f.Initial = state
}

// SetAccepting sets the accepting states.
func (f *FSM) SetAccepting(states []string) {
	f.Accepting = states
}

// Validate checks that every reference names a known state or symbol.
// Empty automata and automata without an initial state are valid.
func (f *FSM) Validate() error {
	states := make(map[string]bool, len(f.States))
	for _, s := range f.States {
		states[s] = true
	}
	if f.Initial != "" && !states[f.Initial] {
		return fmt.Errorf("initial state %q not in states", f.Initial)
	}
	for _, acc := range f.Accepting {
		if !states[acc] {
			return fmt.Errorf("accepting state %q not in states", acc)
		}
	}
	for i, t := range f.Transitions {
		if !states[t.From] {
			return fmt.Errorf("transition %d: from state %q not in states", i, t.From)
		}
		if !states[t.To] {
			return fmt.Errorf("transition %d: to state %q not in states", i, t.To)
		}
		if f.InputIndex(t.Input) < 0 {
			return fmt.Errorf("transition %d: input %q not in alphabet", i, t.Input)
		}
	}
	return nil
}

// StateIndex returns the index of a state, or -1 if not found.
func (f *FSM) StateIndex(state string) int {
	for i, s := range f.States {
		if s == state {
			return i
		}
	}
	return -1
}

// InputIndex returns the index of an input, or -1 if not found.
func (f *FSM) InputIndex(input string) int {
	for i, a := range f.Alphabet {
		if a == input {
			return i
		}
	}
	return -1
}

// IsAccepting returns true if the state is an accepting state.
func (f *FSM) IsAccepting(state string) bool {
	for _, acc := range f.Accepting {
		if acc == state {
			return true
		}
	}
	return false
}

// Targets returns the states reachable from one state on one input, in
// transition order.
func (f *FSM) Targets(from, input string) []string {
	var out []string
	for _, t := range f.Transitions {
		if t.From == from && t.Input == input {
			out = append(out, t.To)
		}
	}
	return out
}

// Classify reports TypeDFA when no (state, symbol) pair has more than one
// transition, TypeNFA otherwise. Completeness is not required.
func (f *FSM) Classify() Type {
	seen := make(map[[2]string]bool, len(f.Transitions))
	for _, t := range f.Transitions {
		key := [2]string{t.From, t.Input}
		if seen[key] {
			return TypeNFA
		}
		seen[key] = true
	}
	return TypeDFA
}

// Accepts runs the input one character at a time and reports whether the
// automaton ends in an accepting state.
func (f *FSM) Accepts(input string) (bool, error) {
	r, err := NewRunner(f)
	if err != nil {
		return false, err
	}
	if err := r.RunString(input); err != nil {
		return false, err
	}
	return r.IsAccepting(), nil
}

// Copy creates a deep copy of the FSM.
func (f *FSM) Copy() *FSM {
	c := &FSM{
		States:      append([]string{}, f.States...),
		Alphabet:    append([]string{}, f.Alphabet...),
		Initial:     f.Initial,
		Accepting:   append([]string{}, f.Accepting...),
		Transitions: append([]Transition{}, f.Transitions...),
	}
	return c
}

// String returns a short summary of the FSM.
func (f *FSM) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FSM[%s]\n", f.Classify()))
	sb.WriteString(fmt.Sprintf("  States: %v\n", f.States))
	sb.WriteString(fmt.Sprintf("  Alphabet: %v\n", f.Alphabet))
	sb.WriteString(fmt.Sprintf("  Initial: %s\n", f.Initial))
	sb.WriteString(fmt.Sprintf("  Accepting: %v\n", f.Accepting))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(f.Transitions)))
	return sb.String()
}
