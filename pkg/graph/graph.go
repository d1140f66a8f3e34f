// Package graph holds the editable automaton graph: positioned states,
// labelled transitions, the start marker and the set of final states.
//
// A Graph has no drawing or I/O of its own. Every mutation keeps four
// invariants: state ids are unique, transition endpoints exist, the start
// state exists when set, and every final state exists.
package graph

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRadius is the radius given to states created on the canvas.
const DefaultRadius = 20.0

var (
	// ErrUnknownState is returned when an operation names a state id that
	// is not in the graph.
	ErrUnknownState = errors.New("unknown state")

	// ErrEmptySymbol is returned when a transition is given no symbol.
	ErrEmptySymbol = errors.New("empty transition symbol")
)

// State is a node on the canvas.
type State struct {
	ID     string
	X, Y   float64
	Radius float64
}

// Contains reports whether (x, y) lies strictly inside the state's circle.
func (s *State) Contains(x, y float64) bool {
	return math.Hypot(x-s.X, y-s.Y) < s.Radius
}

// Transition is a labelled edge. From == To is a self-loop.
type Transition struct {
	From   string
	Symbol string
	To     string
}

// IsSelfLoop reports whether the transition starts and ends on one state.
func (t *Transition) IsSelfLoop() bool {
	return t.From == t.To
}

// Graph is the canonical in-memory automaton. The zero value is not usable;
// call New.
type Graph struct {
	states      []*State
	transitions []*Transition
	start       string
	finals      []string
	next        int // creation counter for q<n> ids
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		states:      make([]*State, 0),
		transitions: make([]*Transition, 0),
		finals:      make([]string, 0),
	}
}

func unknown(id string) error {
	return fmt.Errorf("%w %q", ErrUnknownState, id)
}

// AddState appends a state centred on (x, y) with a fresh q<n> id.
// Ids are never reused after deletion.
func (g *Graph) AddState(x, y float64) *State {
	if g.next < len(g.states) {
		g.next = len(g.states)
	}
	id := "q" + strconv.Itoa(g.next)
	for g.indexOf(id) >= 0 {
		g.next++
		id = "q" + strconv.Itoa(g.next)
	}
	g.next++

	s := &State{ID: id, X: x, Y: y, Radius: DefaultRadius}
	g.states = append(g.states, s)
	return s
}

// Insert adds a state with a caller-chosen id at (x, y). It is used by the
// import path and reports false, leaving the graph unchanged, when the id is
// empty or already taken.
func (g *Graph) Insert(id string, x, y float64) bool {
	if id == "" || g.indexOf(id) >= 0 {
		return false
	}
	g.states = append(g.states, &State{ID: id, X: x, Y: y, Radius: DefaultRadius})
	if n, ok := counterOf(id); ok && n >= g.next {
		g.next = n + 1
	}
	return true
}

// counterOf extracts n from an id of the form q<n>.
func counterOf(id string) (int, bool) {
	if !strings.HasPrefix(id, "q") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RemoveState deletes the state and every transition touching it, clears
// the start marker if it pointed at the state and drops it from the finals.
func (g *Graph) RemoveState(id string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return unknown(id)
	}
	g.states = append(g.states[:idx], g.states[idx+1:]...)

	kept := g.transitions[:0]
	for _, t := range g.transitions {
		if t.From != id && t.To != id {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(g.transitions); i++ {
		g.transitions[i] = nil
	}
	g.transitions = kept

	if g.start == id {
		g.start = ""
	}
	g.removeFinal(id)
	return nil
}

// MoveState recentres a state.
func (g *Graph) MoveState(id string, x, y float64) error {
	s := g.State(id)
	if s == nil {
		return unknown(id)
	}
	s.X, s.Y = x, y
	return nil
}

// AddTransition appends from --symbol--> to. Repeated triples are kept as
// separate records.
func (g *Graph) AddTransition(from, to, symbol string) (*Transition, error) {
	if g.indexOf(from) < 0 {
		return nil, unknown(from)
	}
	if g.indexOf(to) < 0 {
		return nil, unknown(to)
	}
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	t := &Transition{From: from, Symbol: symbol, To: to}
	g.transitions = append(g.transitions, t)
	return t, nil
}

// RemoveTransition removes exactly the given record, compared by identity,
// and reports whether it was present.
func (g *Graph) RemoveTransition(t *Transition) bool {
	for i, cur := range g.transitions {
		if cur == t {
			g.transitions = append(g.transitions[:i], g.transitions[i+1:]...)
			return true
		}
	}
	return false
}

// SetStart marks id as the start state, replacing any previous one.
func (g *Graph) SetStart(id string) error {
	if g.indexOf(id) < 0 {
		return unknown(id)
	}
	g.start = id
	return nil
}

// ClearStart removes the start marker.
func (g *Graph) ClearStart() {
	g.start = ""
}

// ToggleFinal marks a state final, or un-marks it if it already is.
func (g *Graph) ToggleFinal(id string) error {
	if g.indexOf(id) < 0 {
		return unknown(id)
	}
	if g.IsFinal(id) {
		g.removeFinal(id)
		return nil
	}
	g.finals = append(g.finals, id)
	return nil
}

// SetFinal marks a state final. Marking it twice has no further effect.
func (g *Graph) SetFinal(id string) error {
	if g.indexOf(id) < 0 {
		return unknown(id)
	}
	if !g.IsFinal(id) {
		g.finals = append(g.finals, id)
	}
	return nil
}

func (g *Graph) removeFinal(id string) {
	for i, f := range g.finals {
		if f == id {
			g.finals = append(g.finals[:i], g.finals[i+1:]...)
			return
		}
	}
}

// Clear empties the graph and resets id allocation.
func (g *Graph) Clear() {
	g.states = g.states[:0]
	g.transitions = g.transitions[:0]
	g.finals = g.finals[:0]
	g.start = ""
	g.next = 0
}

// State returns the state with the given id, or nil.
func (g *Graph) State(id string) *State {
	if i := g.indexOf(id); i >= 0 {
		return g.states[i]
	}
	return nil
}

func (g *Graph) indexOf(id string) int {
	for i, s := range g.states {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// States returns the states in insertion order. The slice is shared with
// the graph and must not be modified.
func (g *Graph) States() []*State {
	return g.states
}

// Transitions returns the transitions in insertion order. The slice is
// shared with the graph and must not be modified.
func (g *Graph) Transitions() []*Transition {
	return g.transitions
}

// Start returns the start state id, if one is set.
func (g *Graph) Start() (string, bool) {
	return g.start, g.start != ""
}

// Finals returns the final state ids in the order they were marked.
func (g *Graph) Finals() []string {
	out := make([]string, len(g.finals))
	copy(out, g.finals)
	return out
}

// IsFinal reports whether id is a final state.
func (g *Graph) IsFinal(id string) bool {
	for _, f := range g.finals {
		if f == id {
			return true
		}
	}
	return false
}

// IsStart reports whether id is the start state.
func (g *Graph) IsStart(id string) bool {
	return g.start != "" && g.start == id
}

// Len returns the number of states.
func (g *Graph) Len() int {
	return len(g.states)
}

// SelfLoops returns the self-loop transitions on id in insertion order.
func (g *Graph) SelfLoops(id string) []*Transition {
	var out []*Transition
	for _, t := range g.transitions {
		if t.From == id && t.To == id {
			out = append(out, t)
		}
	}
	return out
}

// FindStateAt returns the first state, in insertion order, whose circle
// contains (x, y). Overlapping states resolve to the earliest created.
func (g *Graph) FindStateAt(x, y float64) *State {
	for _, s := range g.states {
		if s.Contains(x, y) {
			return s
		}
	}
	return nil
}

// FindTransitionNear returns the first transition whose path midpoint lies
// within HitTolerance of (x, y).
func (g *Graph) FindTransitionNear(x, y float64) *Transition {
	for _, t := range g.transitions {
		from, to := g.State(t.From), g.State(t.To)
		if from == nil || to == nil {
			continue
		}
		var mid Point
		if t.IsSelfLoop() {
			mid = SelfLoop(from).Midpoint()
		} else {
			mid = EdgeCurve(from, to).Midpoint()
		}
		if math.Hypot(x-mid.X, y-mid.Y) < HitTolerance {
			return t
		}
	}
	return nil
}

// Check verifies the structural invariants and returns the first violation.
func (g *Graph) Check() error {
	seen := make(map[string]bool, len(g.states))
	for _, s := range g.states {
		if seen[s.ID] {
			return fmt.Errorf("duplicate state id %q", s.ID)
		}
		seen[s.ID] = true
	}
	for i, t := range g.transitions {
		if !seen[t.From] {
			return fmt.Errorf("transition %d: from state %q not in states", i, t.From)
		}
		if !seen[t.To] {
			return fmt.Errorf("transition %d: to state %q not in states", i, t.To)
		}
	}
	if g.start != "" && !seen[g.start] {
		return fmt.Errorf("start state %q not in states", g.start)
	}
	for _, f := range g.finals {
		if !seen[f] {
			return fmt.Errorf("final state %q not in states", f)
		}
	}
	return nil
}
