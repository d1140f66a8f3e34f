package fsm

import (
	"fmt"
	"sort"
)

// Minimize returns the minimal DFA for a deterministic automaton.
//
// Unreachable states are dropped, the automaton is completed with a trap
// state, indistinguishable states are found with the table-filling method
// and merged, and the trap class is removed again. Each merged state keeps
// the name of its first member in state order. States and transitions of
// the result are sorted.
func (f *FSM) Minimize() (*FSM, error) {
	if f.Classify() != TypeDFA {
		return nil, ErrNotDeterministic
	}
	if f.Initial == "" {
		return nil, ErrNoInitial
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("minimize: %w", err)
	}

	states := f.reachable()
	trap := freshName(f, "D")
	states = append(states, trap)

	delta := make(map[[2]string]string, len(states)*len(f.Alphabet))
	for _, t := range f.Transitions {
		delta[[2]string{t.From, t.Input}] = t.To
	}
	next := func(s, a string) string {
		if to, ok := delta[[2]string{s, a}]; ok {
			return to
		}
		return trap
	}

	index := make(map[string]int, len(states))
	for i, s := range states {
		index[s] = i
	}
	n := len(states)
	marked := make([][]bool, n)
	for i := range marked {
		marked[i] = make([]bool, n)
	}
	mark := func(i, j int) { marked[i][j], marked[j][i] = true, true }

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if f.IsAccepting(states[i]) != f.IsAccepting(states[j]) {
				mark(i, j)
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if marked[i][j] {
					continue
				}
				for _, a := range f.Alphabet {
					p, q := index[next(states[i], a)], index[next(states[j], a)]
					if p != q && marked[p][q] {
						mark(i, j)
						changed = true
						break
					}
				}
			}
		}
	}

	rep := make([]int, n)
	for i := range rep {
		rep[i] = i
		for j := 0; j < i; j++ {
			if !marked[i][j] {
				rep[i] = rep[j]
				break
			}
		}
	}
	dead := rep[index[trap]]
	if rep[index[f.Initial]] == dead {
		// empty language: keep the initial state alone
		dead = -1
	}
	name := func(s string) string { return states[rep[index[s]]] }

	out := New()
	out.Alphabet = append(out.Alphabet, f.Alphabet...)
	out.Initial = name(f.Initial)

	for i, s := range states {
		if rep[i] != i || i == dead {
			continue
		}
		out.States = append(out.States, s)
		if f.IsAccepting(s) {
			out.Accepting = append(out.Accepting, s)
		}
		for _, a := range f.Alphabet {
			to := index[next(s, a)]
			if dead < 0 || rep[to] == dead {
				continue
			}
			out.AddTransition(s, a, states[rep[to]])
		}
	}

	sort.Strings(out.States)
	sort.Strings(out.Accepting)
	sort.Slice(out.Transitions, func(i, j int) bool {
		a, b := out.Transitions[i], out.Transitions[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.Input != b.Input {
			return a.Input < b.Input
		}
		return a.To < b.To
	})
	return out, nil
}

// reachable returns the states reachable from the initial state, in state
// order.
func (f *FSM) reachable() []string {
	seen := map[string]bool{f.Initial: true}
	queue := []string{f.Initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range f.Transitions {
			if t.From == s && !seen[t.To] {
				seen[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, s := range f.States {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

func freshName(f *FSM, base string) string {
	name := base
	for i := 1; f.StateIndex(name) >= 0; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	return name
}
