package fsm

import (
	"sort"
	"strconv"
	"strings"
)

// ToDFA converts the automaton to an equivalent DFA using the powerset
// construction from the initial state. Only reachable subsets become
// states; they are named q0, q1, ... in discovery order. Missing moves stay
// missing, so the result may be partial.
func (f *FSM) ToDFA() *FSM {
	dfa := New()
	dfa.Alphabet = append(dfa.Alphabet, f.Alphabet...)
	if f.Initial == "" {
		return dfa
	}

	key := func(set map[string]bool) string {
		list := make([]string, 0, len(set))
		for s := range set {
			list = append(list, s)
		}
		sort.Strings(list)
		return strings.Join(list, "\x00")
	}

	names := make(map[string]string)
	var queue []map[string]bool

	visit := func(set map[string]bool) string {
		k := key(set)
		if name, ok := names[k]; ok {
			return name
		}
		name := "q" + strconv.Itoa(len(names))
		names[k] = name
		dfa.States = append(dfa.States, name)
		for s := range set {
			if f.IsAccepting(s) {
				dfa.Accepting = append(dfa.Accepting, name)
				break
			}
		}
		queue = append(queue, set)
		return name
	}

	dfa.Initial = visit(map[string]bool{f.Initial: true})

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		from := names[key(current)]

		for _, input := range f.Alphabet {
			target := make(map[string]bool)
			for state := range current {
				for _, to := range f.Targets(state, input) {
					target[to] = true
				}
			}
			if len(target) == 0 {
				continue
			}
			dfa.AddTransition(from, input, visit(target))
		}
	}

	return dfa
}
