package fsm

// Equivalent reports whether a and b accept the same language. Both are
// determinised, then the product automaton is explored breadth-first over
// the union of their alphabets; a missing move goes to an implicit dead
// state on that side.
func Equivalent(a, b *FSM) bool {
	da, db := a.ToDFA(), b.ToDFA()

	alphabet := append([]string{}, da.Alphabet...)
	for _, s := range db.Alphabet {
		if da.InputIndex(s) < 0 {
			alphabet = append(alphabet, s)
		}
	}

	step := func(f *FSM, state, input string) string {
		if state == "" {
			return ""
		}
		if to := f.Targets(state, input); len(to) > 0 {
			return to[0]
		}
		return ""
	}
	accepts := func(f *FSM, state string) bool {
		return state != "" && f.IsAccepting(state)
	}

	type pair struct{ a, b string }
	start := pair{da.Initial, db.Initial}
	seen := map[pair]bool{start: true}
	queue := []pair{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if accepts(da, p.a) != accepts(db, p.b) {
			return false
		}
		if p.a == "" && p.b == "" {
			continue
		}
		for _, s := range alphabet {
			q := pair{step(da, p.a, s), step(db, p.b, s)}
			if !seen[q] {
				seen[q] = true
				queue = append(queue, q)
			}
		}
	}
	return true
}
