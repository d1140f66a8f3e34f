package fsm

import (
	"fmt"
	"sort"
	"strings"
)

// Runner executes an FSM one symbol at a time.
// For NFAs, it tracks all possible current states simultaneously.
type Runner struct {
	fsm           *FSM
	currentStates map[string]bool
	history       []Step
}

// Step records one step of execution.
type Step struct {
	FromStates []string
	Input      string
	ToStates   []string
}

// NewRunner creates a runner for the given FSM. An automaton without an
// initial state starts with no current states and accepts nothing.
func NewRunner(f *FSM) (*Runner, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FSM: %w", err)
	}
	r := &Runner{fsm: f}
	r.Reset()
	return r, nil
}

// CurrentState returns the current state(s) as a string.
func (r *Runner) CurrentState() string {
	return formatStateSet(r.CurrentStates())
}

// CurrentStates returns the current states as a sorted slice.
func (r *Runner) CurrentStates() []string {
	states := make([]string, 0, len(r.currentStates))
	for s := range r.currentStates {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// IsAccepting returns true if any current state is accepting.
func (r *Runner) IsAccepting() bool {
	for state := range r.currentStates {
		if r.fsm.IsAccepting(state) {
			return true
		}
	}
	return false
}

// Step consumes one input symbol. A symbol outside the alphabet is an
// error; a symbol with no matching transition leaves the runner with no
// current states.
func (r *Runner) Step(input string) error {
	if r.fsm.InputIndex(input) < 0 {
		return fmt.Errorf("%w %q in input", ErrInvalidSymbol, input)
	}
	from := r.CurrentStates()

	next := make(map[string]bool)
	for state := range r.currentStates {
		for _, to := range r.fsm.Targets(state, input) {
			next[to] = true
		}
	}
	r.currentStates = next

	r.history = append(r.history, Step{
		FromStates: from,
		Input:      input,
		ToStates:   r.CurrentStates(),
	})
	return nil
}

// Run processes a sequence of inputs, stopping at the first invalid one.
func (r *Runner) Run(inputs []string) error {
	for _, input := range inputs {
		if err := r.Step(input); err != nil {
			return err
		}
	}
	return nil
}

// RunString processes a string one character at a time.
func (r *Runner) RunString(input string) error {
	for _, c := range input {
		if err := r.Step(string(c)); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the runner to the initial state.
func (r *Runner) Reset() {
	r.currentStates = make(map[string]bool)
	if r.fsm.Initial != "" {
		r.currentStates[r.fsm.Initial] = true
	}
	r.history = make([]Step, 0)
}

// History returns the execution history.
func (r *Runner) History() []Step {
	return r.history
}

// Status returns a status string for the current state.
func (r *Runner) Status() string {
	status := fmt.Sprintf("State: %s", r.CurrentState())
	if r.IsAccepting() {
		status += " [accepting]"
	}
	return status
}

func formatStateSet(states []string) string {
	if len(states) == 1 {
		return states[0]
	}
	return "{" + strings.Join(states, ", ") + "}"
}
