package graph

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestAddStateIDs(t *testing.T) {
	g := New()
	a := g.AddState(10, 10)
	b := g.AddState(100, 10)
	if a.ID != "q0" || b.ID != "q1" {
		t.Fatalf("Expected q0, q1, got %s, %s", a.ID, b.ID)
	}
	if a.Radius != DefaultRadius {
		t.Errorf("Expected radius %v, got %v", DefaultRadius, a.Radius)
	}

	if err := g.RemoveState("q0"); err != nil {
		t.Fatalf("RemoveState: %v", err)
	}
	c := g.AddState(50, 50)
	if c.ID == "q1" || c.ID == "q0" {
		t.Errorf("Deleted or live id reused: %s", c.ID)
	}
	if err := g.Check(); err != nil {
		t.Errorf("Invariant violated: %v", err)
	}
}

func TestInsertAdvancesCounter(t *testing.T) {
	g := New()
	if !g.Insert("q5", 0, 0) {
		t.Fatal("Insert q5 failed")
	}
	if g.Insert("q5", 10, 10) {
		t.Error("Duplicate insert should be refused")
	}
	if g.Insert("", 10, 10) {
		t.Error("Empty id should be refused")
	}
	if s := g.AddState(1, 1); s.ID != "q6" {
		t.Errorf("Expected q6 after importing q5, got %s", s.ID)
	}
}

func TestRemoveStateCascade(t *testing.T) {
	g := New()
	g.AddState(0, 0)   // q0
	g.AddState(100, 0) // q1
	g.AddState(200, 0) // q2
	mustAdd(t, g, "q0", "q1", "a")
	mustAdd(t, g, "q1", "q1", "b")
	mustAdd(t, g, "q2", "q1", "c")
	mustAdd(t, g, "q0", "q2", "d")
	g.SetStart("q1")
	g.ToggleFinal("q1")
	g.ToggleFinal("q2")

	if err := g.RemoveState("q1"); err != nil {
		t.Fatalf("RemoveState: %v", err)
	}

	for _, tr := range g.Transitions() {
		if tr.From == "q1" || tr.To == "q1" {
			t.Errorf("Transition %v still touches removed state", *tr)
		}
	}
	if len(g.Transitions()) != 1 {
		t.Errorf("Expected 1 surviving transition, got %d", len(g.Transitions()))
	}
	if _, ok := g.Start(); ok {
		t.Error("Start should be cleared")
	}
	if g.IsFinal("q1") || !g.IsFinal("q2") {
		t.Errorf("Unexpected finals: %v", g.Finals())
	}
	if err := g.RemoveState("q1"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("Expected ErrUnknownState on second removal, got %v", err)
	}
}

func TestAddTransitionErrors(t *testing.T) {
	g := New()
	g.AddState(0, 0)

	tests := []struct {
		name     string
		from, to string
		symbol   string
		want     error
	}{
		{"unknown target", "q0", "q9", "a", ErrUnknownState},
		{"unknown source", "q9", "q0", "a", ErrUnknownState},
		{"empty symbol", "q0", "q0", "", ErrEmptySymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := g.AddTransition(tt.from, tt.to, tt.symbol)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if tr != nil {
				t.Error("Expected no transition")
			}
			if len(g.Transitions()) != 0 {
				t.Error("Model changed after failed insert")
			}
		})
	}
}

func TestRemoveTransitionByIdentity(t *testing.T) {
	g := New()
	g.AddState(0, 0)
	g.AddState(100, 0)
	first := mustAdd(t, g, "q0", "q1", "a")
	second := mustAdd(t, g, "q0", "q1", "a")

	if len(g.Transitions()) != 2 {
		t.Fatalf("Duplicates should be kept, got %d", len(g.Transitions()))
	}
	if !g.RemoveTransition(second) {
		t.Fatal("RemoveTransition reported absent")
	}
	if got := g.Transitions(); len(got) != 1 || got[0] != first {
		t.Errorf("Wrong record removed")
	}
	if g.RemoveTransition(second) {
		t.Error("Removing twice should report false")
	}
}

func TestToggleFinal(t *testing.T) {
	g := New()
	g.AddState(0, 0)

	g.ToggleFinal("q0")
	if !g.IsFinal("q0") {
		t.Fatal("Expected q0 final")
	}
	g.ToggleFinal("q0")
	if g.IsFinal("q0") {
		t.Error("Second toggle should un-mark")
	}
	if len(g.Finals()) != 0 {
		t.Errorf("Expected no finals, got %v", g.Finals())
	}
	if err := g.ToggleFinal("nope"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("Expected ErrUnknownState, got %v", err)
	}
}

func TestStartMarker(t *testing.T) {
	g := New()
	g.AddState(0, 0)
	g.AddState(50, 0)

	g.SetStart("q0")
	g.SetStart("q1")
	if id, ok := g.Start(); !ok || id != "q1" {
		t.Errorf("Expected start q1, got %q %v", id, ok)
	}
	if !g.IsStart("q1") || g.IsStart("q0") {
		t.Error("Only one start state expected")
	}
	if err := g.SetStart("q7"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("Expected ErrUnknownState, got %v", err)
	}
	g.ClearStart()
	if _, ok := g.Start(); ok {
		t.Error("Start should be cleared")
	}
}

func TestFindStateAtEarliestWins(t *testing.T) {
	g := New()
	g.AddState(100, 100) // q0
	g.AddState(110, 100) // q1 overlaps q0

	s := g.FindStateAt(105, 100)
	if s == nil || s.ID != "q0" {
		t.Errorf("Expected q0 to win overlap, got %v", s)
	}
	if s := g.FindStateAt(125, 100); s == nil || s.ID != "q1" {
		t.Errorf("Expected q1 outside q0, got %v", s)
	}
	if s := g.FindStateAt(120, 100); s == nil || s.ID != "q1" {
		t.Errorf("Boundary of q0 is not inside it, expected q1, got %v", s)
	}
	if s := g.FindStateAt(400, 400); s != nil {
		t.Errorf("Expected miss, got %s", s.ID)
	}
}

func TestFindTransitionNear(t *testing.T) {
	g := New()
	g.AddState(0, 0)
	g.AddState(100, 0)
	g.AddState(200, 200)
	edge := mustAdd(t, g, "q0", "q1", "a")
	loop := mustAdd(t, g, "q2", "q2", "b")

	// Control point is offset to (50, -20); midpoint of the curve is (50, -10).
	if got := g.FindTransitionNear(52, -8); got != edge {
		t.Errorf("Expected edge hit, got %v", got)
	}
	// Loop top is centre y - 2*LoopRadius.
	if got := g.FindTransitionNear(200, 141); got != loop {
		t.Errorf("Expected loop hit, got %v", got)
	}
	if got := g.FindTransitionNear(50, 30); got != nil {
		t.Errorf("Expected miss, got %v", *got)
	}
}

func TestEdgeCurveGeometry(t *testing.T) {
	from := &State{ID: "a", X: 0, Y: 0, Radius: 20}
	to := &State{ID: "b", X: 100, Y: 0, Radius: 20}
	c := EdgeCurve(from, to)

	if c.Control.X != 50 || c.Control.Y != -20 {
		t.Errorf("Expected control (50, -20), got %v", c.Control)
	}
	back := EdgeCurve(to, from)
	if back.Control.Y != 20 {
		t.Errorf("Reverse edge should bow the other way, got %v", back.Control)
	}

	tip, dir := c.Arrow(to.Radius)
	if d := math.Hypot(tip.X-to.X, tip.Y-to.Y); math.Abs(d-to.Radius) > 1e-9 {
		t.Errorf("Arrow tip should sit on the target boundary, distance %v", d)
	}
	if math.Abs(math.Hypot(dir.X, dir.Y)-1) > 1e-9 {
		t.Errorf("Direction should be a unit vector, got %v", dir)
	}

	same := EdgeCurve(from, from)
	if same.Control != same.Start {
		t.Errorf("Degenerate curve should collapse onto the start")
	}
}

func TestSelfLoopGeometry(t *testing.T) {
	s := &State{ID: "a", X: 100, Y: 100, Radius: 20}
	l := SelfLoop(s)

	if l.Center.X != 100 || l.Center.Y != 70 {
		t.Errorf("Expected centre (100, 70), got %v", l.Center)
	}
	mid := l.Midpoint()
	if math.Abs(mid.X-100) > 1e-9 || math.Abs(mid.Y-40) > 1e-9 {
		t.Errorf("Expected top (100, 40), got %v", mid)
	}
	if lbl := l.Label(); lbl.Y >= mid.Y {
		t.Errorf("Label should sit above the arc, got %v", lbl)
	}
	tip, _ := l.Arrow()
	if math.Hypot(tip.X-s.X, tip.Y-s.Y) > s.Radius {
		t.Errorf("Loop should end on the state, tip at %v", tip)
	}
}

func TestClear(t *testing.T) {
	g := New()
	g.AddState(0, 0)
	g.AddState(1, 1)
	mustAdd(t, g, "q0", "q1", "a")
	g.SetStart("q0")
	g.ToggleFinal("q1")

	g.Clear()
	if g.Len() != 0 || len(g.Transitions()) != 0 || len(g.Finals()) != 0 {
		t.Errorf("Graph not empty after Clear")
	}
	if _, ok := g.Start(); ok {
		t.Error("Start survived Clear")
	}
	if s := g.AddState(0, 0); s.ID != "q0" {
		t.Errorf("Expected counter reset, got %s", s.ID)
	}
}

// TestInvariantsUnderRandomOps drives the model with a seeded random
// operation sequence and checks the structural invariants after each step.
func TestInvariantsUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	symbols := []string{"a", "b", "c", ""}
	g := New()

	pick := func() string {
		if g.Len() == 0 || rng.Intn(10) == 0 {
			return "missing"
		}
		return g.States()[rng.Intn(g.Len())].ID
	}

	for step := 0; step < 2000; step++ {
		switch rng.Intn(8) {
		case 0, 1:
			g.AddState(rng.Float64()*800, rng.Float64()*600)
		case 2:
			g.RemoveState(pick())
		case 3, 4:
			g.AddTransition(pick(), pick(), symbols[rng.Intn(len(symbols))])
		case 5:
			if trs := g.Transitions(); len(trs) > 0 {
				g.RemoveTransition(trs[rng.Intn(len(trs))])
			}
		case 6:
			g.SetStart(pick())
		case 7:
			g.ToggleFinal(pick())
		}
		if err := g.Check(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}

func mustAdd(t *testing.T, g *Graph, from, to, symbol string) *Transition {
	t.Helper()
	tr, err := g.AddTransition(from, to, symbol)
	if err != nil {
		t.Fatalf("AddTransition(%s, %s, %s): %v", from, to, symbol, err)
	}
	return tr
}
