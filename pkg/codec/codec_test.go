package codec

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/ha1tch/fsm-canvas/pkg/graph"
)

func twoStates(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddState(100, 100)
	g.AddState(250, 100)
	if _, err := g.AddTransition("q0", "q1", "x"); err != nil {
		t.Fatal(err)
	}
	g.SetStart("q0")
	g.ToggleFinal("q1")
	return g
}

func TestExportScenario(t *testing.T) {
	g := twoStates(t)

	data, err := ToJSON(Export(g), false)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	want := `{"states":["q0","q1"],"alphabet":["x"],"transitions":[{"from":"q0","symbol":"x","to":"q1"}],"start":"q0","accepting":["q1"]}`
	if string(data) != want {
		t.Errorf("Export mismatch\n got: %s\nwant: %s", data, want)
	}

	if err := g.RemoveState("q0"); err != nil {
		t.Fatal(err)
	}
	data, err = ToJSON(Export(g), false)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	want = `{"states":["q1"],"alphabet":[],"transitions":[],"start":null,"accepting":["q1"]}`
	if string(data) != want {
		t.Errorf("Export after delete mismatch\n got: %s\nwant: %s", data, want)
	}
}

func TestExportEmptyGraph(t *testing.T) {
	data, err := ToJSON(Export(graph.New()), false)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"states":[],"alphabet":[],"transitions":[],"start":null,"accepting":[]}`
	if string(data) != want {
		t.Errorf("got %s", data)
	}
}

func TestExportAlphabetFirstSeen(t *testing.T) {
	g := graph.New()
	g.AddState(0, 0)
	g.AddState(100, 0)
	g.AddTransition("q0", "q1", "b")
	g.AddTransition("q1", "q0", "a")
	g.AddTransition("q0", "q0", "b")

	doc := Export(g)
	if !reflect.DeepEqual(doc.Alphabet, []string{"b", "a"}) {
		t.Errorf("Expected [b a], got %v", doc.Alphabet)
	}
}

func TestRoundTrip(t *testing.T) {
	g := graph.New()
	for i := 0; i < 7; i++ {
		g.AddState(float64(i*30), float64(i*10))
	}
	g.RemoveState("q2")
	g.AddTransition("q0", "q1", "a")
	g.AddTransition("q0", "q1", "a")
	g.AddTransition("q3", "q3", "b")
	g.AddTransition("q6", "q0", "c")
	g.SetStart("q3")
	g.ToggleFinal("q6")
	g.ToggleFinal("q1")

	back, warns := Import(Export(g))
	if len(warns) != 0 {
		t.Fatalf("Unexpected warnings: %v", warns)
	}
	if err := back.Check(); err != nil {
		t.Fatalf("Imported graph invalid: %v", err)
	}

	ids := func(g *graph.Graph) []string {
		var out []string
		for _, s := range g.States() {
			out = append(out, s.ID)
		}
		return out
	}
	triples := func(g *graph.Graph) []string {
		var out []string
		for _, t := range g.Transitions() {
			out = append(out, t.From+"|"+t.Symbol+"|"+t.To)
		}
		sort.Strings(out)
		return out
	}

	if !reflect.DeepEqual(ids(g), ids(back)) {
		t.Errorf("State ids differ: %v vs %v", ids(g), ids(back))
	}
	if !reflect.DeepEqual(triples(g), triples(back)) {
		t.Errorf("Transitions differ: %v vs %v", triples(g), triples(back))
	}
	if s, _ := back.Start(); s != "q3" {
		t.Errorf("Expected start q3, got %q", s)
	}
	if !reflect.DeepEqual(back.Finals(), g.Finals()) {
		t.Errorf("Finals differ: %v vs %v", back.Finals(), g.Finals())
	}

	// a fresh state must not collide with imported ids
	if s := back.AddState(0, 0); back.Check() != nil || s.ID == "q6" {
		t.Errorf("Fresh id %s collides after import", s.ID)
	}
}

func TestImportLayout(t *testing.T) {
	doc := Document{States: []string{"a", "b", "c", "d", "e", "f"}}
	g, _ := Import(doc)

	tests := []struct {
		id   string
		x, y float64
	}{
		{"a", 80, 80},
		{"b", 200, 80},
		{"e", 560, 80},
		{"f", 80, 200},
	}
	for _, tt := range tests {
		s := g.State(tt.id)
		if s == nil || s.X != tt.x || s.Y != tt.y {
			t.Errorf("%s: expected (%v, %v), got %+v", tt.id, tt.x, tt.y, s)
		}
	}
}

func TestImportLayoutByIndex(t *testing.T) {
	g, warns := Import(Document{States: []string{"a", "a", "b"}})
	if len(warns) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warns)
	}
	wantX, wantY := LayoutPosition(2)
	if s := g.State("b"); s == nil || s.X != wantX || s.Y != wantY {
		t.Errorf("Expected b at (%v, %v), got %+v", wantX, wantY, s)
	}
}

func TestImportWarnings(t *testing.T) {
	ghost := "ghost"
	doc := Document{
		States: []string{"q0", "q1", "q0", ""},
		Transitions: []Transition{
			{From: "q0", Symbol: "a", To: "q1"},
			{From: "q0", Symbol: "a", To: "q9"},
			{From: "q1", Symbol: "", To: "q0"},
		},
		Start:     &ghost,
		Accepting: []string{"q1", "nope"},
	}

	g, warns := Import(doc)
	if len(warns) != 6 {
		t.Fatalf("Expected 6 warnings, got %d: %v", len(warns), warns)
	}
	for _, w := range warns {
		if !errors.Is(w, ErrInvalidDocument) {
			t.Errorf("Warning %v does not match ErrInvalidDocument", w)
		}
	}
	if g.Len() != 2 || len(g.Transitions()) != 1 {
		t.Errorf("Expected 2 states and 1 transition, got %d and %d", g.Len(), len(g.Transitions()))
	}
	if _, ok := g.Start(); ok {
		t.Error("Unknown start should be ignored")
	}
	if f := g.Finals(); len(f) != 1 || f[0] != "q1" {
		t.Errorf("Expected finals [q1], got %v", f)
	}
	if err := g.Check(); err != nil {
		t.Errorf("Imported graph invalid: %v", err)
	}
}

func TestParseJSON(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, _, err := ParseJSON([]byte(`{"states": [`))
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("Expected ErrInvalidDocument, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		tests := []struct {
			name  string
			in    string
			warns []string
		}{
			{"null start", `{"start": null}`, []string{"missing states", "missing transitions", "missing alphabet", "missing accepting"}},
			{"empty object", `{}`, []string{"missing states", "missing transitions", "missing alphabet", "missing accepting", "missing start"}},
			{"only start absent", `{"states":[],"alphabet":[],"transitions":[],"accepting":[]}`, []string{"missing start"}},
		}
		for _, tt := range tests {
			doc, warns, err := ParseJSON([]byte(tt.in))
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if len(warns) != len(tt.warns) {
				t.Fatalf("%s: expected warnings %v, got %v", tt.name, tt.warns, warns)
			}
			for i, w := range warns {
				if w.Msg != tt.warns[i] || !errors.Is(w, ErrInvalidDocument) {
					t.Errorf("%s: expected warning %q, got %v", tt.name, tt.warns[i], w)
				}
			}
			if doc.States == nil || doc.Transitions == nil || doc.Start != nil {
				t.Errorf("%s: expected empty normalized document, got %+v", tt.name, doc)
			}
		}
	})

	t.Run("bad start", func(t *testing.T) {
		_, _, err := ParseJSON([]byte(`{"states":[],"transitions":[],"start":7}`))
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("Expected ErrInvalidDocument, got %v", err)
		}
	})

	t.Run("complete", func(t *testing.T) {
		in := `{"states":["q0"],"alphabet":["a"],"transitions":[{"from":"q0","symbol":"a","to":"q0"}],"start":"q0","accepting":[]}`
		doc, warns, err := ParseJSON([]byte(in))
		if err != nil || len(warns) != 0 {
			t.Fatalf("ParseJSON: %v %v", err, warns)
		}
		if doc.StartID() != "q0" || len(doc.Transitions) != 1 {
			t.Errorf("Unexpected document %+v", doc)
		}
		out, err := ToJSON(doc, false)
		if err != nil || string(out) != in {
			t.Errorf("Re-encode mismatch: %s", out)
		}
	})
}

func TestFSMBridge(t *testing.T) {
	doc := Export(twoStates(t))
	f := ToFSM(doc)

	if f.Initial != "q0" || !f.IsAccepting("q1") {
		t.Errorf("Unexpected FSM %v", f)
	}
	ok, err := f.Accepts("x")
	if err != nil || !ok {
		t.Errorf("Expected x accepted, got %v %v", ok, err)
	}

	back := FromFSM(f)
	if !reflect.DeepEqual(back, doc) {
		t.Errorf("Bridge round trip mismatch\n got: %+v\nwant: %+v", back, doc)
	}

	f.SetInitial("")
	if FromFSM(f).Start != nil {
		t.Error("Missing initial should map to a nil start")
	}
}
