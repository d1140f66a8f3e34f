package main

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-canvas/internal/config"
	"github.com/ha1tch/fsm-canvas/internal/logging"
	"github.com/ha1tch/fsm-canvas/internal/server"
	"github.com/ha1tch/fsm-canvas/pkg/client"
	"github.com/ha1tch/fsm-canvas/pkg/editor"
	"github.com/ha1tch/fsm-canvas/pkg/store"
	"github.com/ha1tch/fsm-canvas/pkg/workspace"
)

type testUI struct {
	*UI
	screen tcell.SimulationScreen
	events chan tcell.Event
}

func newTestUI(t *testing.T) *testUI {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	s.SetSize(100, 30)

	ts := httptest.NewServer(server.New())
	t.Cleanup(ts.Close)

	cfg := config.DefaultConfig()
	cfg.Store = config.StoreConfig{Type: "memory"}
	ui := newUI(s, client.New(ts.URL), store.NewMemory(), cfg, logging.NewNop())

	tu := &testUI{UI: ui, screen: s, events: make(chan tcell.Event, 16)}
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				close(tu.events)
				return
			}
			tu.events <- ev
		}
	}()
	t.Cleanup(s.Fini)
	return tu
}

// wait handles queued events until a background result has been applied.
func (tu *testUI) wait(t *testing.T) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-tu.events:
			if !ok {
				t.Fatal("screen closed")
			}
			tu.handleEvent(ev)
			if _, done := ev.(*tcell.EventInterrupt); done {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for background result")
		}
	}
}

func (tu *testUI) mouse(col, row int, b tcell.ButtonMask, m tcell.ModMask) {
	tu.handleEvent(tcell.NewEventMouse(col, row, b, m))
}

func (tu *testUI) click(col, row int, b tcell.ButtonMask, m tcell.ModMask) {
	tu.mouse(col, row, b, m)
	tu.mouse(col, row, tcell.ButtonNone, m)
}

func (tu *testUI) key(k tcell.Key, r rune) {
	tu.handleEvent(tcell.NewEventKey(k, r, tcell.ModNone))
}

func (tu *testUI) typeText(s string) {
	for _, r := range s {
		tu.key(tcell.KeyRune, r)
	}
}

func (tu *testUI) addState(col, row int) string {
	x, y := toCanvas(col, row)
	return tu.ctl.Graph().AddState(x, y).ID
}

func TestDoubleClickCreatesState(t *testing.T) {
	tu := newTestUI(t)
	now := time.Unix(1000, 0)
	tu.clock = func() time.Time { return now }

	tu.click(10, 5, tcell.Button1, tcell.ModNone)
	if n := tu.ctl.Graph().Len(); n != 0 {
		t.Fatalf("Expected single click to do nothing, got %d states", n)
	}
	now = now.Add(150 * time.Millisecond)
	tu.click(10, 5, tcell.Button1, tcell.ModNone)

	states := tu.ctl.Graph().States()
	if len(states) != 1 {
		t.Fatalf("Expected 1 state, got %d", len(states))
	}
	wantX, wantY := toCanvas(10, 5)
	if states[0].X != wantX || states[0].Y != wantY {
		t.Errorf("Expected state at (%v,%v), got (%v,%v)", wantX, wantY, states[0].X, states[0].Y)
	}
	if !tu.modified {
		t.Error("Expected canvas to be marked modified")
	}

	now = now.Add(time.Second)
	tu.click(40, 5, tcell.Button1, tcell.ModNone)
	now = now.Add(time.Second)
	tu.click(40, 5, tcell.Button1, tcell.ModNone)
	if n := tu.ctl.Graph().Len(); n != 1 {
		t.Errorf("Expected slow clicks not to create a state, got %d states", n)
	}
}

func TestRightDragThenLabel(t *testing.T) {
	tu := newTestUI(t)
	q0 := tu.addState(10, 5)
	q1 := tu.addState(30, 5)

	tu.mouse(10, 5, tcell.Button2, tcell.ModNone)
	tu.mouse(20, 5, tcell.Button2, tcell.ModNone)
	if got := tu.ctl.Mode(); got != editor.ModeDrawingTransition {
		t.Fatalf("Expected drawing mode, got %v", got)
	}
	tu.mouse(30, 5, tcell.ButtonNone, tcell.ModNone)

	if tu.mode != modeInput {
		t.Fatal("Expected label prompt to open")
	}
	if want := fmt.Sprintf("Symbol %s→%s: ", q0, q1); tu.inputPrompt != want {
		t.Errorf("Expected prompt %q, got %q", want, tu.inputPrompt)
	}

	// pointer input is ignored while the prompt is open
	tu.click(60, 20, tcell.Button1, tcell.ModNone)

	tu.typeText("xy")
	tu.key(tcell.KeyBackspace2, 0)
	tu.key(tcell.KeyEnter, 0)

	trans := tu.ctl.Graph().Transitions()
	if len(trans) != 1 {
		t.Fatalf("Expected 1 transition, got %d", len(trans))
	}
	if trans[0].From != q0 || trans[0].To != q1 || trans[0].Symbol != "x" {
		t.Errorf("Unexpected transition %+v", *trans[0])
	}
	if tu.ctl.Mode() != editor.ModeIdle {
		t.Errorf("Expected idle, got %v", tu.ctl.Mode())
	}
}

func TestEscapeCancelsLabel(t *testing.T) {
	tu := newTestUI(t)
	tu.addState(10, 5)

	tu.mouse(10, 5, tcell.Button2, tcell.ModNone)
	tu.mouse(10, 5, tcell.ButtonNone, tcell.ModNone) // self-loop
	if tu.mode != modeInput {
		t.Fatal("Expected label prompt to open")
	}
	tu.key(tcell.KeyEscape, 0)

	if tu.mode != modeCanvas {
		t.Error("Expected prompt to close")
	}
	if tu.ctl.Mode() != editor.ModeIdle {
		t.Errorf("Expected idle, got %v", tu.ctl.Mode())
	}
	if n := len(tu.ctl.Graph().Transitions()); n != 0 {
		t.Errorf("Expected no transitions, got %d", n)
	}
}

func TestDeleteKeyToggles(t *testing.T) {
	tu := newTestUI(t)
	tu.addState(10, 5)
	tu.addState(30, 5)

	tu.key(tcell.KeyDelete, 0)
	if tu.ctl.Mode() != editor.ModeDeleting {
		t.Fatalf("Expected delete mode, got %v", tu.ctl.Mode())
	}
	if tu.modeString() != "DELETE" {
		t.Errorf("Expected DELETE in status bar, got %q", tu.modeString())
	}
	tu.click(10, 5, tcell.Button1, tcell.ModNone)
	if n := tu.ctl.Graph().Len(); n != 1 {
		t.Errorf("Expected 1 state left, got %d", n)
	}

	tu.key(tcell.KeyDelete, 0)
	if tu.ctl.Mode() != editor.ModeIdle {
		t.Errorf("Expected idle after second press, got %v", tu.ctl.Mode())
	}
}

func TestModifierClicks(t *testing.T) {
	tu := newTestUI(t)
	q0 := tu.addState(10, 5)

	tu.click(10, 5, tcell.Button1, tcell.ModCtrl)
	if start, _ := tu.ctl.Graph().Start(); start != q0 {
		t.Errorf("Expected start %s, got %q", q0, start)
	}
	tu.click(10, 5, tcell.Button2, tcell.ModCtrl)
	if !tu.ctl.Graph().IsFinal(q0) {
		t.Error("Expected ctrl+right click to mark final")
	}
	tu.click(10, 5, tcell.Button2, tcell.ModCtrl)
	if tu.ctl.Graph().IsFinal(q0) {
		t.Error("Expected second ctrl+right click to unmark final")
	}
}

func TestDragMovesState(t *testing.T) {
	tu := newTestUI(t)
	tu.addState(10, 5)

	tu.mouse(10, 5, tcell.Button1, tcell.ModNone)
	tu.mouse(15, 8, tcell.Button1, tcell.ModNone)
	tu.mouse(20, 10, tcell.Button1, tcell.ModNone)
	tu.mouse(20, 10, tcell.ButtonNone, tcell.ModNone)

	st := tu.ctl.Graph().States()[0]
	wantX, wantY := toCanvas(20, 10)
	if st.X != wantX || st.Y != wantY {
		t.Errorf("Expected state at (%v,%v), got (%v,%v)", wantX, wantY, st.X, st.Y)
	}
}

func TestBackendActions(t *testing.T) {
	tu := newTestUI(t)
	q0 := tu.addState(10, 5)
	q1 := tu.addState(30, 5)
	g := tu.ctl.Graph()
	g.AddTransition(q0, q1, "a")
	g.SetStart(q0)
	g.SetFinal(q1)

	tu.key(tcell.KeyRune, 'm')
	tu.wait(t)
	if !strings.Contains(tu.message, "save first") || tu.messageType != MsgError {
		t.Errorf("Expected save-first error, got %q", tu.message)
	}

	tu.handleEvent(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	tu.wait(t)
	if tu.activeID != 1 || tu.message != "Saved as #1" {
		t.Fatalf("Expected save as #1, got id %d message %q", tu.activeID, tu.message)
	}
	if tu.modified {
		t.Error("Expected unmodified after save")
	}

	tu.key(tcell.KeyRune, 't')
	tu.wait(t)
	if tu.message != "Type: DFA" {
		t.Errorf("Expected DFA type, got %q", tu.message)
	}

	tu.key(tcell.KeyRune, 'r')
	tu.typeText("a")
	tu.key(tcell.KeyEnter, 0)
	tu.wait(t)
	if tu.message != `"a" accepted` {
		t.Errorf("Expected accepted, got %q", tu.message)
	}

	tu.key(tcell.KeyRune, 'r')
	tu.typeText("z")
	tu.key(tcell.KeyEnter, 0)
	tu.wait(t)
	if tu.messageType != MsgError {
		t.Errorf("Expected rejection error for unknown symbol, got %q", tu.message)
	}

	tu.key(tcell.KeyRune, 'm')
	tu.wait(t)
	if tu.message != "Loaded #1" {
		t.Errorf("Expected minimized automaton loaded, got %q", tu.message)
	}
	if n := tu.ctl.Graph().Len(); n != 2 {
		t.Errorf("Expected 2 states after minimize, got %d", n)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	tu := newTestUI(t)
	tu.addState(10, 5)
	tu.handleEvent(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	tu.wait(t)

	u, err := tu.ws.FetchOpen(t.Context(), tu.activeID)
	if err != nil {
		t.Fatal(err)
	}
	tu.addState(40, 10)
	tu.ws.Touch()
	if _, err := tu.ws.Apply(t.Context(), u); !errors.Is(err, workspace.ErrStale) {
		t.Errorf("Expected ErrStale, got %v", err)
	}
	if n := tu.ctl.Graph().Len(); n != 2 {
		t.Errorf("Expected edits kept, got %d states", n)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&client.RejectedError{Status: 422, Detail: "automaton is not deterministic"}, "automaton is not deterministic"},
		{fmt.Errorf("minimize: %w", client.ErrNetwork), "backend unreachable"},
		{workspace.ErrNoActive, "save first (Ctrl+S)"},
		{workspace.ErrIncompleteComparison, "select two automata with K"},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		if got := describe(tt.err); got != tt.want {
			t.Errorf("describe(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}

func TestCellSurface(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(40, 10)
	surface := newCellSurface(s, 2)

	surface.Clear()
	surface.StrokeLine(0, 6, 60, 6)
	surface.Text("q0", 63, 66)
	surface.StrokeLine(0, 9*CellHeight+6, 60, 9*CellHeight+6) // footer row

	for col := 0; col <= 10; col++ {
		if r, _, _, _ := s.GetContent(col, 0); r != '─' {
			t.Errorf("Expected '─' at (%d,0), got %q", col, r)
		}
	}
	if r, _, _, _ := s.GetContent(9, 5); r != 'q' {
		t.Errorf("Expected 'q' at (9,5), got %q", r)
	}
	if r, _, _, _ := s.GetContent(10, 5); r != '0' {
		t.Errorf("Expected '0' at (10,5), got %q", r)
	}
	if r, _, _, _ := s.GetContent(5, 9); r == '─' {
		t.Error("Expected footer rows to stay unpainted")
	}
}

func TestLineRune(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{1, 0, '─'},
		{-1, 0, '─'},
		{0, 1, '│'},
		{CellWidth, CellHeight, '╲'},
		{-CellWidth, CellHeight, '╱'},
		{0, 0, '·'},
	}
	for _, tt := range tests {
		if got := lineRune(tt.dx, tt.dy); got != tt.want {
			t.Errorf("lineRune(%v,%v): expected %q, got %q", tt.dx, tt.dy, tt.want, got)
		}
	}
}

func rowText(s tcell.SimulationScreen, row, from, n int) string {
	var b strings.Builder
	for col := from; col < from+n; col++ {
		r, _, _, _ := s.GetContent(col, row)
		b.WriteRune(r)
	}
	return b.String()
}

func TestStatusBar(t *testing.T) {
	tu := newTestUI(t)
	tu.draw()
	if got := rowText(tu.screen, 29, 1, 9); got != "[unsaved]" {
		t.Errorf("Expected [unsaved], got %q", got)
	}

	tu.activeID = 4
	tu.modified = true
	tu.key(tcell.KeyDelete, 0)
	tu.draw()
	if got := rowText(tu.screen, 29, 1, 4); got != "#4 *" {
		t.Errorf("Expected \"#4 *\", got %q", got)
	}
	if got := rowText(tu.screen, 29, 50-3, 6); got != "DELETE" {
		t.Errorf("Expected DELETE in the middle, got %q", got)
	}
}

func TestExportRemembersDirectory(t *testing.T) {
	tu := newTestUI(t)
	tu.addState(10, 5)
	start, target := t.TempDir(), t.TempDir()
	tu.cfg.LastDir = start
	tu.configPath = filepath.Join(t.TempDir(), config.FileName)

	tu.key(tcell.KeyRune, 'p')
	if want := filepath.Join(start, "automaton.svg"); tu.inputBuffer != want {
		t.Fatalf("Expected prompt to start at %q, got %q", want, tu.inputBuffer)
	}
	tu.inputBuffer = filepath.Join(target, "out.dot")
	tu.key(tcell.KeyEnter, 0)

	data, err := os.ReadFile(filepath.Join(target, "out.dot"))
	if err != nil {
		t.Fatalf("Expected exported file: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("Expected DOT output, got %q", data)
	}
	if tu.cfg.LastDir != target {
		t.Errorf("Expected last dir %q, got %q", target, tu.cfg.LastDir)
	}
	saved, err := config.Load(tu.configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved.LastDir != target {
		t.Errorf("Expected saved last dir %q, got %q", target, saved.LastDir)
	}

	tu.key(tcell.KeyRune, 'p')
	if want := filepath.Join(target, "automaton.svg"); tu.inputBuffer != want {
		t.Errorf("Expected next prompt to start at %q, got %q", want, tu.inputBuffer)
	}
}

func TestResultDuringLabelPromptDiscarded(t *testing.T) {
	tu := newTestUI(t)
	q0 := tu.addState(10, 5)
	q1 := tu.addState(30, 5)
	tu.handleEvent(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	tu.wait(t)

	u, err := tu.ws.FetchOpen(t.Context(), tu.activeID)
	if err != nil {
		t.Fatal(err)
	}

	tu.mouse(10, 5, tcell.Button2, tcell.ModNone)
	tu.mouse(30, 5, tcell.ButtonNone, tcell.ModNone)
	if tu.mode != modeInput {
		t.Fatal("Expected label prompt to open")
	}

	tu.replace("Open", func(context.Context) (workspace.Update, error) { return u, nil })
	tu.wait(t)
	if !strings.Contains(tu.message, "discarded") {
		t.Errorf("Expected discarded result, got %q", tu.message)
	}
	if tu.mode != modeInput || tu.ctl.Mode() != editor.ModePendingLabel {
		t.Fatalf("Expected label prompt to stay open, got ui %v controller %v", tu.mode, tu.ctl.Mode())
	}

	tu.typeText("x")
	tu.key(tcell.KeyEnter, 0)
	trans := tu.ctl.Graph().Transitions()
	if len(trans) != 1 || trans[0].From != q0 || trans[0].To != q1 {
		t.Errorf("Expected transition %s -x-> %s, got %d transitions", q0, q1, len(trans))
	}
}
