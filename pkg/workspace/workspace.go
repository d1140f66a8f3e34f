// Package workspace ties the editor to the backend and the local store.
//
// Operations that replace the canvas are split in two. The Fetch half talks
// to the backend and may run on any goroutine; it never touches the model.
// Apply installs the result and must run on the UI event loop. Every Fetch
// and every Touch advances a generation counter, and Apply refuses an
// Update whose generation is no longer the latest.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
	"github.com/ha1tch/fsm-canvas/pkg/editor"
	"github.com/ha1tch/fsm-canvas/pkg/fsm"
	"github.com/ha1tch/fsm-canvas/pkg/store"
)

var (
	// ErrStale is returned by Apply for an Update overtaken by a newer
	// request or a local edit.
	ErrStale = errors.New("stale update")

	// ErrNoActive is returned by operations that need a saved automaton.
	ErrNoActive = errors.New("no active automaton; save first")

	// ErrIncompleteComparison is returned by Compare when fewer than two
	// automata are selected.
	ErrIncompleteComparison = errors.New("select two automata to compare")
)

// Backend is the set of remote operations the workspace uses.
// *client.Client satisfies it.
type Backend interface {
	Create(ctx context.Context, doc codec.Document) (int, error)
	Read(ctx context.Context, id int) (codec.Document, error)
	Recognize(ctx context.Context, id int, input string) (bool, error)
	Convert(ctx context.Context, id int) (int, error)
	Minimize(ctx context.Context, id int) (codec.Document, error)
	Type(ctx context.Context, id int) (fsm.Type, error)
	Equivalent(ctx context.Context, a, b int) (bool, error)
}

// Update is a fetched document waiting to replace the canvas.
type Update struct {
	Gen uint64
	Op  string
	ID  int
	Doc codec.Document
}

// Workspace is the application state around one editor.
type Workspace struct {
	ctl     *editor.Controller
	backend Backend
	store   store.Store
	log     *slog.Logger

	gen atomic.Uint64
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a workspace. A nil store keeps the session in memory.
func New(ctl *editor.Controller, b Backend, s store.Store, opts ...Option) *Workspace {
	if s == nil {
		s = store.NewMemory()
	}
	w := &Workspace{
		ctl:     ctl,
		backend: b,
		store:   s,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Controller returns the editor.
func (w *Workspace) Controller() *editor.Controller { return w.ctl }

// Store returns the local store.
func (w *Workspace) Store() store.Store { return w.store }

// Touch invalidates every in-flight Fetch. Call it when the user edits the
// canvas.
func (w *Workspace) Touch() {
	w.gen.Add(1)
}

func (w *Workspace) begin() uint64 {
	return w.gen.Add(1)
}

// Snapshot exports the canvas. Event loop only.
func (w *Workspace) Snapshot() codec.Document {
	return codec.Export(w.ctl.Graph())
}

// Active returns the id of the automaton the canvas was last saved as or
// loaded from.
func (w *Workspace) Active(ctx context.Context) (int, error) {
	id, ok, err := w.store.Active(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNoActive
	}
	return id, nil
}

// Save exports the canvas and saves it. Event loop only; see SaveDocument.
func (w *Workspace) Save(ctx context.Context) (int, error) {
	return w.SaveDocument(ctx, w.Snapshot())
}

// SaveDocument creates doc on the backend, reads it back, stores the
// backend's copy locally and makes it active. Updates fetched before the
// save become stale.
func (w *Workspace) SaveDocument(ctx context.Context, doc codec.Document) (int, error) {
	w.begin()
	id, err := w.backend.Create(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	saved, err := w.backend.Read(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("save: read back %d: %w", id, err)
	}
	if err := w.store.Put(ctx, id, saved); err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	if err := w.store.SetActive(ctx, id); err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	w.log.Info("automaton saved", "id", id, "states", len(saved.States))
	return id, nil
}

// FetchOpen reads id from the backend.
func (w *Workspace) FetchOpen(ctx context.Context, id int) (Update, error) {
	gen := w.begin()
	doc, err := w.backend.Read(ctx, id)
	if err != nil {
		return Update{}, fmt.Errorf("open %d: %w", id, err)
	}
	return Update{Gen: gen, Op: "open", ID: id, Doc: doc}, nil
}

// FetchMinimize asks the backend to minimize the active automaton. The
// result replaces it under the same id.
func (w *Workspace) FetchMinimize(ctx context.Context) (Update, error) {
	gen := w.begin()
	id, err := w.Active(ctx)
	if err != nil {
		return Update{}, err
	}
	doc, err := w.backend.Minimize(ctx, id)
	if err != nil {
		return Update{}, fmt.Errorf("minimize %d: %w", id, err)
	}
	return Update{Gen: gen, Op: "minimize", ID: id, Doc: doc}, nil
}

// FetchConvert converts the active automaton to a DFA. The DFA becomes the
// active automaton once applied.
func (w *Workspace) FetchConvert(ctx context.Context) (Update, error) {
	gen := w.begin()
	id, err := w.Active(ctx)
	if err != nil {
		return Update{}, err
	}
	dfaID, err := w.backend.Convert(ctx, id)
	if err != nil {
		return Update{}, fmt.Errorf("convert %d: %w", id, err)
	}
	doc, err := w.backend.Read(ctx, dfaID)
	if err != nil {
		return Update{}, fmt.Errorf("convert %d: read %d: %w", id, dfaID, err)
	}
	return Update{Gen: gen, Op: "convert", ID: dfaID, Doc: doc}, nil
}

// Apply loads u into the editor, stores it and makes it active. Event loop
// only. Items the document cannot express are dropped and returned as
// warnings.
func (w *Workspace) Apply(ctx context.Context, u Update) ([]codec.Warning, error) {
	if latest := w.gen.Load(); u.Gen != latest {
		w.log.Debug("discarding stale update", "op", u.Op, "gen", u.Gen, "latest", latest)
		return nil, ErrStale
	}
	g, warns := codec.Import(u.Doc)
	for _, warn := range warns {
		w.log.Warn("import", "op", u.Op, "id", u.ID, "warning", warn.Msg)
	}
	w.ctl.Load(g)
	if err := w.store.Put(ctx, u.ID, u.Doc); err != nil {
		return warns, fmt.Errorf("%s: %w", u.Op, err)
	}
	if err := w.store.SetActive(ctx, u.ID); err != nil {
		return warns, fmt.Errorf("%s: %w", u.Op, err)
	}
	return warns, nil
}

// Open fetches and applies id.
func (w *Workspace) Open(ctx context.Context, id int) ([]codec.Warning, error) {
	u, err := w.FetchOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.Apply(ctx, u)
}

// Minimize fetches and applies the minimal DFA of the active automaton.
func (w *Workspace) Minimize(ctx context.Context) ([]codec.Warning, error) {
	u, err := w.FetchMinimize(ctx)
	if err != nil {
		return nil, err
	}
	return w.Apply(ctx, u)
}

// Convert fetches and applies the DFA of the active automaton.
func (w *Workspace) Convert(ctx context.Context) ([]codec.Warning, error) {
	u, err := w.FetchConvert(ctx)
	if err != nil {
		return nil, err
	}
	return w.Apply(ctx, u)
}

// Recognize runs input through the active automaton.
func (w *Workspace) Recognize(ctx context.Context, input string) (bool, error) {
	id, err := w.Active(ctx)
	if err != nil {
		return false, err
	}
	ok, err := w.backend.Recognize(ctx, id, input)
	if err != nil {
		return false, fmt.Errorf("recognize: %w", err)
	}
	return ok, nil
}

// Type reports whether the active automaton is deterministic.
func (w *Workspace) Type(ctx context.Context) (fsm.Type, error) {
	id, err := w.Active(ctx)
	if err != nil {
		return "", err
	}
	t, err := w.backend.Type(ctx, id)
	if err != nil {
		return "", fmt.Errorf("type: %w", err)
	}
	return t, nil
}

// ToggleComparison adds id to the comparison selection, or removes it if
// already selected. Selecting a third id drops the oldest.
func (w *Workspace) ToggleComparison(ctx context.Context, id int) ([]int, error) {
	cur, err := w.store.Comparison(ctx)
	if err != nil {
		return nil, err
	}
	next := make([]int, 0, store.MaxComparison)
	removed := false
	for _, c := range cur {
		if c == id {
			removed = true
			continue
		}
		next = append(next, c)
	}
	if !removed {
		next = append(next, id)
		if len(next) > store.MaxComparison {
			next = next[len(next)-store.MaxComparison:]
		}
	}
	if err := w.store.SetComparison(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Compare checks the two selected automata for equivalence.
func (w *Workspace) Compare(ctx context.Context) (bool, error) {
	sel, err := w.store.Comparison(ctx)
	if err != nil {
		return false, err
	}
	if len(sel) != store.MaxComparison {
		return false, ErrIncompleteComparison
	}
	eq, err := w.backend.Equivalent(ctx, sel[0], sel[1])
	if err != nil {
		return false, fmt.Errorf("compare %d and %d: %w", sel[0], sel[1], err)
	}
	return eq, nil
}
