// Package store persists the client-side session: documents fetched from
// or saved to the backend, the active automaton id and the ids selected
// for an equivalence comparison.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
)

// MaxComparison is the number of automata an equivalence check compares.
const MaxComparison = 2

var (
	// ErrNotFound is returned when no document is stored under an id.
	ErrNotFound = errors.New("automaton not found in store")

	// ErrTooManySelected is returned when more than MaxComparison ids are
	// selected for comparison.
	ErrTooManySelected = errors.New("too many automata selected for comparison")
)

// Store is the local persistence port. Implementations must be safe for
// concurrent use.
type Store interface {
	Put(ctx context.Context, id int, doc codec.Document) error
	Get(ctx context.Context, id int) (codec.Document, error)
	Delete(ctx context.Context, id int) error
	// IDs returns the stored ids in ascending order.
	IDs(ctx context.Context) ([]int, error)

	SetActive(ctx context.Context, id int) error
	// Active returns the active id; ok is false when none is set.
	Active(ctx context.Context) (id int, ok bool, err error)

	SetComparison(ctx context.Context, ids []int) error
	Comparison(ctx context.Context) ([]int, error)
}

func checkComparison(ids []int) error {
	if len(ids) > MaxComparison {
		return ErrTooManySelected
	}
	return nil
}

// cloneDocument copies the slices of doc so stored documents do not alias
// caller memory.
func cloneDocument(doc codec.Document) codec.Document {
	out := codec.Document{
		States:      append([]string{}, doc.States...),
		Alphabet:    append([]string{}, doc.Alphabet...),
		Transitions: append([]codec.Transition{}, doc.Transitions...),
		Accepting:   append([]string{}, doc.Accepting...),
	}
	if doc.Start != nil {
		s := *doc.Start
		out.Start = &s
	}
	return out
}

// Memory implements Store in memory.
type Memory struct {
	mu         sync.RWMutex
	docs       map[int]codec.Document
	active     int
	hasActive  bool
	comparison []int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[int]codec.Document)}
}

func (m *Memory) Put(ctx context.Context, id int, doc codec.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = cloneDocument(doc)
	return nil
}

func (m *Memory) Get(ctx context.Context, id int) (codec.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return codec.Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (m *Memory) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *Memory) IDs(ctx context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *Memory) SetActive(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active, m.hasActive = id, true
	return nil
}

func (m *Memory) Active(ctx context.Context) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, m.hasActive, nil
}

func (m *Memory) SetComparison(ctx context.Context, ids []int) error {
	if err := checkComparison(ids); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comparison = append([]int{}, ids...)
	return nil
}

func (m *Memory) Comparison(ctx context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int{}, m.comparison...), nil
}
