// Package codec converts between the editable graph and the document
// exchanged with the backend.
//
// A Document carries no positions. Import lays states out on a fixed grid
// and drops whatever it cannot resolve, reporting each dropped item as a
// Warning instead of failing the whole import.
package codec

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument is matched by every Warning and by ParseJSON failures.
var ErrInvalidDocument = errors.New("invalid document")

// Transition is one edge of a Document.
type Transition struct {
	From   string `json:"from"`
	Symbol string `json:"symbol"`
	To     string `json:"to"`
}

// Document is the position-free automaton exchanged with the backend.
// Start is nil when no start state is set and encodes as JSON null.
type Document struct {
	States      []string     `json:"states"`
	Alphabet    []string     `json:"alphabet"`
	Transitions []Transition `json:"transitions"`
	Start       *string      `json:"start"`
	Accepting   []string     `json:"accepting"`
}

// Normalize replaces nil slices with empty ones so the document encodes
// with [] rather than null.
func (d *Document) Normalize() {
	if d.States == nil {
		d.States = []string{}
	}
	if d.Alphabet == nil {
		d.Alphabet = []string{}
	}
	if d.Transitions == nil {
		d.Transitions = []Transition{}
	}
	if d.Accepting == nil {
		d.Accepting = []string{}
	}
}

// StartID returns the start state id, or "" when none is set.
func (d Document) StartID() string {
	if d.Start == nil {
		return ""
	}
	return *d.Start
}

// Warning describes one item dropped while reading a document.
type Warning struct {
	Msg string
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, w.Msg)
}

func (w Warning) Unwrap() error {
	return ErrInvalidDocument
}

func warnf(format string, args ...any) Warning {
	return Warning{Msg: fmt.Sprintf(format, args...)}
}

func strPtr(s string) *string {
	return &s
}
