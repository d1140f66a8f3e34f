package codec

import (
	"encoding/json"
	"fmt"
)

// jsonDocument mirrors Document with pointers so absent fields can be told
// apart from empty ones. Start stays raw to tell an absent start from null.
type jsonDocument struct {
	States      *[]string       `json:"states"`
	Alphabet    *[]string       `json:"alphabet"`
	Transitions *[]Transition   `json:"transitions"`
	Start       json.RawMessage `json:"start"`
	Accepting   *[]string       `json:"accepting"`
}

// ParseJSON decodes a document. Malformed JSON is an error wrapping
// ErrInvalidDocument. Each missing field is reported as a warning and
// treated as empty; an explicit null start is a valid "no start".
func ParseJSON(data []byte) (Document, []Warning, error) {
	var j jsonDocument
	if err := json.Unmarshal(data, &j); err != nil {
		return Document{}, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc Document
	var warns []Warning
	if j.States != nil {
		doc.States = *j.States
	} else {
		warns = append(warns, warnf("missing states"))
	}
	if j.Transitions != nil {
		doc.Transitions = *j.Transitions
	} else {
		warns = append(warns, warnf("missing transitions"))
	}
	if j.Alphabet != nil {
		doc.Alphabet = *j.Alphabet
	} else {
		warns = append(warns, warnf("missing alphabet"))
	}
	if j.Accepting != nil {
		doc.Accepting = *j.Accepting
	} else {
		warns = append(warns, warnf("missing accepting"))
	}
	if j.Start == nil {
		warns = append(warns, warnf("missing start"))
	} else if err := json.Unmarshal(j.Start, &doc.Start); err != nil {
		return Document{}, nil, fmt.Errorf("%w: start: %v", ErrInvalidDocument, err)
	}
	doc.Normalize()
	return doc, warns, nil
}

// ToJSON encodes a document.
func ToJSON(doc Document, pretty bool) ([]byte, error) {
	doc.Normalize()
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
