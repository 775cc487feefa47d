package flow

import (
	"encoding/json"
	"fmt"
)

// ParseJSON parses a document from JSON. The data may be a full document
// with a "diagrams" array or a single bare diagram; a bare diagram is
// wrapped into a one-entry document.
func ParseJSON(data []byte) (*Document, error) {
	var probe struct {
		Diagrams json.RawMessage `json:"diagrams"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse flow JSON: %w", err)
	}

	if probe.Diagrams != nil {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse flow document: %w", err)
		}
		return &doc, nil
	}

	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse flow diagram: %w", err)
	}
	return &Document{Name: d.Name, Diagrams: []Diagram{d}}, nil
}

// ToJSON converts a document to JSON. A single-diagram document carrying no
// name of its own is written back as a bare diagram, so hand-authored
// single-diagram files round-trip in their original shape.
func ToJSON(doc *Document, pretty bool) ([]byte, error) {
	var v interface{}
	if len(doc.Diagrams) == 1 && (doc.Name == "" || doc.Name == doc.Diagrams[0].Name) {
		v = &doc.Diagrams[0]
	} else {
		v = doc
	}

	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
