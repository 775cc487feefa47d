package flow

import (
	"fmt"
	"os"
)

// ReadFile reads a document from a JSON file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile writes a document to a JSON file.
func WriteFile(path string, doc *Document, pretty bool) error {
	data, err := ToJSON(doc, pretty)
	if err != nil {
		return err
	}
	if pretty {
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0644)
}
