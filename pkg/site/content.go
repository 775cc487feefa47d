// Package site hosts the marketing page around the flow diagrams: tooltip
// content, the preview/hosting HTTP server and the live-reload plumbing.
package site

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Fact is one label/value pair shown in a tooltip panel.
type Fact struct {
	Label string `toml:"label" json:"label"`
	Value string `toml:"value" json:"value"`
}

// Entry is the tooltip copy for one process stage. Kind narrows an entry to
// the current or proposed diagram; an empty kind matches both.
type Entry struct {
	Icon  string `toml:"icon" json:"icon"`
	Kind  string `toml:"kind,omitempty" json:"kind,omitempty"`
	Title string `toml:"title" json:"title"`
	Body  string `toml:"body" json:"body"`
	Facts []Fact `toml:"facts,omitempty" json:"facts,omitempty"`
}

type contentFile struct {
	Entries []Entry `toml:"entry"`
}

// ContentStore holds tooltip entries keyed by icon reference and kind. It
// reloads in place under a lock, so server handlers can keep a reference
// across watch-triggered reloads.
type ContentStore struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// ParseContent decodes tooltip entries from TOML.
func ParseContent(data []byte) ([]Entry, error) {
	var f contentFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse content TOML: %w", err)
	}
	for i, e := range f.Entries {
		if e.Icon == "" {
			return nil, fmt.Errorf("content entry %d: missing icon", i)
		}
	}
	return f.Entries, nil
}

// LoadContent reads tooltip entries from a TOML file.
func LoadContent(path string) (*ContentStore, error) {
	s := &ContentStore{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewContentStore wraps already-parsed entries, for tests and embedded use.
func NewContentStore(entries []Entry) *ContentStore {
	return &ContentStore{entries: entries}
}

// Reload re-reads the backing file and swaps the entries in one step.
// Stores built from literal entries have no backing file and keep them.
func (s *ContentStore) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read content %s: %w", s.path, err)
	}
	entries, err := ParseContent(data)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Lookup finds the entry for an icon and kind. An exact kind match wins;
// a kind-agnostic entry is the fallback.
func (s *ContentStore) Lookup(icon, kind string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fallback *Entry
	for i := range s.entries {
		e := &s.entries[i]
		if e.Icon != icon {
			continue
		}
		if e.Kind == kind {
			return *e, true
		}
		if e.Kind == "" && fallback == nil {
			fallback = e
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Entry{}, false
}

// Len returns the number of loaded entries.
func (s *ContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
