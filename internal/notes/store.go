package notes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind names one collection of notes
type Kind string

const (
	KindEssays     Kind = "essays"
	KindFlashcards Kind = "flashcards"
)

// Backends accepted by Open
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrEmptyName is returned for blank note names
var ErrEmptyName = errors.New("note name is empty")

// Store is a persistent name to text map
type Store interface {
	// Put creates or replaces the note called name
	Put(name, content string) error
	// Get returns the note called name and whether it exists
	Get(name string) (string, bool, error)
	// Delete removes the note called name. Deleting a missing note is not
	// an error; the result reports whether anything was removed.
	Delete(name string) (bool, error)
	// Names returns all note names in sorted order
	Names() ([]string, error)
	// All returns a copy of every note
	All() (map[string]string, error)
	Close() error
}

// ParseKind converts a collection name as used on the command line
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "essay", "essays":
		return KindEssays, nil
	case "card", "cards", "flashcard", "flashcards":
		return KindFlashcards, nil
	default:
		return "", fmt.Errorf("unknown notes kind: %q", s)
	}
}

// Open opens the kind collection in dir with the given backend. The JSON
// backend uses one file per kind, the SQLite backend one database for all.
func Open(backend, dir string, kind Kind) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}

	switch strings.ToLower(backend) {
	case "", BackendJSON:
		return OpenJSON(filepath.Join(dir, string(kind)+".json"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "notes.db"), kind)
	default:
		return nil, fmt.Errorf("unknown notes backend: %s", backend)
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
