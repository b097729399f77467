package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSONStore keeps notes in a single JSON object on disk
type JSONStore struct {
	path  string
	mu    sync.RWMutex
	notes map[string]string
}

// OpenJSON loads the store at path. A missing file is an empty store.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{
		path:  path,
		notes: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.notes); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.notes == nil {
		s.notes = make(map[string]string)
	}
	return s, nil
}

// Path returns the backing file
func (s *JSONStore) Path() string {
	return s.path
}

// Put creates or replaces a note
func (s *JSONStore) Put(name, content string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.notes[name]
	s.notes[name] = content
	if err := s.saveLocked(); err != nil {
		if existed {
			s.notes[name] = prev
		} else {
			delete(s.notes, name)
		}
		return err
	}
	return nil
}

// Get returns a note
func (s *JSONStore) Get(name string) (string, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.notes[name]
	return content, ok, nil
}

// Delete removes a note
func (s *JSONStore) Delete(name string) (bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.notes[name]
	if !ok {
		return false, nil
	}
	delete(s.notes, name)
	if err := s.saveLocked(); err != nil {
		s.notes[name] = prev
		return false, err
	}
	return true, nil
}

// Names returns the sorted note names
func (s *JSONStore) Names() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.notes))
	for name := range s.notes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// All returns a copy of every note
func (s *JSONStore) All() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string]string, len(s.notes))
	for k, v := range s.notes {
		all[k] = v
	}
	return all, nil
}

// Close is a no-op; every mutation is already on disk
func (s *JSONStore) Close() error {
	return nil
}

// saveLocked rewrites the whole file through a temporary file and rename
func (s *JSONStore) saveLocked() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.notes); err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens 0600; keep the mode of the file being replaced
	mode := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set notes file mode: %w", err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write notes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return nil
}
