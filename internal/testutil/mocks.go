package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/smartdict/internal/dictionary"
)

// MockDictionary mocks the dictionary and thesaurus service
type MockDictionary struct {
	mu sync.Mutex

	Results map[string]*dictionary.Result
	Errors  map[string]error
	Calls   []string

	// Block, if set, is waited on before every lookup returns so tests can
	// hold a lookup in flight
	Block chan struct{}
}

// NewMockDictionary creates an empty mock dictionary
func NewMockDictionary() *MockDictionary {
	return &MockDictionary{
		Results: make(map[string]*dictionary.Result),
		Errors:  make(map[string]error),
	}
}

// AddEntries registers an entries result for term
func (m *MockDictionary) AddEntries(term string, entries ...dictionary.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[term] = &dictionary.Result{Kind: dictionary.KindEntries, Entries: entries}
}

// AddSuggestions registers a suggestions result for term
func (m *MockDictionary) AddSuggestions(term string, suggestions ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[term] = &dictionary.Result{Kind: dictionary.KindSuggestions, Suggestions: suggestions}
}

// Define mocks a collegiate dictionary lookup
func (m *MockDictionary) Define(ctx context.Context, term string) (*dictionary.Result, error) {
	return m.lookup(ctx, "Define", term)
}

// Thesaurus mocks a thesaurus lookup
func (m *MockDictionary) Thesaurus(ctx context.Context, term string) (*dictionary.Result, error) {
	return m.lookup(ctx, "Thesaurus", term)
}

func (m *MockDictionary) lookup(ctx context.Context, op, term string) (*dictionary.Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("%s: %s", op, term))
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[term]; ok {
		return nil, err
	}
	if result, ok := m.Results[term]; ok {
		return result, nil
	}
	return &dictionary.Result{Kind: dictionary.KindNotFound}, nil
}

// CallCount returns the number of lookups made so far
func (m *MockDictionary) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranslator mocks the never-failing translator
type MockTranslator struct {
	mu sync.Mutex

	Translations map[string]string
	Calls        []string
}

// NewMockTranslator creates a translator answering from translations.
// Unknown text is returned unchanged.
func NewMockTranslator(translations map[string]string) *MockTranslator {
	if translations == nil {
		translations = make(map[string]string)
	}
	return &MockTranslator{Translations: translations}
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang))
	if translation, ok := m.Translations[text]; ok {
		return translation
	}
	return text
}

// CallCount returns the number of translations made so far
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
