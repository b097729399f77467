package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// apiEntry mirrors the parts of a Merriam-Webster entry object we use
type apiEntry struct {
	Meta     apiMeta  `json:"meta"`
	Hwi      apiHwi   `json:"hwi"`
	Fl       string   `json:"fl"`
	Shortdef []string `json:"shortdef"`
}

type apiMeta struct {
	ID   string     `json:"id"`
	Syns [][]string `json:"syns"`
	Ants [][]string `json:"ants"`
}

type apiHwi struct {
	Hw string `json:"hw"`
}

// decodeResult turns a response body into a Result. The service answers
// with a JSON array that is either empty, made of strings (suggestions) or
// made of objects (entries); the first element decides which.
func decodeResult(body []byte) (*Result, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(items) == 0 {
		return &Result{Kind: KindNotFound}, nil
	}

	first := bytes.TrimSpace(items[0])
	if len(first) == 0 {
		return nil, fmt.Errorf("decode response: empty element")
	}

	switch first[0] {
	case '"':
		suggestions := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return nil, fmt.Errorf("decode suggestion: %w", err)
			}
			suggestions = append(suggestions, s)
		}
		return &Result{Kind: KindSuggestions, Suggestions: suggestions}, nil

	case '{':
		entries := make([]Entry, 0, len(items))
		for _, item := range items {
			var e apiEntry
			if err := json.Unmarshal(item, &e); err != nil {
				return nil, fmt.Errorf("decode entry: %w", err)
			}
			entries = append(entries, mapEntry(e))
		}
		return &Result{Kind: KindEntries, Entries: entries}, nil

	default:
		return nil, fmt.Errorf("decode response: unexpected element %q", first)
	}
}

func mapEntry(e apiEntry) Entry {
	return Entry{
		ID:        e.Meta.ID,
		Headword:  e.Hwi.Hw,
		Label:     e.Fl,
		ShortDefs: e.Shortdef,
		Synonyms:  e.Meta.Syns,
		Antonyms:  e.Meta.Ants,
	}
}
