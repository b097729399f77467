package dictionary

import "strings"

// Kind discriminates the three response shapes of the dictionary service
type Kind int

const (
	// KindNotFound is an empty response
	KindNotFound Kind = iota
	// KindSuggestions is a list of spelling suggestions
	KindSuggestions
	// KindEntries is a list of structured entries
	KindEntries
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindSuggestions:
		return "suggestions"
	case KindEntries:
		return "entries"
	default:
		return "unknown"
	}
}

// Entry is one headword record returned by the service
type Entry struct {
	ID        string     // meta.id, e.g. "run:1" or "give up"
	Headword  string     // hwi.hw
	Label     string     // fl, the functional label ("verb", "noun", ...)
	ShortDefs []string   // shortdef
	Synonyms  [][]string // meta.syns (thesaurus only)
	Antonyms  [][]string // meta.ants (thesaurus only)
}

// IsPhrase reports whether the entry is a multi-word phrase such as a
// phrasal verb. The service marks those with a space in the identifier.
func (e Entry) IsPhrase() bool {
	return strings.Contains(e.ID, " ")
}

// Result is the decoded response of a lookup. Exactly one of Suggestions
// and Entries is populated depending on Kind.
type Result struct {
	Kind        Kind
	Suggestions []string
	Entries     []Entry
}

// FilterPhrasal returns the entries that are multi-word phrases, keeping
// their order
func FilterPhrasal(entries []Entry) []Entry {
	var phrases []Entry
	for _, e := range entries {
		if e.IsPhrase() {
			phrases = append(phrases, e)
		}
	}
	return phrases
}
