package lookup

import (
	"fmt"
	"strings"
)

// Mode selects which view a lookup renders
type Mode int

const (
	// ModeMeaning shows dictionary definitions with translations
	ModeMeaning Mode = iota
	// ModeSynonyms shows thesaurus synonyms and antonyms
	ModeSynonyms
	// ModePhrasal shows only multi-word entries with translations
	ModePhrasal
)

func (m Mode) String() string {
	switch m {
	case ModeMeaning:
		return "meaning"
	case ModeSynonyms:
		return "synonyms"
	case ModePhrasal:
		return "phrasal"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name as used on the command line
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "meaning", "define", "m":
		return ModeMeaning, nil
	case "synonyms", "synonym", "thesaurus", "s":
		return ModeSynonyms, nil
	case "phrasal", "phrase", "p":
		return ModePhrasal, nil
	default:
		return 0, fmt.Errorf("unknown lookup mode: %q (use meaning, synonyms or phrasal)", s)
	}
}
