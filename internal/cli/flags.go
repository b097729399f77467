package cli

import (
	"os"
	"path/filepath"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Mode       string
	BatchFile  string
	ListModels bool
	Archive    bool
	NoColor    bool
	NoCache    bool

	// Translation flags
	Provider   string
	SourceLang string
	TargetLang string

	// Notes flags
	NotesDir     string
	NotesBackend string

	// Logging flags
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Mode:         "meaning",
		Provider:     "google",
		SourceLang:   "en",
		TargetLang:   "vi",
		NotesDir:     DefaultNotesDir(),
		NotesBackend: "json",
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// DefaultNotesDir returns the XDG state directory used for flashcards and
// essays
func DefaultNotesDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "smartdict", "notes")
}
