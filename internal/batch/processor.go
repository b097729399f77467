// Package batch reads files of lookup queries for headless processing.
package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/smartdict/internal/lookup"
)

// Query is one line of a batch file
type Query struct {
	Mode lookup.Mode
	Word string
}

// ReadBatchFile reads queries from a file, one per line.
// Supports formats:
// - Word or phrase only: "run" (looked up in defaultMode)
// - With view prefix: "synonyms: happy", "phrasal: give up"
// - Comments: lines starting with "#" are ignored
func ReadBatchFile(filename string, defaultMode lookup.Mode) ([]Query, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var queries []Query
	for _, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		q := Query{Mode: defaultMode, Word: line}
		if prefix, rest, ok := strings.Cut(line, ":"); ok {
			// Only a known view name counts as a prefix, so "re:act" stays a word
			if mode, err := lookup.ParseMode(prefix); err == nil && strings.TrimSpace(prefix) != "" {
				q = Query{Mode: mode, Word: strings.TrimSpace(rest)}
			}
		}
		if q.Word == "" {
			continue
		}
		queries = append(queries, q)
	}

	return queries, nil
}

// splitLines splits a string by newlines
func splitLines(s string) []string {
	var lines []string
	current := ""
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
