// Package archive moves the notes directory aside under a timestamped name
// so a fresh set of flashcards and essays can be started.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveNotes moves notesDir into an "archive" directory next to it and
// returns the new location
func ArchiveNotes(notesDir string) (string, error) {
	return archiveAt(notesDir, time.Now())
}

func archiveAt(notesDir string, now time.Time) (string, error) {
	info, err := os.Stat(notesDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("notes directory does not exist: %s", notesDir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat notes directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", notesDir)
	}

	notesDir = filepath.Clean(notesDir)
	archiveDir := filepath.Join(filepath.Dir(notesDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(notesDir)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format("20060102-150405")))
	if _, err := os.Stat(archivePath); err == nil {
		// Same second as an earlier archive
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format("20060102-150405.000000")))
	}

	if err := os.Rename(notesDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive notes directory: %w", err)
	}
	return archivePath, nil
}
