package notes

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// InitDB creates the notes schema on db
func InitDB(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate notes schema: %w", err)
		}
	}
	return nil
}

// SQLiteStore keeps one kind of notes in a SQLite table shared by all kinds
type SQLiteStore struct {
	db     *sql.DB
	kind   Kind
	ownsDB bool
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string, kind Kind) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, kind: kind, ownsDB: true}, nil
}

// NewSQLiteStore uses an already migrated db. Close leaves db open.
func NewSQLiteStore(db *sql.DB, kind Kind) *SQLiteStore {
	return &SQLiteStore{db: db, kind: kind}
}

// Put creates or replaces a note
func (s *SQLiteStore) Put(name, content string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT INTO notes (kind, name, content) VALUES (?, ?, ?)
		ON CONFLICT(kind, name) DO UPDATE SET
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP`,
		string(s.kind), name, content)
	if err != nil {
		return fmt.Errorf("failed to save note %q: %w", name, err)
	}
	return nil
}

// Get returns a note
func (s *SQLiteStore) Get(name string) (string, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", false, err
	}

	var content string
	err = s.db.QueryRow(`SELECT content FROM notes WHERE kind = ? AND name = ?`, string(s.kind), name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read note %q: %w", name, err)
	}
	return content, true, nil
}

// Delete removes a note
func (s *SQLiteStore) Delete(name string) (bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return false, err
	}

	res, err := s.db.Exec(`DELETE FROM notes WHERE kind = ? AND name = ?`, string(s.kind), name)
	if err != nil {
		return false, fmt.Errorf("failed to delete note %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Names returns the sorted note names
func (s *SQLiteStore) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM notes WHERE kind = ? ORDER BY name`, string(s.kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// All returns a copy of every note
func (s *SQLiteStore) All() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT name, content FROM notes WHERE kind = ?`, string(s.kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	all := make(map[string]string)
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return nil, err
		}
		all[name] = content
	}
	return all, rows.Err()
}

// Close closes the database if the store opened it
func (s *SQLiteStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
