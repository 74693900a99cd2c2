// Package sqlitekv stores key-value pairs in a SQLite database through the
// pure-Go modernc.org/sqlite driver.
package sqlitekv

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tadacards/internal/kv"
)

const DefaultFileName = "todos.db"

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

func init() {
	kv.Register(kv.BackendSQLite, func(path string) (kv.Storage, error) { return Open(path) })
}

// Store is a kv.Storage backed by a single SQLite table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the kv table
// exists. ":memory:" gives a throwaway database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, mapClosed(fmt.Errorf("select %q: %w", key, err))
	}
	return value, true, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return mapClosed(fmt.Errorf("upsert %q: %w", key, err))
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func mapClosed(err error) error {
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%w: %v", kv.ErrClosed, err)
	}
	return err
}
