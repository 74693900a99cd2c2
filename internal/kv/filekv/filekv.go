package filekv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tadacards/internal/kv"
)

// JSON-backed storage. Single file holding one object of key -> value,
// human-readable, portable. No locking; one writer at a time.

const DefaultFileName = "todos.json"

func init() {
	kv.Register(kv.BackendFile, func(path string) (kv.Storage, error) { return Open(path) })
}

// Store is a kv.Storage persisted to a single JSON file.
type Store struct {
	path   string
	closed bool
}

// Open returns a Store writing to path. An empty path means DefaultFileName
// in the working directory. The file is created on first Set.
func Open(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &Store{path: path}, nil
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, kv.ErrClosed
	}
	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	if s.closed {
		return kv.ErrClosed
	}
	m, err := s.load()
	if err != nil {
		// An unreadable file is overwritten rather than blocking every save.
		if !errors.Is(err, kv.ErrCorrupt) {
			return err
		}
		m = map[string]string{}
	}
	m[key] = value
	return s.save(m)
}

func (s *Store) Close() error {
	s.closed = true
	return nil
}

func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kv.ErrCorrupt, s.path, err)
	}
	return m, nil
}

func (s *Store) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".todos-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
