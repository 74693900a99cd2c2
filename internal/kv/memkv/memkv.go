// Package memkv is a map-backed kv.Storage. Nothing survives the process;
// it backs tests and the "memory" backend.
package memkv

import "github.com/Makepad-fr/tadacards/internal/kv"

func init() {
	kv.Register(kv.BackendMemory, func(string) (kv.Storage, error) { return New(), nil })
}

// Store keeps values in a map.
type Store struct {
	values map[string]string
	closed bool

	// FailSet, when non-nil, is returned by every Set.
	FailSet error
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: map[string]string{}}
}

func (s *Store) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, kv.ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	if s.closed {
		return kv.ErrClosed
	}
	if s.FailSet != nil {
		return s.FailSet
	}
	s.values[key] = value
	return nil
}

func (s *Store) Close() error {
	s.closed = true
	return nil
}
