// Package kv defines the durable key-value storage the todo list is saved to,
// and picks a backend by name.
package kv

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a Storage used after Close.
var ErrClosed = errors.New("storage closed")

// ErrCorrupt is returned by Get when the backing data cannot be read as
// key-value pairs at all. A later Set replaces it.
var ErrCorrupt = errors.New("corrupt storage")

// Storage is a string key-value store that survives process restarts.
type Storage interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(key string) (value string, found bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Opener builds a Storage for a path. Backends register themselves with
// Register from an init function.
type Opener func(path string) (Storage, error)

var openers = map[string]Opener{}

// Register makes a backend available to Open. It panics on a duplicate name.
func Register(name string, open Opener) {
	if _, dup := openers[name]; dup {
		panic("kv: backend registered twice: " + name)
	}
	openers[name] = open
}

// Open returns the storage for backend, rooted at path.
func Open(backend, path string) (Storage, error) {
	open, ok := openers[backend]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	s, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", backend, err)
	}
	return s, nil
}
