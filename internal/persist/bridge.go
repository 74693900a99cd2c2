// Package persist keeps a store.Store and a kv.Storage in step: it loads the
// saved list once at startup and writes the whole list back after every
// change.
package persist

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tadacards/internal/codec"
	"github.com/Makepad-fr/tadacards/internal/kv"
	"github.com/Makepad-fr/tadacards/internal/model"
	"github.com/Makepad-fr/tadacards/internal/store"
)

// DefaultKey is the storage key the list lives under.
const DefaultKey = "todos"

// Bridge mediates between a Store and durable storage under a fixed key.
type Bridge struct {
	storage kv.Storage
	key     string
	logger  *log.Logger

	lastErr error
	writes  int
}

// New returns a Bridge. An empty key means DefaultKey.
func New(storage kv.Storage, key string, logger *log.Logger) *Bridge {
	if key == "" {
		key = DefaultKey
	}
	return &Bridge{storage: storage, key: key, logger: logger}
}

// Key is the storage key in use.
func (b *Bridge) Key() string { return b.key }

// Restore loads the saved list into s with ReplaceAll. Absent or malformed
// data, including a storage file that is unreadable as a whole, leaves s
// untouched and is not an error; only a failing read is.
func (b *Bridge) Restore(s *store.Store) error {
	text, found, err := b.storage.Get(b.key)
	if errors.Is(err, kv.ErrCorrupt) {
		b.logger.Warn("ignoring saved todos", "key", b.key, "err", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %q: %w", b.key, err)
	}
	if !found {
		b.logger.Debug("no saved todos", "key", b.key)
		return nil
	}
	todos, err := codec.Decode(text)
	if err != nil {
		if errors.Is(err, codec.ErrMalformed) {
			b.logger.Warn("ignoring saved todos", "key", b.key, "err", err)
			return nil
		}
		return err
	}
	if todos == nil {
		b.logger.Debug("saved todos are null", "key", b.key)
		return nil
	}
	s.ReplaceAll(todos)
	b.logger.Debug("restored todos", "key", b.key, "count", len(todos))
	return nil
}

// Attach saves the list after every change to s until detach is called.
func (b *Bridge) Attach(s *store.Store) (detach func()) {
	return s.Subscribe(b.save)
}

// Save writes todos under the key. Attach calls it on every change.
func (b *Bridge) Save(todos []model.Todo) error {
	b.save(todos)
	return b.lastErr
}

func (b *Bridge) save(todos []model.Todo) {
	text, err := codec.Encode(todos)
	if err == nil {
		err = b.storage.Set(b.key, text)
	}
	if err != nil {
		b.lastErr = fmt.Errorf("save %q: %w", b.key, err)
		b.logger.Error("saving todos failed", "key", b.key, "err", err)
		return
	}
	b.lastErr = nil
	b.writes++
	b.logger.Debug("saved todos", "key", b.key, "count", len(todos))
}

// Err is the error from the most recent write, or nil if it succeeded.
func (b *Bridge) Err() error { return b.lastErr }

// Writes counts successful writes.
func (b *Bridge) Writes() int { return b.writes }
