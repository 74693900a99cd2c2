// Package app wires storage, the todo store and the persistence bridge
// together. Surfaces get an *App and never build these pieces themselves.
package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tadacards/internal/config"
	"github.com/Makepad-fr/tadacards/internal/ids"
	"github.com/Makepad-fr/tadacards/internal/kv"
	_ "github.com/Makepad-fr/tadacards/internal/kv/memkv"
	"github.com/Makepad-fr/tadacards/internal/model"
	"github.com/Makepad-fr/tadacards/internal/persist"
	"github.com/Makepad-fr/tadacards/internal/store"
)

// App owns the running state of one tada process.
type App struct {
	Store  *store.Store
	Bridge *persist.Bridge
	IDs    ids.Generator
	Log    *log.Logger

	storage kv.Storage
	detach  func()
}

// Open builds an App from cfg: opens storage, restores the saved list, and
// starts saving on every change.
func Open(cfg config.Config, logger *log.Logger) (*App, error) {
	storage, err := kv.Open(cfg.Backend, cfg.Path)
	if err != nil {
		return nil, err
	}
	a, err := New(storage, cfg.Key, ids.UUID{}, logger)
	if err != nil {
		storage.Close()
		return nil, err
	}
	logger.Debug("storage open", "backend", cfg.Backend, "path", cfg.Path, "key", a.Bridge.Key(), "todos", a.Store.Len())
	return a, nil
}

// New wires an App over an already open storage.
func New(storage kv.Storage, key string, gen ids.Generator, logger *log.Logger) (*App, error) {
	s := store.New()
	b := persist.New(storage, key, logger)
	if err := b.Restore(s); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	return &App{
		Store:   s,
		Bridge:  b,
		IDs:     gen,
		Log:     logger,
		storage: storage,
		detach:  b.Attach(s),
	}, nil
}

// AddTodo creates a pending todo with a fresh id and adds it to the store.
// Title and text are kept as typed, except that bytes which are not valid
// UTF-8 become U+FFFD so the list can always be saved.
func (a *App) AddTodo(title, text string) model.Todo {
	t := model.New(a.IDs.NewID(), validText(title), validText(text))
	a.Store.Add(t)
	return t
}

func validText(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Close stops saving and releases the storage.
func (a *App) Close() error {
	if a.detach != nil {
		a.detach()
		a.detach = nil
		a.Log.Debug("storage closing", "key", a.Bridge.Key(), "writes", a.Bridge.Writes())
	}
	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
