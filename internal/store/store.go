// Package store owns the in-memory, ordered todo list.
//
// A Store is constructed once at startup and passed to whatever needs to
// read or mutate the list. Every mutation notifies subscribers
// synchronously, in the order they subscribed.
//
// A Store is not safe for concurrent use. It belongs to a single goroutine
// (the TUI update loop or the CLI main goroutine).
package store

import "github.com/Makepad-fr/tadacards/internal/model"

// Listener receives a snapshot of the list after a change.
type Listener func(todos []model.Todo)

type subscription struct {
	id int
	fn Listener
}

// Store holds the todo list and its subscribers.
type Store struct {
	todos []model.Todo
	subs  []subscription
	next  int
}

// New returns an empty store.
func New() *Store {
	return &Store{todos: []model.Todo{}}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.next++
	id := s.next
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Add appends item with Completed forced to false.
// An item whose id is already in the list is ignored.
func (s *Store) Add(item model.Todo) {
	if s.indexOf(item.ID) >= 0 {
		return
	}
	item.Completed = false
	s.todos = append(s.todos, item)
	s.notify()
}

// Remove deletes the item with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
	}
	s.notify()
}

// Toggle flips Completed on the item with the given id. Unknown ids are a
// no-op, but subscribers are still notified.
func (s *Store) Toggle(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.todos[i].Completed = !s.todos[i].Completed
	}
	s.notify()
}

// ReplaceAll discards the list and sets it to items, in order.
// Later duplicates of an id are dropped.
func (s *Store) ReplaceAll(items []model.Todo) {
	todos := make([]model.Todo, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		todos = append(todos, it)
	}
	s.todos = todos
	s.notify()
}

// Todos returns a copy of the list.
func (s *Store) Todos() []model.Todo {
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.todos) }

// Get looks an item up by id.
func (s *Store) Get(id string) (model.Todo, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.todos[i], true
	}
	return model.Todo{}, false
}

// Stats counts completed and pending items.
func (s *Store) Stats() (done, pending int) {
	for _, it := range s.todos {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s *Store) indexOf(id string) int {
	for i, it := range s.todos {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.fn(s.Todos())
	}
}
