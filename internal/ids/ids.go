// Package ids hands out identifiers for new todos.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator returns a new unique id on every call.
type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequence yields Prefix1, Prefix2, ... and is meant for tests.
type Sequence struct {
	Prefix string
	n      int
}

func (s *Sequence) NewID() string {
	s.n++
	return fmt.Sprintf("%s%d", s.Prefix, s.n)
}
