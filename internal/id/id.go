package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator hands out opaque unique identifiers for new entities.
type Generator interface {
	New() string
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// New returns a fresh UUID string.
func (UUID) New() string { return uuid.NewString() }

// Sequence generates predictable ids like "txn-001", "txn-002". It is meant for
// tests and fixtures where stable ids matter.
type Sequence struct {
	Prefix string
	n      int
}

// New returns the next id in the sequence.
func (s *Sequence) New() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%03d", prefix, s.n)
}

// Short returns the first block of a UUID ("3f2a9c1e") for compact display.
// Other ids are returned unchanged.
func Short(id string) string {
	if _, err := uuid.Parse(id); err != nil {
		return id
	}
	before, _, _ := strings.Cut(id, "-")
	return before
}

// Match reports whether query names id, either exactly or as a unique-looking
// prefix of at least four characters.
func Match(id, query string) bool {
	if query == "" {
		return false
	}
	if id == query {
		return true
	}
	return len(query) >= 4 && strings.HasPrefix(id, query)
}
