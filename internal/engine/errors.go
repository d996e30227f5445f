package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every input rejection.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an operation addresses an entity that does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes one precondition a mutation's input failed.
type ValidationError struct {
	Op     string // e.g. "add transaction"
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e ValidationError) Unwrap() error { return ErrValidation }

// problems collects validation failures for a single operation.
type problems struct {
	op   string
	errs []ValidationError
}

func (p *problems) add(field, format string, args ...any) {
	p.errs = append(p.errs, ValidationError{Op: p.op, Field: field, Reason: fmt.Sprintf(format, args...)})
}

// err returns nil, the single failure, or all failures joined.
func (p *problems) err() error {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	}
	errs := make([]error, len(p.errs))
	for i, ve := range p.errs {
		errs[i] = ve
	}
	return errors.Join(errs...)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
