package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyCollection   = errors.New("empty collection")
	ErrDivisionUndefined = errors.New("division undefined")
	ErrNotFound          = errors.New("not found")
	ErrNoAnalytics       = errors.New("no analytics available")
)

// ValidationError reports which fields of a record broke its invariants.
// It unwraps to ErrInvalidInput.
type ValidationError struct {
	Kind     string
	RecordID string
	Fields   []string
}

func (e *ValidationError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<unset>"
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Kind, id, ErrInvalidInput, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
