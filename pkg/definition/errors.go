package definition

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat   = errors.New("unknown definition format")
	ErrInvalidSymbol   = errors.New("symbol must be a single character")
	ErrDuplicateSymbol = errors.New("duplicate alphabet symbol")
	ErrMixedCells      = errors.New("transition table mixes plain and stack cells")
	ErrInvalidCell     = errors.New("invalid transition cell")
	ErrUnknownKind     = errors.New("unknown automaton kind")
)

// FieldError locates a decoding failure inside a document.
type FieldError struct {
	Key   string // e.g. "alphabet[2]" or "transitions[1][0]"
	Err   error
	Value any
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("field %q: %v (got %v)", e.Key, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
