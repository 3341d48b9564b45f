package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every typed error below unwraps to exactly one of them.
var (
	// ErrValidation groups load-time errors. An automaton that fails validation is never executed.
	ErrValidation = errors.New("validation error")

	// ErrExecution groups run-time errors. They are scoped to a single input.
	ErrExecution = errors.New("execution error")
)

var (
	ErrShapeMismatch         = errors.New("shape mismatch")
	ErrInvalidStateReference = errors.New("invalid state reference")
	ErrUnknownSymbol         = errors.New("unknown symbol")
	ErrStackMismatch         = errors.New("stack mismatch")
	ErrConfiguration         = errors.New("configuration error")
)

// ErrDefinitionNotFound is returned when a named automaton cannot be found in a store.
var ErrDefinitionNotFound = errors.New("definition not found")

// ShapeMismatchError reports a table row whose length differs from the alphabet.
// Row is 1-relative.
type ShapeMismatchError struct {
	Row  int
	Got  int
	Want int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: row %d has %d cells, alphabet has %d symbols", e.Row, e.Got, e.Want)
}

func (e *ShapeMismatchError) Unwrap() []error {
	return []error{ErrValidation, ErrShapeMismatch}
}

// Fields checked for state references.
const (
	FieldTransition = "transition"
	FieldStart      = "start"
	FieldAccept     = "accept"
)

// StateReferenceError reports a state index outside [1, States].
// Row and Column are 1-relative and only set for FieldTransition;
// for FieldAccept, Column holds the position inside the accept list.
type StateReferenceError struct {
	Field  string
	Row    int
	Column int
	Value  int
	States int
}

func (e *StateReferenceError) Error() string {
	switch e.Field {
	case FieldTransition:
		return fmt.Sprintf("invalid state reference: row %d column %d targets %d, want [1, %d]", e.Row, e.Column, e.Value, e.States)
	case FieldAccept:
		return fmt.Sprintf("invalid state reference: accept entry %d is %d, want [1, %d]", e.Column, e.Value, e.States)
	default:
		return fmt.Sprintf("invalid state reference: %s is %d, want [1, %d]", e.Field, e.Value, e.States)
	}
}

func (e *StateReferenceError) Unwrap() []error {
	return []error{ErrValidation, ErrInvalidStateReference}
}

// UnknownSymbolError reports an input character absent from the alphabet.
// Position is the 0-relative rune offset in the input.
type UnknownSymbolError struct {
	Symbol   rune
	State    int
	Position int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("character <%c> does not have a transition from q%d", e.Symbol, e.State)
}

func (e *UnknownSymbolError) Unwrap() []error {
	return []error{ErrExecution, ErrUnknownSymbol}
}

// StackMismatchError reports a stack top that differs from the expected symbol.
// Actual is zero when the stack was empty.
type StackMismatchError struct {
	Expected rune
	Actual   rune
	State    int
	Position int
}

func (e *StackMismatchError) Error() string {
	actual := "<empty>"
	if e.Actual != 0 {
		actual = string(e.Actual)
	}
	return fmt.Sprintf("stack mismatch in q%d: expected %c on top, found %s", e.State, e.Expected, actual)
}

func (e *StackMismatchError) Unwrap() []error {
	return []error{ErrExecution, ErrStackMismatch}
}

// ConfigurationError reports an automaton that cannot drive the requested protocol.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrExecution, ErrConfiguration}
}
