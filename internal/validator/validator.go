package validator

import (
	"github.com/aretw0/automata/pkg/domain"
)

// Validate checks the structural invariants of an automaton, in order:
// row shapes, transition targets, start state, accept states.
// It returns the first violation found.
func Validate(a *domain.Automaton) error {
	want := len(a.Alphabet)
	for i, row := range a.Transitions {
		if len(row) != want {
			return &domain.ShapeMismatchError{Row: i + 1, Got: len(row), Want: want}
		}
	}

	n := a.States()
	for i, row := range a.Transitions {
		for j, cell := range row {
			if !inRange(cell.Next(), n) {
				return &domain.StateReferenceError{
					Field:  domain.FieldTransition,
					Row:    i + 1,
					Column: j + 1,
					Value:  cell.Next(),
					States: n,
				}
			}
		}
	}

	if !inRange(a.Start, n) {
		return &domain.StateReferenceError{Field: domain.FieldStart, Value: a.Start, States: n}
	}

	for i, s := range a.Accept {
		if !inRange(s, n) {
			return &domain.StateReferenceError{Field: domain.FieldAccept, Column: i + 1, Value: s, States: n}
		}
	}

	return nil
}

// inRange also rejects every index when the table is empty.
func inRange(state, n int) bool {
	return state >= 1 && state <= n
}
