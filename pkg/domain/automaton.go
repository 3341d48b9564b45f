package domain

import "slices"

// Automaton is a finite automaton with a 1-relative state numbering.
// Transitions[i][j] is the cell for state i+1 reading Alphabet[j].
//
// An Automaton is treated as immutable once validated; executors only read it.
type Automaton struct {
	Name        string
	Kind        Kind
	Alphabet    []rune
	Start       int
	Accept      []int
	Transitions [][]Cell
}

// NewDeterministic builds a deterministic automaton from an integer table.
func NewDeterministic(alphabet []rune, start int, accept []int, rows [][]int) *Automaton {
	table := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, target := range row {
			cells[j] = Plain{Target: target}
		}
		table[i] = cells
	}
	return &Automaton{
		Kind:        KindDeterministic,
		Alphabet:    slices.Clone(alphabet),
		Start:       start,
		Accept:      slices.Clone(accept),
		Transitions: table,
	}
}

// NewStack builds a stack automaton from a table of stack operations.
func NewStack(alphabet []rune, start int, accept []int, rows [][]StackOp) *Automaton {
	table := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, op := range row {
			cells[j] = op
		}
		table[i] = cells
	}
	return &Automaton{
		Kind:        KindStack,
		Alphabet:    slices.Clone(alphabet),
		Start:       start,
		Accept:      slices.Clone(accept),
		Transitions: table,
	}
}

// States returns the number of states (table rows).
func (a *Automaton) States() int {
	return len(a.Transitions)
}

// IsAccepting reports whether state belongs to the accept set.
func (a *Automaton) IsAccepting(state int) bool {
	return slices.Contains(a.Accept, state)
}

// Column returns the alphabet position of symbol, or -1.
func (a *Automaton) Column(symbol rune) int {
	for i, s := range a.Alphabet {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Cell returns the cell for a 1-relative state and an alphabet column.
func (a *Automaton) Cell(state, column int) Cell {
	return a.Transitions[state-1][column]
}

// Clone returns a deep copy. Cells are values, so copying the rows is enough.
func (a *Automaton) Clone() *Automaton {
	table := make([][]Cell, len(a.Transitions))
	for i, row := range a.Transitions {
		table[i] = slices.Clone(row)
	}
	return &Automaton{
		Name:        a.Name,
		Kind:        a.Kind,
		Alphabet:    slices.Clone(a.Alphabet),
		Start:       a.Start,
		Accept:      slices.Clone(a.Accept),
		Transitions: table,
	}
}
