package domain

import "fmt"

// Cell is one entry of the transition table.
// The set of implementations is closed: Plain and StackOp.
type Cell interface {
	// Next returns the 1-relative target state.
	Next() int
	isCell()
}

// Plain is the cell of a deterministic automaton.
type Plain struct {
	Target int
}

func (c Plain) Next() int { return c.Target }
func (Plain) isCell()     {}

func (c Plain) String() string { return fmt.Sprintf("%d", c.Target) }

// StackOp is the cell of a stack automaton.
// Pop and Push hold Epsilon when the cell leaves the stack alone.
type StackOp struct {
	Target int
	Pop    rune
	Push   rune
}

func (c StackOp) Next() int { return c.Target }
func (StackOp) isCell()     {}

func (c StackOp) String() string {
	return fmt.Sprintf("{%d, %c, %c}", c.Target, c.Pop, c.Push)
}

// Label renders the edge label of a cell read on symbol.
// Deterministic cells are labelled with the symbol alone, stack cells with
// "symbol, pop -> push".
func Label(symbol rune, c Cell) string {
	if op, ok := c.(StackOp); ok {
		return fmt.Sprintf("%c, %c -> %c", symbol, op.Pop, op.Push)
	}
	return string(symbol)
}
