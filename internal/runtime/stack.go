package runtime

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/automata/pkg/domain"
)

// stack is the LIFO store of a single stack run. Index 0 is the bottom.
type stack []rune

func (s *stack) push(r rune) { *s = append(*s, r) }

func (s *stack) top() (rune, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	return (*s)[len(*s)-1], true
}

func (s *stack) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

// pda is the mutable part of one stack run.
type pda struct {
	*run
	state int
	stack stack
}

// apply performs one transition with the pop/compare/push/advance rule.
func (m *pda) apply(pos int, symbol rune, col int, pivot bool) error {
	op, ok := m.automaton.Cell(m.state, col).(domain.StackOp)
	if !ok {
		return &domain.ConfigurationError{
			Reason: fmt.Sprintf("cell q%d/%c has no stack annotation", m.state, m.automaton.Alphabet[col]),
		}
	}

	if op.Pop != domain.Epsilon {
		top, _ := m.stack.top()
		if top != op.Pop {
			return &domain.StackMismatchError{Expected: op.Pop, Actual: top, State: m.state, Position: pos}
		}
		m.stack.pop()
	}
	if op.Push != domain.Epsilon {
		m.stack.push(op.Push)
	}

	m.record(domain.Step{
		From:   m.state,
		Symbol: symbol,
		To:     op.Target,
		Stack:  slices.Clone([]rune(m.stack)),
		Pivot:  pivot,
	})
	m.state = op.Target
	return nil
}

// move takes the epsilon column without touching the stack. The entry, phase
// switch and final transitions only advance the state; any pop or push
// annotation on those cells is ignored.
func (m *pda) move(col int) {
	target := m.automaton.Cell(m.state, col).Next()
	m.record(domain.Step{
		From:   m.state,
		Symbol: domain.Epsilon,
		To:     target,
		Stack:  slices.Clone([]rune(m.stack)),
	})
	m.state = target
}

// read consumes one input symbol through its own column.
func (m *pda) read(pos int, symbol rune) error {
	col := m.automaton.Column(symbol)
	if col < 0 {
		return &domain.UnknownSymbolError{Symbol: symbol, State: m.state, Position: pos}
	}
	return m.apply(pos, symbol, col, false)
}

// RunStack simulates the two-phase palindrome protocol:
// push the bottom marker, take the epsilon column, read the first half,
// consume the middle symbol of odd-length input through the pivot column,
// take the epsilon column, read the second half, then require the bottom
// marker on top, pop it and take the final epsilon transition.
//
// Empty input is accepted iff the start state accepts; no transition is taken.
func (e *Engine) RunStack(ctx context.Context, a *domain.Automaton, input string) (*domain.Result, error) {
	r := e.begin(ctx, a, input)

	eps := a.Column(domain.Epsilon)
	if eps < 0 {
		return r.fail(&domain.ConfigurationError{Reason: "missing epsilon transition"})
	}
	if a.Kind != domain.KindStack {
		return r.fail(&domain.ConfigurationError{Reason: "automaton has no stack annotations"})
	}

	symbols := []rune(input)
	if len(symbols) == 0 {
		return r.done(a.Start)
	}

	mid := len(symbols) / 2
	odd := len(symbols)%2 == 1
	pivot := -1
	if odd {
		pivot = e.pivotColumn(a)
		if pivot < 0 {
			return r.fail(&domain.ConfigurationError{Reason: "missing pivot column"})
		}
	}

	m := &pda{run: r, state: a.Start}
	m.stack.push(domain.BottomMarker)
	m.move(eps)

	for i := 0; i < mid; i++ {
		if err := m.read(i, symbols[i]); err != nil {
			return r.fail(err)
		}
	}

	rest := mid
	if odd {
		if a.Column(symbols[mid]) < 0 {
			return r.fail(&domain.UnknownSymbolError{Symbol: symbols[mid], State: m.state, Position: mid})
		}
		if err := m.apply(mid, symbols[mid], pivot, true); err != nil {
			return r.fail(err)
		}
		rest = mid + 1
	}

	m.move(eps)

	for i := rest; i < len(symbols); i++ {
		if err := m.read(i, symbols[i]); err != nil {
			return r.fail(err)
		}
	}

	if top, _ := m.stack.top(); top != domain.BottomMarker {
		return r.fail(&domain.StackMismatchError{
			Expected: domain.BottomMarker,
			Actual:   top,
			State:    m.state,
			Position: len(symbols),
		})
	}
	m.stack.pop()
	m.move(eps)

	return r.done(m.state)
}

// pivotColumn returns the first non-reserved alphabet column in the pivot class.
func (e *Engine) pivotColumn(a *domain.Automaton) int {
	for i, s := range a.Alphabet {
		if !domain.IsReserved(s) && e.pivot(s) {
			return i
		}
	}
	return -1
}
