package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/automata/internal/validator"
	"github.com/aretw0/automata/pkg/domain"
)

// ErrMixedRows is returned when Row and StackRow are used on the same builder.
var ErrMixedRows = errors.New("dsl: plain and stack rows cannot be mixed")

// Builder manages the construction of one automaton.
// Errors are deferred until Build.
type Builder struct {
	name     string
	kind     domain.Kind
	alphabet []rune
	start    int
	accept   []int
	rows     [][]domain.Cell
	err      error
}

// New starts an automaton over the given alphabet, one symbol per character.
// The start state defaults to 1.
func New(alphabet string) *Builder {
	return &Builder{
		alphabet: []rune(alphabet),
		start:    1,
	}
}

// Named sets the automaton name.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// Start sets the 1-relative start state.
func (b *Builder) Start(state int) *Builder {
	b.start = state
	return b
}

// Accept adds accept states.
func (b *Builder) Accept(states ...int) *Builder {
	b.accept = append(b.accept, states...)
	return b
}

// Row appends a deterministic row, one target per alphabet symbol.
func (b *Builder) Row(targets ...int) *Builder {
	if !b.use(domain.KindDeterministic) {
		return b
	}
	row := make([]domain.Cell, len(targets))
	for i, t := range targets {
		row[i] = domain.Plain{Target: t}
	}
	b.rows = append(b.rows, row)
	return b
}

// StackRow appends a stack row, one operation per alphabet symbol.
func (b *Builder) StackRow(ops ...domain.StackOp) *Builder {
	if !b.use(domain.KindStack) {
		return b
	}
	row := make([]domain.Cell, len(ops))
	for i, op := range ops {
		row[i] = op
	}
	b.rows = append(b.rows, row)
	return b
}

// Build validates and returns the automaton.
func (b *Builder) Build() (*domain.Automaton, error) {
	if b.err != nil {
		return nil, b.err
	}
	kind := b.kind
	if kind == "" {
		kind = domain.KindDeterministic
	}

	a := &domain.Automaton{
		Name:        b.name,
		Kind:        kind,
		Alphabet:    append([]rune(nil), b.alphabet...),
		Start:       b.start,
		Accept:      append([]int(nil), b.accept...),
		Transitions: b.rows,
	}
	if err := validator.Validate(a); err != nil {
		return nil, fmt.Errorf("dsl: %w", err)
	}
	return a, nil
}

func (b *Builder) use(kind domain.Kind) bool {
	if b.err != nil {
		return false
	}
	if b.kind != "" && b.kind != kind {
		b.err = ErrMixedRows
		return false
	}
	b.kind = kind
	return true
}

// Op builds a stack operation. Empty pop or push strings mean epsilon.
// Only the first character of a non-empty string is used.
func Op(target int, pop, push string) domain.StackOp {
	return domain.StackOp{Target: target, Pop: symbol(pop), Push: symbol(push)}
}

func symbol(s string) rune {
	for _, r := range s {
		return r
	}
	return domain.Epsilon
}
