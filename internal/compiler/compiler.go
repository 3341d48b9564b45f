package compiler

import (
	"fmt"

	"github.com/aretw0/automata/pkg/domain"
)

// Compile synthesizes a deterministic automaton from a pattern of literals
// and the postfix operators '|', '*' and '+'. Operators apply left to right
// to the single literal before them; there is no grouping.
//
// Single applications of one operator are exact. Combinations of several
// operators are best effort.
func Compile(pattern string) (*domain.Automaton, error) {
	b, err := NewBuilder(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}

	for _, c := range pattern {
		switch c {
		case OpAlternation:
			err = b.ApplyAlternation()
		case OpStar:
			err = b.ApplyStar()
		case OpPlus:
			err = b.ApplyPlus()
		default:
			err = b.ApplyLiteral(c)
		}
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", pattern, err)
		}
	}

	a, err := b.Finalize()
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return a, nil
}
