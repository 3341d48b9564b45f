package runtime

import (
	"context"

	"github.com/aretw0/automata/pkg/domain"
)

// RunDeterministic follows the transition table one input symbol at a time.
// Column lookup is an exact match unless the engine was built WithWildcard.
// The automaton must have been validated.
func (e *Engine) RunDeterministic(ctx context.Context, a *domain.Automaton, input string) (*domain.Result, error) {
	r := e.begin(ctx, a, input)
	if a.Kind == domain.KindStack {
		return r.fail(&domain.ConfigurationError{Reason: "stack automaton requires the stack executor"})
	}

	fallback := -1
	if e.wildcard {
		fallback = a.Column(domain.Wildcard)
	}

	state := a.Start
	for pos, symbol := range []rune(input) {
		col := a.Column(symbol)
		if col < 0 {
			col = fallback
		}
		if col < 0 {
			return r.fail(&domain.UnknownSymbolError{Symbol: symbol, State: state, Position: pos})
		}

		next := a.Cell(state, col).Next()
		r.record(domain.Step{From: state, Symbol: symbol, To: next})
		state = next
	}

	return r.done(state)
}
