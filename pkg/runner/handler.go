package runner

import (
	"context"

	"github.com/aretw0/automata/pkg/domain"
)

// Report is the outcome of one input line.
// Result carries the partial trace even when Err is set.
type Report struct {
	Sentence string
	Result   *domain.Result
	Err      error
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (Structured) modes.
type IOHandler interface {
	// Input reads the next line, without its line terminator.
	// It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// Output presents the outcome of one line.
	Output(ctx context.Context, report Report) error
}
