package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/automata/pkg/domain"
)

// Executor runs one input. *automata.Machine satisfies it.
type Executor interface {
	Run(ctx context.Context, input string) (*domain.Result, error)
}

// Summary counts the outcomes of a loop.
type Summary struct {
	Processed int `json:"processed"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

// Runner drives an Executor with lines from an IOHandler.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// StopOnError ends the loop at the first execution error.
	StopOnError bool
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run processes lines until EOF or cancellation.
// Execution errors are reported per line; only IO failures, cancellation and
// (with StopOnError) execution errors end the loop early.
func (r *Runner) Run(ctx context.Context, exec Executor) (Summary, error) {
	var summary Summary

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("input exhausted", "processed", summary.Processed)
				return summary, nil
			}
			return summary, fmt.Errorf("input error: %w", err)
		}

		report := r.process(ctx, exec, line)
		summary.Processed++
		switch {
		case report.Err != nil:
			summary.Failed++
		case report.Result.Accepted():
			summary.Accepted++
		default:
			summary.Rejected++
		}

		if err := r.Handler.Output(ctx, report); err != nil {
			return summary, fmt.Errorf("output error: %w", err)
		}

		if report.Err != nil {
			if errors.Is(report.Err, context.Canceled) || errors.Is(report.Err, context.DeadlineExceeded) {
				return summary, report.Err
			}
			if r.StopOnError {
				return summary, report.Err
			}
		}
	}
}

func (r *Runner) process(ctx context.Context, exec Executor, line string) Report {
	sentence, err := SanitizeInput(line)
	if err != nil {
		r.Logger.Warn("input rejected", "error", err)
		return Report{Err: err}
	}

	res, err := exec.Run(ctx, sentence)
	if err != nil {
		r.Logger.Debug("sentence failed", "sentence", sentence, "error", err)
	} else {
		r.Logger.Debug("sentence processed", "sentence", sentence, "verdict", res.Verdict.String())
	}
	return Report{Sentence: sentence, Result: res, Err: err}
}
