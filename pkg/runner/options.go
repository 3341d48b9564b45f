package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithStopOnError makes the loop return on the first execution error instead
// of reporting it and continuing.
func WithStopOnError(stop bool) Option {
	return func(r *Runner) {
		r.StopOnError = stop
	}
}
