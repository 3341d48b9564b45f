package observability

import (
	"context"
	"errors"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeAccept = "accept"
	OutcomeReject = "reject"
	OutcomeError  = "error"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automata_runs_total",
				Help: "Total number of runs by outcome",
			},
			[]string{"automaton", "kind", "outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automata_transitions_total",
				Help: "Total number of transitions taken, epsilon moves included",
			},
			[]string{"automaton"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automata_execution_errors_total",
				Help: "Total number of execution errors by reason",
			},
			[]string{"automaton", "reason"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "automata_run_duration_seconds",
				Help:    "Duration of runs",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"automaton"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Runs, m.Transitions, m.Errors, m.Duration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Automaton).Inc()
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			outcome := OutcomeReject
			switch {
			case e.Err != nil:
				outcome = OutcomeError
				m.Errors.WithLabelValues(e.Automaton, Reason(e.Err)).Inc()
			case e.Verdict == domain.Accept:
				outcome = OutcomeAccept
			}
			m.Runs.WithLabelValues(e.Automaton, string(e.Kind), outcome).Inc()
			m.Duration.WithLabelValues(e.Automaton).Observe(e.Duration.Seconds())
		},
	}
}

// Reason maps an execution error to a metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, domain.ErrStackMismatch):
		return "stack_mismatch"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
