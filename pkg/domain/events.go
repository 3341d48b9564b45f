package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart   EventType = "run_start"
	EventTransition EventType = "transition"
	EventRunEnd     EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Automaton string    `json:"automaton,omitempty"`
	Kind      Kind      `json:"kind"`
}

// RunEvent marks the start or the end of a run.
// Verdict, Steps, Duration and Err are only set on EventRunEnd.
type RunEvent struct {
	EventBase
	Input    string        `json:"input"`
	Verdict  Verdict       `json:"verdict"`
	Final    int           `json:"final"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// TransitionEvent is emitted for every trace record, epsilon moves included.
type TransitionEvent struct {
	EventBase
	Step Step `json:"step"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart   func(context.Context, *RunEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnRunEnd     func(context.Context, *RunEvent)
}
