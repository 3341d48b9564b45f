package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"
	"unicode"

	"github.com/aretw0/automata/pkg/domain"
)

// Engine executes validated automata. It holds no per-run state, so a single
// Engine may serve concurrent runs.
type Engine struct {
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	wildcard bool
	pivot    func(rune) bool
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithWildcard makes the deterministic executor read symbols missing from the
// alphabet through the Wildcard column, when the automaton has one.
func WithWildcard(enabled bool) EngineOption {
	return func(e *Engine) {
		e.wildcard = enabled
	}
}

// WithPivot sets the symbol class of the stack executor's pivot column.
// The default class is unicode.IsDigit.
func WithPivot(class func(rune) bool) EngineOption {
	return func(e *Engine) {
		if class != nil {
			e.pivot = class
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		pivot:  unicode.IsDigit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run dispatches to the executor matching the automaton kind.
func (e *Engine) Run(ctx context.Context, a *domain.Automaton, input string) (*domain.Result, error) {
	if a.Kind == domain.KindStack {
		return e.RunStack(ctx, a, input)
	}
	return e.RunDeterministic(ctx, a, input)
}

// run carries the bookkeeping shared by both executors.
type run struct {
	ctx       context.Context
	engine    *Engine
	automaton *domain.Automaton
	input     string
	started   time.Time
	result    *domain.Result
}

func (e *Engine) begin(ctx context.Context, a *domain.Automaton, input string) *run {
	r := &run{
		ctx:       ctx,
		engine:    e,
		automaton: a,
		input:     input,
		started:   time.Now(),
		result:    &domain.Result{Verdict: domain.Reject, Final: a.Start, Trace: []domain.Step{}},
	}

	e.logger.Debug("run started", "automaton", a.Name, "kind", a.Kind, "input", input)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: r.base(domain.EventRunStart),
			Input:     input,
		})
	}
	return r
}

func (r *run) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Automaton: r.automaton.Name,
		Kind:      r.automaton.Kind,
	}
}

func (r *run) record(step domain.Step) {
	r.result.Trace = append(r.result.Trace, step)
	r.result.Final = step.To
	if r.engine.hooks.OnTransition != nil {
		r.engine.hooks.OnTransition(r.ctx, &domain.TransitionEvent{
			EventBase: r.base(domain.EventTransition),
			Step:      step,
		})
	}
}

func (r *run) done(state int) (*domain.Result, error) {
	r.result.Final = state
	if r.automaton.IsAccepting(state) {
		r.result.Verdict = domain.Accept
	}
	return r.finish(nil)
}

func (r *run) fail(err error) (*domain.Result, error) {
	return r.finish(err)
}

func (r *run) finish(err error) (*domain.Result, error) {
	elapsed := time.Since(r.started)
	if err != nil {
		r.engine.logger.Debug("run failed", "automaton", r.automaton.Name, "steps", len(r.result.Trace), "error", err)
	} else {
		r.engine.logger.Debug("run finished", "automaton", r.automaton.Name, "verdict", r.result.Verdict.String(), "final", r.result.Final, "steps", len(r.result.Trace))
	}

	if r.engine.hooks.OnRunEnd != nil {
		r.engine.hooks.OnRunEnd(r.ctx, &domain.RunEvent{
			EventBase: r.base(domain.EventRunEnd),
			Input:     r.input,
			Verdict:   r.result.Verdict,
			Final:     r.result.Final,
			Steps:     len(r.result.Trace),
			Duration:  elapsed,
			Err:       err,
		})
	}
	return r.result, err
}
