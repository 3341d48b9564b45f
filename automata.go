package automata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/automata/internal/compiler"
	"github.com/aretw0/automata/internal/runtime"
	"github.com/aretw0/automata/internal/validator"
	loamAdapter "github.com/aretw0/automata/pkg/adapters/loam"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/loam"
)

// Machine is the high-level entry point of the library.
// It owns one validated automaton and the engine that runs it.
// A Machine is safe for concurrent use.
type Machine struct {
	automaton *domain.Automaton
	runtime   *runtime.Engine
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	wildcard  bool
	pivot     func(rune) bool
	name      string
}

// Option defines a functional option for configuring the Machine.
type Option func(*Machine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithWildcard toggles the wildcard fallback of the deterministic executor.
// Compile turns it on; every other constructor leaves it off.
func WithWildcard(enabled bool) Option {
	return func(m *Machine) {
		m.wildcard = enabled
	}
}

// WithPivot sets the symbol class of the stack executor's pivot column.
func WithPivot(class func(rune) bool) Option {
	return func(m *Machine) {
		m.pivot = class
	}
}

// WithName overrides the automaton name used in logs and events.
func WithName(name string) Option {
	return func(m *Machine) {
		m.name = name
	}
}

// Validate checks the structural invariants of an automaton.
func Validate(a *domain.Automaton) error {
	return validator.Validate(a)
}

// New validates a copy of a and wraps it in a Machine.
func New(a *domain.Automaton, opts ...Option) (*Machine, error) {
	m := &Machine{automaton: a.Clone()}
	for _, opt := range opts {
		opt(m)
	}

	if m.name != "" {
		m.automaton.Name = m.name
	}
	if err := validator.Validate(m.automaton); err != nil {
		return nil, err
	}

	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if m.automaton.Name != "" {
		m.logger = m.logger.With("automaton", m.automaton.Name)
	}

	m.runtime = runtime.NewEngine(
		runtime.WithLogger(m.logger),
		runtime.WithLifecycleHooks(m.hooks),
		runtime.WithWildcard(m.wildcard),
		runtime.WithPivot(m.pivot),
	)
	return m, nil
}

// FromDocument converts and validates a definition document.
func FromDocument(doc *definition.Document, opts ...Option) (*Machine, error) {
	a, err := doc.ToAutomaton()
	if err != nil {
		return nil, err
	}
	return New(a, opts...)
}

// Load reads a YAML or JSON definition file.
func Load(path string, opts ...Option) (*Machine, error) {
	doc, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// Open loads the definition id from a document repository at repoPath.
// The repository is opened read-only.
func Open(repoPath, id string, opts ...Option) (*Machine, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode makes every adapter return json.Number for numeric fields.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	loader := loamAdapter.New(loam.NewTypedRepository[definition.Document](repo))
	doc, err := loader.Load(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// Compile synthesizes a deterministic automaton from pattern.
// The wildcard fallback is on unless an option turns it off.
func Compile(pattern string, opts ...Option) (*Machine, error) {
	a, err := compiler.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return New(a, append([]Option{WithWildcard(true)}, opts...)...)
}

// Run executes the automaton on input with the executor matching its kind.
// On execution errors the partial result is returned alongside the error.
func (m *Machine) Run(ctx context.Context, input string) (*domain.Result, error) {
	return m.runtime.Run(ctx, m.automaton, input)
}

// Automaton returns a copy of the underlying automaton.
func (m *Machine) Automaton() *domain.Automaton {
	return m.automaton.Clone()
}

// Name returns the automaton name.
func (m *Machine) Name() string {
	return m.automaton.Name
}

// Kind returns the automaton kind.
func (m *Machine) Kind() domain.Kind {
	return m.automaton.Kind
}
