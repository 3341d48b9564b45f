package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/automata/internal/runtime"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xyAutomaton() *domain.Automaton {
	a := domain.NewDeterministic([]rune{'x', 'y'}, 1, []int{2}, [][]int{{2, 1}, {2, 1}})
	a.Name = "ends-in-x"
	return a
}

func TestRunDeterministic_Accept(t *testing.T) {
	engine := runtime.NewEngine()

	res, err := engine.RunDeterministic(context.Background(), xyAutomaton(), "xyxxyx")
	require.NoError(t, err)

	assert.Equal(t, domain.Accept, res.Verdict)
	assert.Equal(t, 2, res.Final)
	require.Len(t, res.Trace, 6)
	assert.Equal(t, []int{1, 2, 1, 2, 2, 1, 2}, res.Path())
	assert.Equal(t, "δ(q1, x) → q2", res.Trace[0].String())
}

func TestRunDeterministic_Reject(t *testing.T) {
	engine := runtime.NewEngine()

	res, err := engine.RunDeterministic(context.Background(), xyAutomaton(), "xy")
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, res.Verdict)
	assert.Equal(t, 1, res.Final)
}

func TestRunDeterministic_UnknownSymbol(t *testing.T) {
	engine := runtime.NewEngine()

	res, err := engine.RunDeterministic(context.Background(), xyAutomaton(), "xxy101yx")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)

	var unknown *domain.UnknownSymbolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, '1', unknown.Symbol)
	assert.Equal(t, 1, unknown.State)
	assert.Equal(t, 3, unknown.Position)

	// The partial trace covers the consumed prefix.
	require.NotNil(t, res)
	assert.Len(t, res.Trace, 3)
}

func TestRunDeterministic_EmptyInput(t *testing.T) {
	engine := runtime.NewEngine()

	res, err := engine.RunDeterministic(context.Background(), xyAutomaton(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, res.Verdict)
	assert.Empty(t, res.Trace)

	accepting := xyAutomaton()
	accepting.Accept = []int{1}
	res, err = engine.RunDeterministic(context.Background(), accepting, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Accept, res.Verdict)
}

func TestRunDeterministic_Repeatable(t *testing.T) {
	engine := runtime.NewEngine()
	a := xyAutomaton()

	first, err := engine.RunDeterministic(context.Background(), a, "yxyyxxy")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := engine.RunDeterministic(context.Background(), a, "yxyyxxy")
		require.NoError(t, err)
		assert.Equal(t, first.Path(), again.Path())
	}
}

func TestRunDeterministic_Wildcard(t *testing.T) {
	// a*b with the wildcard column last.
	a := domain.NewDeterministic([]rune{'a', 'b', domain.Wildcard}, 1, []int{3}, [][]int{{2, 3, 1}, {2, 3, 1}, {3, 3, 3}})

	_, err := runtime.NewEngine().RunDeterministic(context.Background(), a, "abz")
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol, "exact match is the default")

	res, err := runtime.NewEngine(runtime.WithWildcard(true)).RunDeterministic(context.Background(), a, "abz")
	require.NoError(t, err)
	assert.Equal(t, domain.Accept, res.Verdict)
	assert.Equal(t, 'z', res.Trace[2].Symbol)

	res, err = runtime.NewEngine(runtime.WithWildcard(true)).RunDeterministic(context.Background(), a, "z")
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, res.Verdict)
}

func TestRunDeterministic_RejectsStackKind(t *testing.T) {
	_, err := runtime.NewEngine().RunDeterministic(context.Background(), palindrome(), "ab")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestEngine_RunDispatchesByKind(t *testing.T) {
	engine := runtime.NewEngine()

	res, err := engine.Run(context.Background(), palindrome(), "abba")
	require.NoError(t, err)
	assert.Equal(t, domain.Accept, res.Verdict)
	assert.NotEmpty(t, res.Trace[0].Stack)

	res, err = engine.Run(context.Background(), xyAutomaton(), "x")
	require.NoError(t, err)
	assert.Equal(t, domain.Accept, res.Verdict)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var started, ended []*domain.RunEvent
	var steps []domain.Step

	hooks := domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			started = append(started, e)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			steps = append(steps, e.Step)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			ended = append(ended, e)
		},
	}
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))

	_, err := engine.Run(context.Background(), xyAutomaton(), "xy")
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), xyAutomaton(), "x?")
	require.Error(t, err)

	require.Len(t, started, 2)
	require.Len(t, ended, 2)
	assert.Equal(t, domain.EventRunStart, started[0].Type)
	assert.Equal(t, "ends-in-x", started[0].Automaton)
	assert.Equal(t, "xy", started[0].Input)

	assert.Equal(t, domain.EventRunEnd, ended[0].Type)
	assert.Equal(t, 2, ended[0].Steps)
	assert.NoError(t, ended[0].Err)
	assert.ErrorIs(t, ended[1].Err, domain.ErrUnknownSymbol)

	// Two steps for "xy", one for the "x" before the failure.
	assert.Len(t, steps, 3)
}
