package runtime_test

import (
	"context"
	"errors"
	"testing"
	"unicode"

	"github.com/aretw0/automata/internal/runtime"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = domain.Epsilon

func op(target int, pop, push rune) domain.StackOp {
	return domain.StackOp{Target: target, Pop: pop, Push: push}
}

func absorbing(state int) []domain.StackOp {
	return []domain.StackOp{op(state, eps, eps), op(state, eps, eps), op(state, eps, eps), op(state, eps, eps)}
}

// palindrome recognizes palindromes over {a, b}; the digit column is the pivot.
// State 2 pushes, state 3 pops, state 4 accepts and state 5 is a dead end.
func palindrome() *domain.Automaton {
	a := domain.NewStack([]rune{'a', 'b', '0', eps}, 1, []int{1, 4}, [][]domain.StackOp{
		{op(1, eps, eps), op(1, eps, eps), op(1, eps, eps), op(2, eps, eps)},
		{op(2, eps, 'a'), op(2, eps, 'b'), op(2, eps, eps), op(3, eps, eps)},
		{op(3, 'a', eps), op(3, 'b', eps), op(5, eps, eps), op(4, eps, eps)},
		absorbing(4),
		absorbing(5),
	})
	a.Name = "palindrome"
	return a
}

func pivots(res *domain.Result) int {
	n := 0
	for _, s := range res.Trace {
		if s.Pivot {
			n++
		}
	}
	return n
}

func TestRunStack_EvenPalindrome(t *testing.T) {
	res, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "abba")
	require.NoError(t, err)

	assert.Equal(t, domain.Accept, res.Verdict)
	assert.Equal(t, 4, res.Final)
	require.Len(t, res.Trace, 7)
	assert.Zero(t, pivots(res))

	assert.Equal(t, eps, res.Trace[0].Symbol)
	assert.Equal(t, []rune("$"), res.Trace[0].Stack)
	assert.Equal(t, []rune("$ab"), res.Trace[2].Stack)
	assert.Equal(t, eps, res.Trace[3].Symbol, "phase switch")
	assert.Equal(t, []rune("$"), res.Trace[5].Stack)
	assert.Empty(t, res.Trace[6].Stack, "bottom marker popped before the final epsilon move")
}

func TestRunStack_OddPalindrome(t *testing.T) {
	res, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "aba")
	require.NoError(t, err)

	assert.Equal(t, domain.Accept, res.Verdict)
	require.Len(t, res.Trace, 6)
	assert.Equal(t, 1, pivots(res))
	assert.True(t, res.Trace[2].Pivot)
	assert.Equal(t, 'b', res.Trace[2].Symbol)
}

func TestRunStack_Mismatch(t *testing.T) {
	res, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "ab")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.ErrorIs(t, err, domain.ErrStackMismatch)

	var mismatch *domain.StackMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 'b', mismatch.Expected)
	assert.Equal(t, 'a', mismatch.Actual)
	assert.Equal(t, 3, mismatch.State)
	assert.Equal(t, 1, mismatch.Position)
	assert.Len(t, res.Trace, 3)
}

func TestRunStack_LeftoverStackIsMismatch(t *testing.T) {
	_, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "a0")

	var mismatch *domain.StackMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, domain.BottomMarker, mismatch.Expected)
	assert.Equal(t, 'a', mismatch.Actual)
	assert.Equal(t, 2, mismatch.Position)
}

func TestRunStack_Reject(t *testing.T) {
	res, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "00")
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, res.Verdict)
	assert.Equal(t, 5, res.Final)
}

func TestRunStack_UnknownSymbol(t *testing.T) {
	_, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "abc")

	var unknown *domain.UnknownSymbolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, 'c', unknown.Symbol)
	assert.Equal(t, 2, unknown.Position)

	_, err = runtime.NewEngine().RunStack(context.Background(), palindrome(), "aca")
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol, "the middle symbol must belong to the alphabet")
}

func TestRunStack_EmptyInput(t *testing.T) {
	res, err := runtime.NewEngine().RunStack(context.Background(), palindrome(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Accept, res.Verdict)
	assert.Equal(t, 1, res.Final)
	assert.Empty(t, res.Trace)

	rejecting := palindrome()
	rejecting.Accept = []int{4}
	res, err = runtime.NewEngine().RunStack(context.Background(), rejecting, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, res.Verdict)
}

func TestRunStack_ConfigurationErrors(t *testing.T) {
	noEpsilon := domain.NewStack([]rune{'a'}, 1, []int{1}, [][]domain.StackOp{{op(1, eps, eps)}})
	_, err := runtime.NewEngine().RunStack(context.Background(), noEpsilon, "")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "missing epsilon transition")

	plain := domain.NewDeterministic([]rune{'a', eps}, 1, []int{1}, [][]int{{1, 1}})
	_, err = runtime.NewEngine().RunStack(context.Background(), plain, "a")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	noPivot := domain.NewStack([]rune{'a', eps}, 1, []int{1}, [][]domain.StackOp{{op(1, eps, eps), op(1, eps, eps)}})
	_, err = runtime.NewEngine().RunStack(context.Background(), noPivot, "aaa")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "missing pivot column")

	res, err := runtime.NewEngine().RunStack(context.Background(), noPivot, "aa")
	require.NoError(t, err, "even-length input never needs the pivot")
	assert.Equal(t, domain.Accept, res.Verdict)
}

func TestRunStack_CustomPivot(t *testing.T) {
	// Same recognizer with 'm' as the middle marker instead of a digit.
	a := palindrome()
	a.Alphabet[2] = 'm'

	_, err := runtime.NewEngine().RunStack(context.Background(), a, "aba")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	engine := runtime.NewEngine(runtime.WithPivot(func(r rune) bool { return r == 'm' || unicode.IsDigit(r) }))
	res, err := engine.RunStack(context.Background(), a, "aba")
	require.NoError(t, err)
	assert.Equal(t, domain.Accept, res.Verdict)
}

func TestRunStack_EpsilonMovesIgnoreStackAnnotations(t *testing.T) {
	t.Run("final move annotated with a bottom pop", func(t *testing.T) {
		a := palindrome()
		a.Transitions[2][3] = op(4, '$', eps)

		res, err := runtime.NewEngine().RunStack(context.Background(), a, "abba")
		require.NoError(t, err)
		assert.Equal(t, domain.Accept, res.Verdict)
		assert.Equal(t, 4, res.Final)
		assert.Empty(t, res.Trace[len(res.Trace)-1].Stack)
	})

	t.Run("entry move annotated with a bottom push", func(t *testing.T) {
		a := palindrome()
		a.Transitions[0][3] = op(2, eps, '$')

		res, err := runtime.NewEngine().RunStack(context.Background(), a, "abba")
		require.NoError(t, err)
		assert.Equal(t, domain.Accept, res.Verdict)
		assert.Equal(t, []rune("$"), res.Trace[0].Stack)
		assert.Empty(t, res.Trace[len(res.Trace)-1].Stack, "only the protocol touches the bottom marker")
	})

	t.Run("phase switch annotated with a pop", func(t *testing.T) {
		a := palindrome()
		a.Transitions[1][3] = op(3, 'b', eps)

		res, err := runtime.NewEngine().RunStack(context.Background(), a, "abba")
		require.NoError(t, err)
		assert.Equal(t, domain.Accept, res.Verdict)
		assert.Equal(t, []rune("$ab"), res.Trace[3].Stack)
	})
}
