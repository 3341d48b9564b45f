package dsl

import (
	"testing"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Deterministic(t *testing.T) {
	a, err := New("xy").
		Named("ends-in-x").
		Accept(2).
		Row(2, 1).
		Row(2, 1).
		Build()
	require.NoError(t, err)

	expected := domain.NewDeterministic([]rune{'x', 'y'}, 1, []int{2}, [][]int{{2, 1}, {2, 1}})
	expected.Name = "ends-in-x"
	assert.Equal(t, expected, a)
}

func TestBuilder_Stack(t *testing.T) {
	a, err := New("aƐ").
		Start(1).
		Accept(1).
		StackRow(Op(1, "", "a"), Op(1, "a", "")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, domain.KindStack, a.Kind)
	assert.Equal(t, domain.StackOp{Target: 1, Pop: domain.Epsilon, Push: 'a'}, a.Transitions[0][0])
	assert.Equal(t, domain.StackOp{Target: 1, Pop: 'a', Push: domain.Epsilon}, a.Transitions[0][1])
}

func TestBuilder_Errors(t *testing.T) {
	_, err := New("xy").Row(1, 1).StackRow(Op(1, "", ""), Op(1, "", "")).Build()
	assert.ErrorIs(t, err, ErrMixedRows)

	_, err = New("xy").Accept(1).Row(1).Build()
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = New("xy").Start(3).Row(1, 1).Build()
	assert.ErrorIs(t, err, domain.ErrInvalidStateReference)
}
