package compiler

import (
	"testing"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(a *domain.Automaton) [][]int {
	out := make([][]int, len(a.Transitions))
	for i, row := range a.Transitions {
		out[i] = make([]int, len(row))
		for j, c := range row {
			out[i][j] = c.Next()
		}
	}
	return out
}

func TestNewBuilder_Alphabet(t *testing.T) {
	b, err := NewBuilder("cab|a*")
	require.NoError(t, err)

	s := b.Snapshot()
	assert.Equal(t, []rune{'a', 'b', 'c', domain.Wildcard}, s.Alphabet)
	assert.Equal(t, 5, s.Final, "four literals, duplicates included")
	assert.Equal(t, []Patch{{Symbol: 'c', Target: 2}}, s.Pending)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 2, s.Next)
	assert.Equal(t, PhaseBuilding, s.Phase)
}

func TestNewBuilder_Errors(t *testing.T) {
	_, err := NewBuilder("")
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = NewBuilder("*a")
	assert.ErrorIs(t, err, ErrDanglingOperator)

	_, err = NewBuilder("aΣ")
	assert.ErrorIs(t, err, ErrReservedSymbol)
}

func TestBuilder_Literal(t *testing.T) {
	b, err := NewBuilder("ab")
	require.NoError(t, err)

	require.NoError(t, b.ApplyLiteral('a'))
	s := b.Snapshot()
	assert.Equal(t, [][]int{{2, 1, 1}}, s.Rows)
	assert.Equal(t, 3, s.Next)
	assert.Equal(t, 2, s.Current)

	require.NoError(t, b.ApplyLiteral('b'))
	s = b.Snapshot()
	assert.Equal(t, [][]int{{2, 1, 1}, {2, 3, 1}}, s.Rows, "pending entry for 'a' is reused")

	assert.ErrorIs(t, b.ApplyLiteral('z'), ErrUnknownLiteral)
	assert.ErrorIs(t, b.ApplyLiteral('*'), ErrReservedSymbol)
}

func TestBuilder_Star(t *testing.T) {
	b, err := NewBuilder("a*b")
	require.NoError(t, err)

	require.NoError(t, b.ApplyLiteral('a'))
	require.NoError(t, b.ApplyStar())

	s := b.Snapshot()
	assert.Equal(t, PhaseRepeatOpen, s.Phase)
	assert.Equal(t, [][]int{{2, 3, 1}}, s.Rows)
	assert.Equal(t, 3, s.Next)
	assert.Equal(t, 2, s.Current)

	require.NoError(t, b.ApplyLiteral('b'))
	s = b.Snapshot()
	assert.Equal(t, PhaseBuilding, s.Phase)
	assert.Equal(t, []Patch{{Symbol: 'a', Target: 2}, {Symbol: 'b', Target: 3}}, s.Pending)
	assert.Equal(t, [][]int{{2, 3, 1}, {2, 3, 1}}, s.Rows)

	a, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2, 3, 1}, {2, 3, 1}, {3, 3, 3}}, rows(a))
	assert.Equal(t, []int{3}, a.Accept)
	assert.Equal(t, 1, a.Start)
}

func TestBuilder_Plus(t *testing.T) {
	b, err := NewBuilder("a+b")
	require.NoError(t, err)

	require.NoError(t, b.ApplyLiteral('a'))
	require.NoError(t, b.ApplyPlus())

	s := b.Snapshot()
	assert.Equal(t, PhaseBuilding, s.Phase)
	assert.Equal(t, [][]int{{2, 1, 1}}, s.Rows)
	assert.Equal(t, 3, s.Next)
	assert.Equal(t, 2, s.Current)

	require.NoError(t, b.ApplyLiteral('b'))
	a, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2, 1, 1}, {2, 3, 1}, {3, 3, 3}}, rows(a))
}

func TestBuilder_Alternation(t *testing.T) {
	b, err := NewBuilder("a|b")
	require.NoError(t, err)

	require.NoError(t, b.ApplyLiteral('a'))
	require.NoError(t, b.ApplyAlternation())

	s := b.Snapshot()
	assert.Equal(t, PhaseBranchOpen, s.Phase)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, []int{2}, s.Branches)
	assert.Equal(t, [][]int{{2, 1, 1}, {2, 2, 2}}, s.Rows)

	require.NoError(t, b.ApplyLiteral('b'))
	s = b.Snapshot()
	assert.Len(t, s.Rows, 2, "a branch-closing literal does not append a row")
	assert.Equal(t, []int{2, 3, 1}, s.Rows[0])

	a, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2, 3, 1}, {2, 2, 2}, {3, 3, 3}}, rows(a))
	assert.Equal(t, []int{3, 2}, a.Accept)
}

func TestBuilder_DanglingOperators(t *testing.T) {
	tests := []struct {
		name  string
		apply func(b *Builder) error
	}{
		{"Double star", func(b *Builder) error { return b.ApplyStar() }},
		{"Plus after star", func(b *Builder) error { return b.ApplyPlus() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuilder("ab")
			require.NoError(t, err)
			require.NoError(t, b.ApplyLiteral('a'))
			require.NoError(t, b.ApplyStar())
			assert.ErrorIs(t, tt.apply(b), ErrDanglingOperator)
		})
	}

	b, err := NewBuilder("ab")
	require.NoError(t, err)
	require.NoError(t, b.ApplyLiteral('a'))
	require.NoError(t, b.ApplyAlternation())
	assert.ErrorIs(t, b.ApplyAlternation(), ErrDanglingOperator)
	assert.ErrorIs(t, b.ApplyStar(), ErrDanglingOperator)
	assert.ErrorIs(t, b.ApplyPlus(), ErrDanglingOperator)

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrDanglingOperator, "trailing alternation")
}

func TestBuilder_Sealed(t *testing.T) {
	b, err := NewBuilder("a")
	require.NoError(t, err)
	require.NoError(t, b.ApplyLiteral('a'))

	_, err = b.Finalize()
	require.NoError(t, err)

	assert.ErrorIs(t, b.ApplyLiteral('a'), ErrSealed)
	assert.ErrorIs(t, b.ApplyAlternation(), ErrSealed)
	assert.ErrorIs(t, b.ApplyStar(), ErrSealed)
	assert.ErrorIs(t, b.ApplyPlus(), ErrSealed)
	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrSealed)
}

func TestBuilder_FinalizeWithoutLiterals(t *testing.T) {
	b, err := NewBuilder("a")
	require.NoError(t, err)

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrEmptyPattern)
}
