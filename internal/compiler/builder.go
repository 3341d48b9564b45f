package compiler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/automata/internal/validator"
	"github.com/aretw0/automata/pkg/domain"
)

var (
	ErrEmptyPattern     = errors.New("empty pattern")
	ErrReservedSymbol   = errors.New("reserved symbol in pattern")
	ErrDanglingOperator = errors.New("operator does not follow a literal")
	ErrUnknownLiteral   = errors.New("literal outside the pattern alphabet")
	ErrSealed           = errors.New("builder is sealed")
)

// Operators recognized by the compiler.
const (
	OpAlternation = '|'
	OpStar        = '*'
	OpPlus        = '+'
)

// IsOperator reports whether r is one of the three pattern operators.
func IsOperator(r rune) bool {
	return r == OpAlternation || r == OpStar || r == OpPlus
}

// Phase drives operator dispatch in place of a "previous character" flag.
type Phase int

const (
	// PhaseBuilding is the default: the last token was a literal (or '+').
	PhaseBuilding Phase = iota
	// PhaseBranchOpen follows '|': the next literal patches the first row.
	PhaseBranchOpen
	// PhaseRepeatOpen follows '*': the next literal becomes a pending patch.
	PhaseRepeatOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseBranchOpen:
		return "branch-open"
	case PhaseRepeatOpen:
		return "repeat-open"
	default:
		return "building"
	}
}

// Patch is a forward reference: cells reading Symbol that still point at the
// reject sink are redirected to Target when the table is finalized.
type Patch struct {
	Symbol rune
	Target int
}

// Builder assembles a deterministic automaton one pattern token at a time.
// It is not safe for concurrent use. Once Finalize succeeds the builder is
// sealed and every further call returns ErrSealed.
type Builder struct {
	alphabet []rune
	rows     [][]int
	branches []int
	pending  []Patch
	current  int
	next     int
	final    int
	last     rune
	phase    Phase
	sealed   bool
}

// NewBuilder derives the alphabet and the final state from pattern and
// returns a builder positioned before its first token.
//
// The alphabet is every distinct literal, sorted, followed by the Wildcard.
// The final accept state is the number of literals (duplicates included) plus one.
func NewBuilder(pattern string) (*Builder, error) {
	runes := []rune(pattern)
	if len(runes) == 0 {
		return nil, ErrEmptyPattern
	}
	if IsOperator(runes[0]) {
		return nil, fmt.Errorf("%w: pattern starts with %q", ErrDanglingOperator, runes[0])
	}

	var literals []rune
	for _, r := range runes {
		if IsOperator(r) {
			continue
		}
		if r == domain.Wildcard || r == domain.Epsilon {
			return nil, fmt.Errorf("%w: %q", ErrReservedSymbol, r)
		}
		literals = append(literals, r)
	}

	alphabet := slices.Clone(literals)
	slices.Sort(alphabet)
	alphabet = slices.Compact(alphabet)
	alphabet = append(alphabet, domain.Wildcard)

	return &Builder{
		alphabet: alphabet,
		pending:  []Patch{{Symbol: runes[0], Target: 2}},
		current:  1,
		next:     2,
		final:    len(literals) + 1,
		phase:    PhaseBuilding,
	}, nil
}

// ApplyLiteral appends the row reading c.
// Inside an open branch the row is not appended; instead the first row's
// c column is pointed at the new state.
func (b *Builder) ApplyLiteral(c rune) error {
	if b.sealed {
		return ErrSealed
	}
	if IsOperator(c) || c == domain.Wildcard || c == domain.Epsilon {
		return fmt.Errorf("%w: %q", ErrReservedSymbol, c)
	}
	col := b.column(c)
	if col < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLiteral, c)
	}

	switch b.phase {
	case PhaseBranchOpen:
		b.rows[0][col] = b.next
		b.pending = append(b.pending, Patch{Symbol: c, Target: b.next})
	case PhaseRepeatOpen:
		b.pending = append(b.pending, Patch{Symbol: c, Target: b.next})
	}

	row := make([]int, len(b.alphabet))
	for i, a := range b.alphabet {
		if a == c {
			row[i] = b.next
			continue
		}
		row[i] = b.patched(a)
	}

	if b.phase != PhaseBranchOpen {
		b.rows = append(b.rows, row)
	}
	b.next++
	b.current++
	b.last = c
	b.phase = PhaseBuilding
	return nil
}

// ApplyAlternation closes the current branch: an absorbing row is appended
// and marked accepting, and construction restarts from the start state.
func (b *Builder) ApplyAlternation() error {
	if b.sealed {
		return ErrSealed
	}
	if b.last == 0 || b.phase == PhaseBranchOpen || len(b.rows) == 0 {
		return fmt.Errorf("%w: %q", ErrDanglingOperator, OpAlternation)
	}

	k := len(b.rows) + 1
	b.branches = append(b.branches, k)
	b.rows = append(b.rows, fill(len(b.alphabet), k))
	b.current = 1
	b.phase = PhaseBranchOpen
	return nil
}

// ApplyStar rebuilds the last row so the repeated literal loops and the first
// other literal moves forward. Counters step back by two and are re-derived.
func (b *Builder) ApplyStar() error {
	if err := b.checkRepeat(OpStar); err != nil {
		return err
	}

	b.rows = b.rows[:len(b.rows)-1]
	b.next -= 2
	b.current -= 2

	row := make([]int, len(b.alphabet))
	forwarded := false
	for i, a := range b.alphabet {
		switch {
		case a == b.last:
			b.next++
			row[i] = b.next
		case a == domain.Wildcard:
			row[i] = domain.RejectSink
		default:
			if target, ok := b.pendingTarget(a); ok {
				row[i] = target
			} else if !forwarded {
				b.next++
				row[i] = b.next
				forwarded = true
			} else {
				row[i] = domain.RejectSink
			}
		}
	}

	b.rows = append(b.rows, row)
	b.current += 2
	b.phase = PhaseRepeatOpen
	return nil
}

// ApplyPlus rebuilds the last row so the repeated literal is a self-loop.
func (b *Builder) ApplyPlus() error {
	if err := b.checkRepeat(OpPlus); err != nil {
		return err
	}

	b.rows = b.rows[:len(b.rows)-1]
	b.next--
	b.current--

	row := make([]int, len(b.alphabet))
	for i, a := range b.alphabet {
		if a == b.last {
			row[i] = b.next
			continue
		}
		row[i] = b.patched(a)
	}

	b.rows = append(b.rows, row)
	b.next++
	b.current++
	return nil
}

// Finalize back-patches the table, appends the absorbing accept row, seals
// the builder and validates the result.
func (b *Builder) Finalize() (*domain.Automaton, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	if b.last == 0 {
		return nil, ErrEmptyPattern
	}
	if b.phase == PhaseBranchOpen {
		return nil, fmt.Errorf("%w: pattern ends with %q", ErrDanglingOperator, OpAlternation)
	}

	for _, row := range b.rows {
		for i, a := range b.alphabet {
			if a == domain.Wildcard || row[i] != domain.RejectSink {
				continue
			}
			if target, ok := b.pendingTarget(a); ok {
				row[i] = target
			}
		}
	}
	b.rows = append(b.rows, fill(len(b.alphabet), b.final))
	b.sealed = true

	accept := append([]int{b.final}, b.branches...)
	a := domain.NewDeterministic(b.alphabet, 1, accept, b.rows)
	if err := validator.Validate(a); err != nil {
		return nil, fmt.Errorf("synthesized table is invalid: %w", err)
	}
	return a, nil
}

// Snapshot is a copy of the construction state, for inspection and tests.
type Snapshot struct {
	Phase    Phase
	Current  int
	Next     int
	Final    int
	Alphabet []rune
	Rows     [][]int
	Branches []int
	Pending  []Patch
}

// Snapshot returns a deep copy of the current construction state.
func (b *Builder) Snapshot() Snapshot {
	rows := make([][]int, len(b.rows))
	for i, r := range b.rows {
		rows[i] = slices.Clone(r)
	}
	return Snapshot{
		Phase:    b.phase,
		Current:  b.current,
		Next:     b.next,
		Final:    b.final,
		Alphabet: slices.Clone(b.alphabet),
		Rows:     rows,
		Branches: slices.Clone(b.branches),
		Pending:  slices.Clone(b.pending),
	}
}

func (b *Builder) checkRepeat(op rune) error {
	if b.sealed {
		return ErrSealed
	}
	if b.last == 0 || b.phase != PhaseBuilding || len(b.rows) == 0 {
		return fmt.Errorf("%w: %q", ErrDanglingOperator, op)
	}
	return nil
}

func (b *Builder) column(c rune) int {
	return slices.Index(b.alphabet, c)
}

// pendingTarget looks a symbol up in the pending list; the latest entry wins.
func (b *Builder) pendingTarget(symbol rune) (int, bool) {
	for i := len(b.pending) - 1; i >= 0; i-- {
		if b.pending[i].Symbol == symbol {
			return b.pending[i].Target, true
		}
	}
	return 0, false
}

// patched is the target of a column that is not being built explicitly.
func (b *Builder) patched(symbol rune) int {
	if target, ok := b.pendingTarget(symbol); ok {
		return target
	}
	return domain.RejectSink
}

func fill(n, state int) []int {
	row := make([]int, n)
	for i := range row {
		row[i] = state
	}
	return row
}
