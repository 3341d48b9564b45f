package domain

// Reserved symbols.
const (
	// Epsilon labels a transition taken without consuming input.
	Epsilon rune = 'Ɛ'

	// Wildcard matches any input symbol not otherwise enumerated.
	// Only compiler-synthesized automata carry it.
	Wildcard rune = 'Σ'

	// BottomMarker is the sentinel pushed before a stack run starts.
	BottomMarker rune = '$'
)

// RejectSink is the state every unmatched transition falls back to in
// compiler-synthesized automata.
const RejectSink = 1

// Kind selects the transition cell shape of an automaton.
type Kind string

const (
	KindDeterministic Kind = "deterministic"
	KindStack         Kind = "stack"
)

// IsReserved reports whether r is one of the reserved symbols.
func IsReserved(r rune) bool {
	return r == Epsilon || r == Wildcard || r == BottomMarker
}
