package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the outcome of a completed run.
type Verdict int

const (
	Reject Verdict = iota
	Accept
)

func (v Verdict) String() string {
	if v == Accept {
		return "Accept"
	}
	return "Reject"
}

// MarshalText encodes the verdict as "accept" or "reject".
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(v.String())), nil
}

// UnmarshalText decodes "accept" or "reject".
func (v *Verdict) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "accept":
		*v = Accept
	case "reject":
		*v = Reject
	default:
		return fmt.Errorf("unknown verdict %q", string(b))
	}
	return nil
}

// Step is one trace record: the transition from one state to another on a symbol.
// Stack holds a bottom-to-top snapshot after the transition (stack runs only).
// Pivot marks the middle symbol of an odd-length stack run.
type Step struct {
	From   int
	Symbol rune
	To     int
	Stack  []rune
	Pivot  bool
}

// String renders the step as δ(qFrom, symbol) → qTo.
func (s Step) String() string {
	return fmt.Sprintf("δ(q%d, %c) → q%d", s.From, s.Symbol, s.To)
}

type stepWire struct {
	From   int    `json:"from"`
	Symbol string `json:"symbol"`
	To     int    `json:"to"`
	Stack  string `json:"stack,omitempty"`
	Pivot  bool   `json:"pivot,omitempty"`
}

// MarshalJSON encodes runes as strings so traces stay readable.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepWire{
		From:   s.From,
		Symbol: string(s.Symbol),
		To:     s.To,
		Stack:  string(s.Stack),
		Pivot:  s.Pivot,
	})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (s *Step) UnmarshalJSON(b []byte) error {
	var w stepWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	sym := []rune(w.Symbol)
	if len(sym) != 1 {
		return fmt.Errorf("step symbol must be a single character, got %q", w.Symbol)
	}
	*s = Step{From: w.From, Symbol: sym[0], To: w.To, Pivot: w.Pivot}
	if w.Stack != "" {
		s.Stack = []rune(w.Stack)
	}
	return nil
}

// Result is the observable outcome of a run.
// On execution errors the executors return the partial Result (trace so far)
// together with the error; Verdict is meaningless in that case.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Final   int     `json:"final"`
	Trace   []Step  `json:"trace"`
}

// Accepted is a shorthand for Verdict == Accept.
func (r *Result) Accepted() bool {
	return r != nil && r.Verdict == Accept
}

// Path returns the sequence of visited states, starting with the state the run began in.
func (r *Result) Path() []int {
	if r == nil || len(r.Trace) == 0 {
		return nil
	}
	path := make([]int, 0, len(r.Trace)+1)
	path = append(path, r.Trace[0].From)
	for _, s := range r.Trace {
		path = append(path, s.To)
	}
	return path
}
