package definition

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Document is the serialized form of an automaton.
// Transitions holds integers for deterministic automata and StackCell values
// (or maps with the same keys) for stack automata.
type Document struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Kind        string   `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Alphabet    []string `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`
	Start       int      `json:"start" yaml:"start" mapstructure:"start"`
	Accept      []int    `json:"accept" yaml:"accept" mapstructure:"accept"`
	Transitions [][]any  `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// StackCell is the serialized form of a stack transition.
type StackCell struct {
	State int    `json:"state" yaml:"state" mapstructure:"state"`
	Pop   string `json:"pop,omitempty" yaml:"pop,omitempty" mapstructure:"pop"`
	Push  string `json:"push,omitempty" yaml:"push,omitempty" mapstructure:"push"`
}

// ToAutomaton converts the document into the domain model.
// It checks the encoding (symbols, cell shapes) but not the structural
// invariants; run the validator on the result before executing it.
func (d *Document) ToAutomaton() (*domain.Automaton, error) {
	alphabet, err := d.symbols()
	if err != nil {
		return nil, err
	}

	kind, err := d.kind()
	if err != nil {
		return nil, err
	}

	table := make([][]domain.Cell, len(d.Transitions))
	for i, row := range d.Transitions {
		cells := make([]domain.Cell, len(row))
		for j, raw := range row {
			cell, err := decodeCell(kind, raw)
			if err != nil {
				return nil, &FieldError{Key: fmt.Sprintf("transitions[%d][%d]", i, j), Err: err, Value: raw}
			}
			cells[j] = cell
		}
		table[i] = cells
	}

	return &domain.Automaton{
		Name:        d.Name,
		Kind:        kind,
		Alphabet:    alphabet,
		Start:       d.Start,
		Accept:      slices.Clone(d.Accept),
		Transitions: table,
	}, nil
}

// FromAutomaton converts a domain automaton into a document.
func FromAutomaton(a *domain.Automaton) *Document {
	d := &Document{
		Name:        a.Name,
		Kind:        string(a.Kind),
		Alphabet:    make([]string, len(a.Alphabet)),
		Start:       a.Start,
		Accept:      slices.Clone(a.Accept),
		Transitions: make([][]any, len(a.Transitions)),
	}
	for i, s := range a.Alphabet {
		d.Alphabet[i] = string(s)
	}
	for i, row := range a.Transitions {
		cells := make([]any, len(row))
		for j, c := range row {
			switch cell := c.(type) {
			case domain.StackOp:
				cells[j] = StackCell{State: cell.Target, Pop: symbolString(cell.Pop), Push: symbolString(cell.Push)}
			default:
				cells[j] = c.Next()
			}
		}
		d.Transitions[i] = cells
	}
	return d
}

func (d *Document) symbols() ([]rune, error) {
	alphabet := make([]rune, len(d.Alphabet))
	for i, s := range d.Alphabet {
		r := []rune(s)
		if len(r) != 1 {
			return nil, &FieldError{Key: fmt.Sprintf("alphabet[%d]", i), Err: ErrInvalidSymbol, Value: s}
		}
		if slices.Contains(alphabet[:i], r[0]) {
			return nil, &FieldError{Key: fmt.Sprintf("alphabet[%d]", i), Err: ErrDuplicateSymbol, Value: s}
		}
		alphabet[i] = r[0]
	}
	return alphabet, nil
}

// kind honours an explicit Kind, otherwise infers it from the first cell and
// rejects tables that mix both shapes.
func (d *Document) kind() (domain.Kind, error) {
	var inferred domain.Kind
	for i, row := range d.Transitions {
		for j, raw := range row {
			k := domain.KindDeterministic
			if isStackCell(raw) {
				k = domain.KindStack
			}
			if inferred == "" {
				inferred = k
				continue
			}
			if k != inferred {
				return "", &FieldError{Key: fmt.Sprintf("transitions[%d][%d]", i, j), Err: ErrMixedCells}
			}
		}
	}

	switch domain.Kind(d.Kind) {
	case "":
		if inferred == "" {
			return domain.KindDeterministic, nil
		}
		return inferred, nil
	case domain.KindDeterministic, domain.KindStack:
		if inferred != "" && inferred != domain.Kind(d.Kind) {
			return "", &FieldError{Key: "kind", Err: ErrMixedCells, Value: d.Kind}
		}
		return domain.Kind(d.Kind), nil
	default:
		return "", &FieldError{Key: "kind", Err: ErrUnknownKind, Value: d.Kind}
	}
}

func isStackCell(raw any) bool {
	switch raw.(type) {
	case StackCell, *StackCell, map[string]any, map[any]any:
		return true
	}
	return false
}

func decodeCell(kind domain.Kind, raw any) (domain.Cell, error) {
	if kind == domain.KindStack {
		var sc StackCell
		if err := decode(raw, &sc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCell, err)
		}
		pop, err := parseSymbol(sc.Pop)
		if err != nil {
			return nil, err
		}
		push, err := parseSymbol(sc.Push)
		if err != nil {
			return nil, err
		}
		return domain.StackOp{Target: sc.State, Pop: pop, Push: push}, nil
	}

	if f, ok := raw.(float64); ok && f != math.Trunc(f) {
		return nil, ErrInvalidCell
	}
	var target int
	if err := decode(raw, &target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}
	return domain.Plain{Target: target}, nil
}

// decode is a weakly typed mapstructure decode, so json.Number, float64 and
// YAML integers all land in int fields.
func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           output,
		DecodeHook:       jsonNumberHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func jsonNumberHook(from, to reflect.Value) (any, error) {
	if n, ok := from.Interface().(json.Number); ok {
		return n.Int64()
	}
	return from.Interface(), nil
}

// parseSymbol maps "" and "Ɛ" to Epsilon.
func parseSymbol(s string) (rune, error) {
	if s == "" {
		return domain.Epsilon, nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return r[0], nil
}

func symbolString(r rune) string {
	if r == domain.Epsilon {
		return ""
	}
	return string(r)
}
