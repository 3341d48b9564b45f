package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize is the symbol limit of one sentence.
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize.
const EnvMaxInputSize = "AUTOMATA_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput prepares one sentence for a run. The sentence must be valid
// UTF-8 and at most the configured number of symbols long; it is rejected,
// never truncated. Control characters other than tab are dropped so terminal
// escapes cannot reach the automaton or the trace output.
func SanitizeInput(input string) (string, error) {
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	limit := maxInputSize()
	if n := utf8.RuneCountInString(input); n > limit {
		return "", fmt.Errorf("%w: symbols=%d limit=%d", ErrInputTooLarge, n, limit)
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' {
			return -1
		}
		return r
	}, input), nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
