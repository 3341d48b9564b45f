package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to green, one shade per line.
	lines := []struct {
		text  string
		color string
	}{
		{`              _                        _        `, "#2dd4bf"},
		{`   __ _ _   _| |_ ___  _ __ ___   __ _| |_ __ _ `, "#34d399"},
		{`  / _' | | | | __/ _ \| '_ ' _ \ / _' | __/ _' |`, "#4ade80"},
		{` | (_| | |_| | || (_) | | | | | | (_| | || (_| |`, "#a3e635"},
		{`  \__,_|\__,_|\__\___/|_| |_| |_|\__,_|\__\__,_|`, "#facc15"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// FormatVerdict colours a verdict for terminal output: green for Accept,
// red for Reject.
func FormatVerdict(v domain.Verdict) string {
	p := termenv.ColorProfile()
	color := "#ef4444"
	if v == domain.Accept {
		color = "#22c55e"
	}
	return p.String(v.String()).Foreground(p.Color(color)).Bold().String()
}

// FormatError colours an execution error line.
func FormatError(msg string) string {
	p := termenv.ColorProfile()
	return p.String(msg).Foreground(p.Color("#f97316")).String()
}
