package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// DescribeMarkdown renders a Markdown summary of the automaton with its
// transition table. Start and accept states are marked "→" and "*".
func DescribeMarkdown(a *domain.Automaton) string {
	var sb strings.Builder

	name := a.Name
	if name == "" {
		name = "automaton"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "- **Kind**: %s\n", a.Kind)
	fmt.Fprintf(&sb, "- **States**: %d\n", a.States())
	fmt.Fprintf(&sb, "- **Alphabet**: %s\n", symbols(a.Alphabet))
	fmt.Fprintf(&sb, "- **Start**: q%d\n", a.Start)
	accept := make([]string, len(a.Accept))
	for i, s := range a.Accept {
		accept[i] = fmt.Sprintf("q%d", s)
	}
	fmt.Fprintf(&sb, "- **Accept**: %s\n\n", strings.Join(accept, ", "))

	sb.WriteString("| state |")
	for _, s := range a.Alphabet {
		fmt.Fprintf(&sb, " %c |", s)
	}
	sb.WriteString("\n|---|")
	sb.WriteString(strings.Repeat("---|", len(a.Alphabet)))
	sb.WriteString("\n")

	for i, row := range a.Transitions {
		state := i + 1
		marker := ""
		if state == a.Start {
			marker += "→"
		}
		if a.IsAccepting(state) {
			marker += "*"
		}
		fmt.Fprintf(&sb, "| %sq%d |", marker, state)
		for _, cell := range row {
			fmt.Fprintf(&sb, " %s |", cellText(cell))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cellText(c domain.Cell) string {
	if op, ok := c.(domain.StackOp); ok {
		return fmt.Sprintf("q%d, %c → %c", op.Target, op.Pop, op.Push)
	}
	return fmt.Sprintf("q%d", c.Next())
}

func symbols(alphabet []rune) string {
	parts := make([]string, len(alphabet))
	for i, s := range alphabet {
		parts[i] = fmt.Sprintf("`%c`", s)
	}
	return strings.Join(parts, ", ")
}
