package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

const dotHeader = "digraph finite_state_machine {\nrankdir=LR;"

// GenerateDOT produces a Graphviz definition of the automaton:
// an invisible point "qi" pointing at the start state, double circles for
// accept states and one labelled edge per transition cell.
func GenerateDOT(a *domain.Automaton) string {
	var sb strings.Builder
	sb.WriteString(dotHeader)

	for _, s := range a.Accept {
		fmt.Fprintf(&sb, "\nnode [shape = doublecircle]; %d", s)
	}
	sb.WriteString("\nnode [shape = point ]; qi")
	sb.WriteString("\nnode [shape = circle]")
	fmt.Fprintf(&sb, "\nqi -> %d", a.Start)

	for i, row := range a.Transitions {
		for j, cell := range row {
			if j >= len(a.Alphabet) {
				break
			}
			label := strings.ReplaceAll(domain.Label(a.Alphabet[j], cell), "\"", "\\\"")
			fmt.Fprintf(&sb, "\n\t%d -> %d [ label = \"%s\"];", i+1, cell.Next(), label)
		}
	}

	sb.WriteString("\n}")
	return sb.String()
}

// GenerateChainDOT draws a linear chain through the named states: the first
// name is the start state and the last one accepts.
func GenerateChainDOT(names []string) string {
	if len(names) == 0 {
		return dotHeader + "\n}"
	}

	var sb strings.Builder
	sb.WriteString(dotHeader)
	fmt.Fprintf(&sb, "\nnode [shape = doublecircle]; %s", dotID(names[len(names)-1]))
	sb.WriteString("\nnode [shape = point ]; qi")
	sb.WriteString("\nnode [shape = circle]")
	fmt.Fprintf(&sb, "\nqi -> %s", dotID(names[0]))

	for i := 1; i < len(names); i++ {
		fmt.Fprintf(&sb, "\n%s -> %s", dotID(names[i-1]), dotID(names[i]))
	}

	sb.WriteString("\n}")
	return sb.String()
}

// dotID quotes names that are not plain Graphviz identifiers.
func dotID(name string) string {
	for _, r := range name {
		if r != '_' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') {
			return strconv.Quote(name)
		}
	}
	if name == "" {
		return `""`
	}
	return name
}
