package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// GraphOverlay contains run data to highlight on the graph.
type GraphOverlay struct {
	Visited []int
	Current int
}

// OverlayFromResult highlights the states a run went through and the state it
// stopped in.
func OverlayFromResult(res *domain.Result) *GraphOverlay {
	if res == nil {
		return nil
	}
	return &GraphOverlay{
		Visited: res.Path(),
		Current: res.Final,
	}
}

// GenerateMermaid produces a Mermaid flowchart of the automaton.
// It applies semantic styling:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Default: [Rectangle]
// Cells sharing source and target are merged into one edge whose label lists
// every symbol. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(a *domain.Automaton, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for state := 1; state <= a.States(); state++ {
		opener, closer := "[", "]"
		switch {
		case a.IsAccepting(state):
			opener, closer = "(((", ")))"
		case state == a.Start:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"q%d\"%s\n", stateID(state), opener, state, closer))
	}
	if a.Start >= 1 && a.Start <= a.States() {
		sb.WriteString(fmt.Sprintf("    start[ ] --> %s\n", stateID(a.Start)))
		sb.WriteString("    style start fill:none,stroke:none\n")
	}

	for i, row := range a.Transitions {
		var targets []int
		labels := make(map[int][]string)
		for j, cell := range row {
			if j >= len(a.Alphabet) {
				break
			}
			to := cell.Next()
			if _, seen := labels[to]; !seen {
				targets = append(targets, to)
			}
			labels[to] = append(labels[to], escapeLabel(domain.Label(a.Alphabet[j], cell)))
		}
		for _, to := range targets {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", stateID(i+1), strings.Join(labels[to], "<br/>"), stateID(to)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[int]bool)
		for _, s := range overlay.Visited {
			if !visited[s] && s >= 1 {
				visited[s] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", stateID(s)))
			}
		}

		if overlay.Current >= 1 {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", stateID(overlay.Current)))
		}
	}

	return sb.String()
}

func stateID(state int) string {
	return fmt.Sprintf("q%d", state)
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
