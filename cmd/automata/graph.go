package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/automata/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [definition]",
	Short: "Export the automaton as a Graphviz or Mermaid diagram",
	Long: `Outputs the state diagram of a definition as Graphviz DOT (default) or a
Mermaid flowchart. With --input the Mermaid diagram highlights the states the
sentence visited. With --chain a,b,c a linear chain of the named states is
printed instead and no definition is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if chain, _ := cmd.Flags().GetString("chain"); chain != "" {
			fmt.Fprint(out, graph.GenerateChainDOT(strings.Split(chain, ",")))
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("a definition is required unless --chain is set")
		}

		m, err := loadMachine(cmd, args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "dot":
			fmt.Fprint(out, graph.GenerateDOT(m.Automaton()))
		case "mermaid":
			var overlay *graph.GraphOverlay
			if cmd.Flags().Changed("input") {
				input, _ := cmd.Flags().GetString("input")
				res, _ := m.Run(cmd.Context(), input)
				overlay = graph.OverlayFromResult(res)
			}
			fmt.Fprint(out, graph.GenerateMermaid(m.Automaton(), overlay))
		default:
			return fmt.Errorf("unknown format %q: want dot or mermaid", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "dot", "Output format: dot or mermaid")
	graphCmd.Flags().String("input", "", "Highlight the path of this sentence (mermaid only)")
	graphCmd.Flags().String("chain", "", "Comma-separated state names of a linear chain")
}
