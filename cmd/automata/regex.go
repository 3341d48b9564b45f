package main

import (
	"fmt"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/spf13/cobra"
)

// regexCmd represents the regex command
var regexCmd = &cobra.Command{
	Use:   "regex <pattern>",
	Short: "Compile a pattern and run sentences through it",
	Long: `Compiles a pattern of literal characters with the postfix operators '|', '*'
and '+' into a deterministic automaton. Characters outside the pattern follow
the wildcard column. With --print the compiled definition is written as YAML
(or JSON with --format json) instead of reading sentences.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := automata.Compile(args[0], machineOptions(cmd)...)
		if err != nil {
			return err
		}

		if printDef, _ := cmd.Flags().GetBool("print"); printDef {
			format, _ := cmd.Flags().GetString("format")
			doc := definition.FromAutomaton(m.Automaton())
			doc.Name = args[0]
			data, err := definition.Marshal(doc, definition.Format(format))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		}

		return simulate(cmd, m)
	},
}

func init() {
	rootCmd.AddCommand(regexCmd)
	addSimulationFlags(regexCmd)
	regexCmd.Flags().Bool("print", false, "Print the compiled definition and exit")
	regexCmd.Flags().String("format", "yaml", "Format of --print: yaml or json")
}
