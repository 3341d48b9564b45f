package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition>...",
	Short: "Check definitions against the structural invariants",
	Long: `Loads each definition and reports the first violated invariant: the row shape
against the alphabet, then transition targets, the start state and the accept
states.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, ref := range args {
			m, err := loadMachine(cmd, ref)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", ref, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s automaton with %d states ✅\n", ref, m.Kind(), m.Automaton().States())
		}
		if failed > 0 {
			return fmt.Errorf("validation failed for %d of %d definitions", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
