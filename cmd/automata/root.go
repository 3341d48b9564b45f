package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "automata",
	Short: "Automata validates, simulates and compiles finite automata",
	Long: `Automata loads deterministic and stack automata from YAML, JSON or Markdown
definitions, runs input sentences through them with a full transition trace,
and compiles simple patterns into deterministic automata.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log run events to stderr")
	rootCmd.PersistentFlags().String("store-dir", ".automata/definitions", "Directory of the file definition store")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL of the definition store (overrides --store-dir)")
	rootCmd.PersistentFlags().String("repo", "", "Document repository to resolve definition names from (read-only)")
}
