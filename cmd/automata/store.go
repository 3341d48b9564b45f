package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the definition store",
	Long: `Lists, shows, saves and removes named definitions in the file store
(--store-dir) or the redis store (--redis).`,
}

var storeListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored definitions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		names, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		doc, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		data, err := definition.Marshal(doc, definition.Format(format))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
		return nil
	},
}

var storeSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Validate a definition file and store it",
	Long: `Validates the definition and stores it under --name, or under its own name
(the file name without extension when the document has none).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := definition.Load(args[0])
		if err != nil {
			return err
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			doc.Name = name
		}

		if _, err := automata.FromDocument(doc); err != nil {
			return fmt.Errorf("refusing to store %s: %w", doc.Name, err)
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.Save(cmd.Context(), doc.Name, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", doc.Name)
		return nil
	},
}

var storeRemoveCmd = &cobra.Command{
	Use:     "rm <name>...",
	Aliases: []string{"remove"},
	Short:   "Remove stored definitions",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeListCmd, storeShowCmd, storeSaveCmd, storeRemoveCmd)

	storeShowCmd.Flags().String("format", "yaml", "Output format: yaml or json")
	storeSaveCmd.Flags().String("name", "", "Store under this name")
}
