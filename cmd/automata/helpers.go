package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/logging"
	"github.com/aretw0/automata/pkg/adapters/file"
	"github.com/aretw0/automata/pkg/adapters/redis"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/observability"
	"github.com/aretw0/automata/pkg/ports"
	"github.com/spf13/cobra"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout traces).
func createLogger(cmd *cobra.Command) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// createDebugHooks logs every run event in debug mode and is empty otherwise.
func createDebugHooks(cmd *cobra.Command, logger *slog.Logger) domain.LifecycleHooks {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return observability.LoggingHooks(logger)
	}
	return domain.LifecycleHooks{}
}

// machineOptions returns the options shared by every command that builds a Machine.
func machineOptions(cmd *cobra.Command) []automata.Option {
	logger := createLogger(cmd)
	return []automata.Option{
		automata.WithLogger(logger),
		automata.WithLifecycleHooks(createDebugHooks(cmd, logger)),
	}
}

// openStore selects the definition store from the persistent flags.
func openStore(cmd *cobra.Command) (ports.DefinitionStore, error) {
	if url, _ := cmd.Flags().GetString("redis"); url != "" {
		store, err := redis.NewFromURL(url)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return store, nil
	}
	dir, _ := cmd.Flags().GetString("store-dir")
	return file.New(dir), nil
}

// loadMachine resolves ref as a definition file, a document in --repo, or a
// stored name, in that order.
func loadMachine(cmd *cobra.Command, ref string, extra ...automata.Option) (*automata.Machine, error) {
	opts := append(machineOptions(cmd), extra...)

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return automata.Load(ref, opts...)
	}

	if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
		return automata.Open(repo, ref, opts...)
	}

	store, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	doc, err := store.Load(cmd.Context(), ref)
	if err != nil {
		return nil, err
	}
	return automata.FromDocument(doc, opts...)
}
