package ports

import (
	"context"

	"github.com/aretw0/automata/pkg/definition"
)

// DefinitionLoader retrieves automaton definitions by name.
// This allows the source (Loam repository, file store, Redis) to be decoupled
// from the commands and adapters that run definitions.
type DefinitionLoader interface {
	// Load retrieves the definition stored under name.
	// Returns domain.ErrDefinitionNotFound if it does not exist.
	Load(ctx context.Context, name string) (*definition.Document, error)

	// List returns the names of all available definitions.
	List(ctx context.Context) ([]string, error)
}
