package ports

import (
	"context"

	"github.com/aretw0/automata/pkg/definition"
)

// DefinitionStore persists automaton definitions by name.
type DefinitionStore interface {
	DefinitionLoader

	// Save stores the definition under name, replacing any previous one.
	Save(ctx context.Context, name string, doc *definition.Document) error

	// Delete removes the definition. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}
