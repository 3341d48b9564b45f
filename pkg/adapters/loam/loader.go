package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository to automaton definitions.
// Each document's frontmatter (or JSON/YAML body) is decoded into a
// definition.Document; a Markdown body becomes its description.
type Loader struct {
	Repo *loam.TypedRepository[definition.Document]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[definition.Document]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Load retrieves the definition stored under id.
// Loam resolves "palindrome" to palindrome.md, .json or .yaml.
func (l *Loader) Load(ctx context.Context, id string) (*definition.Document, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if !l.exists(ctx, id) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	def := doc.Data
	if def.Name == "" {
		def.Name = trimExtension(doc.ID)
	}
	def.Name = trimExtension(def.Name)
	if def.Description == "" {
		def.Description = strings.TrimSpace(doc.Content)
	}
	return &def, nil
}

// List returns the normalized names of every definition in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		rawName := doc.Data.Name
		if rawName == "" {
			rawName = doc.ID
		}
		name := trimExtension(rawName)

		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: automaton '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

// exists reports whether a listing of the repository contains id.
// Loam does not expose a not-found sentinel of its own.
func (l *Loader) exists(ctx context.Context, id string) bool {
	names, err := l.List(ctx)
	if err != nil {
		return true
	}
	return slices.Contains(names, trimExtension(id))
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
