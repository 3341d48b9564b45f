package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
)

// Store implements ports.DefinitionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*definition.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store seeded with docs, keyed by name.
func NewStore(docs ...*definition.Document) (*Store, error) {
	s := &Store{
		data: make(map[string]*definition.Document),
	}
	for _, doc := range docs {
		if doc.Name == "" {
			return nil, fmt.Errorf("definition missing name")
		}
		s.data[doc.Name] = clone(doc)
	}
	return s, nil
}

// Save persists the definition in memory.
func (s *Store) Save(ctx context.Context, name string, doc *definition.Document) error {
	copied := clone(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load retrieves the definition from memory.
func (s *Store) Load(ctx context.Context, name string) (*definition.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
	}

	// Copy on read so callers can't mutate the store through the pointer.
	return clone(doc), nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func clone(doc *definition.Document) *definition.Document {
	c := *doc
	c.Alphabet = slices.Clone(doc.Alphabet)
	c.Accept = slices.Clone(doc.Accept)
	c.Transitions = make([][]any, len(doc.Transitions))
	for i, row := range doc.Transitions {
		cells := make([]any, len(row))
		for j, cell := range row {
			if m, ok := cell.(map[string]any); ok {
				cell = maps.Clone(m)
			}
			cells[j] = cell
		}
		c.Transitions[i] = cells
	}
	return &c
}
