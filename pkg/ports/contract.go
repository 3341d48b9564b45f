package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractDocument(name string) *definition.Document {
	return &definition.Document{
		Name:        name,
		Description: "ends in x",
		Alphabet:    []string{"x", "y"},
		Start:       1,
		Accept:      []int{2},
		Transitions: [][]any{{2, 1}, {2, 1}},
	}
}

// RunDefinitionStoreContract runs a suite of tests to verify that a
// DefinitionStore implementation adheres to the defined interface contract.
func RunDefinitionStoreContract(t *testing.T, store DefinitionStore) {
	ctx := context.Background()
	name := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument(name)

		err := store.Save(ctx, name, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, name, loaded.Name)
		assert.Equal(t, doc.Alphabet, loaded.Alphabet)
		assert.Equal(t, doc.Accept, loaded.Accept)

		// Serializing stores hand back float64 or json.Number cells; the
		// decoded automaton must be identical either way.
		want, err := doc.ToAutomaton()
		require.NoError(t, err)
		got, err := loaded.ToAutomaton()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, name, contractDocument(name))
		require.NoError(t, err)

		err = store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound, "Load after Delete should return ErrDefinitionNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		n1 := name + "-1"
		n2 := name + "-2"
		_ = store.Save(ctx, n1, contractDocument(n1))
		_ = store.Save(ctx, n2, contractDocument(n2))

		defer func() {
			_ = store.Delete(ctx, n1)
			_ = store.Delete(ctx, n2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, n1)
		assert.Contains(t, names, n2)
	})
}
