package ports

import (
	"context"
	"testing"

	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAutomatonStoreContract runs a suite of tests to verify that an
// AutomatonStore implementation adheres to the defined interface contract.
// The store must be empty when the suite starts.
func RunAutomatonStoreContract(t *testing.T, store AutomatonStore) {
	ctx := context.Background()

	def := &domain.Definition{
		States:   3,
		Alphabet: domain.Alphabet{'0', '1'},
		Initial:  0,
		Table:    []domain.State{0, 1, 2, 0, 1, 2},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, 3, def)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, 3)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, def, loaded)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, 3)
		require.NoError(t, err)
		loaded.Table[0] = domain.NoState

		again, err := store.Load(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, domain.State(0), again.Table[0], "mutating a loaded definition must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, 424242)
		assert.ErrorIs(t, err, domain.ErrAutomatonNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, 2, &domain.Definition{
			States:   2,
			Alphabet: domain.Alphabet{'0', '1'},
			Table:    []domain.State{0, 1, 0, 1},
		}))

		moduli, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, moduli)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, 3)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrAutomatonNotFound, "Load after Delete should return ErrAutomatonNotFound")

		assert.NoError(t, store.Delete(ctx, 3), "Delete is idempotent")

		moduli, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, moduli)
	})
}
