// Package storetest holds the behaviour every store.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
	"github.com/ha1tch/fsm-canvas/pkg/store"
)

func sampleDocument() codec.Document {
	start := "q0"
	return codec.Document{
		States:      []string{"q0", "q1"},
		Alphabet:    []string{"x"},
		Transitions: []codec.Transition{{From: "q0", Symbol: "x", To: "q1"}},
		Start:       &start,
		Accepting:   []string{"q1"},
	}
}

// RunContract runs the shared suite against an empty store.
func RunContract(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		ids, err := s.IDs(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)

		_, ok, err := s.Active(ctx)
		require.NoError(t, err)
		assert.False(t, ok, "no active id on a fresh store")

		cmp, err := s.Comparison(ctx)
		require.NoError(t, err)
		assert.Empty(t, cmp)
	})

	t.Run("Put and Get", func(t *testing.T) {
		doc := sampleDocument()
		require.NoError(t, s.Put(ctx, 1, doc))

		loaded, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, doc, loaded)

		// stored copy is isolated from the caller
		doc.States[0] = "mutated"
		loaded, err = s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "q0", loaded.States[0])
	})

	t.Run("Null start survives", func(t *testing.T) {
		doc := sampleDocument()
		doc.Start = nil
		require.NoError(t, s.Put(ctx, 2, doc))
		loaded, err := s.Get(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, loaded.Start)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := s.Get(ctx, 999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("IDs sorted", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, 10, sampleDocument()))
		require.NoError(t, s.Put(ctx, 3, sampleDocument()))
		ids, err := s.IDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 10}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, 10))
		_, err := s.Get(ctx, 10)
		assert.ErrorIs(t, err, store.ErrNotFound)
		ids, err := s.IDs(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, 10)
		assert.NoError(t, s.Delete(ctx, 10), "deleting twice is not an error")
	})

	t.Run("Active", func(t *testing.T) {
		require.NoError(t, s.SetActive(ctx, 3))
		id, ok, err := s.Active(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, id)
	})

	t.Run("Comparison", func(t *testing.T) {
		require.NoError(t, s.SetComparison(ctx, []int{1, 3}))
		cmp, err := s.Comparison(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, cmp)

		err = s.SetComparison(ctx, []int{1, 2, 3})
		assert.ErrorIs(t, err, store.ErrTooManySelected)
		cmp, err = s.Comparison(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, cmp, "rejected selection must not replace the previous one")

		require.NoError(t, s.SetComparison(ctx, nil))
		cmp, err = s.Comparison(ctx)
		require.NoError(t, err)
		assert.Empty(t, cmp)
	})
}
