package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/internal/store/storetest"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

func TestBackendContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend {
		return NewBackend()
	})
}

func TestAtomicallyDiscardsWritesOnError(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()

	err := b.Properties().Atomically(ctx, func(w store.Writer[types.Property]) error {
		_, err := w.Insert(ctx, types.Property{Title: "Flat A"})
		require.NoError(t, err)
		_, err = w.Append(ctx, types.Activity{Type: "property-created"})
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	all, err := b.Properties().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	acts, err := b.Activities(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, acts)

	var inserted types.Property
	err = b.Properties().Atomically(ctx, func(w store.Writer[types.Property]) error {
		inserted, err = w.Insert(ctx, types.Property{Title: "Flat B"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted.ID, "discarded units of work do not consume ids")
}

func TestWriterSeesItsOwnWrites(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()

	err := b.Leads().Atomically(ctx, func(w store.Writer[types.Lead]) error {
		l, err := w.Insert(ctx, types.Lead{Name: "Lucía"})
		require.NoError(t, err)

		got, ok, err := w.Find(ctx, l.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Lucía", got.Name)

		require.NoError(t, w.Remove(ctx, l.ID))
		_, ok, err = w.Find(ctx, l.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	all, err := b.Leads().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedBackendRejectsOperations(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Ping(ctx), types.ErrStoreClosed)
	_, err := b.Workflows().All(ctx)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = b.Activities(ctx, 0)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = b.Users().Count(ctx)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	err = b.Workflows().Atomically(ctx, func(store.Writer[types.Workflow]) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreClosed)
}
