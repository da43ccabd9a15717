package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "lecturers", `[{"id":1}]`))
	value, err := store.Get(ctx, "lecturers")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, value)

	require.NoError(t, store.Remove(ctx, "lecturers", "missing"))
	_, err = store.Get(ctx, "lecturers")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryHonorsContextCancellation(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Set(ctx, "k", "v"))
	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
}
