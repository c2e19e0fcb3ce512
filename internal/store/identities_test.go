package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIdentity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	identity, err := store.CreateIdentity(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, identity.ID)
	assert.False(t, identity.CreatedAt.IsZero())

	loaded, err := store.GetIdentity(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, loaded.ID)
}

func TestGetIdentity_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetIdentity(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTouchIdentity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	identity, err := store.CreateIdentity(ctx)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, store.TouchIdentity(ctx, identity.ID))

	loaded, err := store.GetIdentity(ctx, identity.ID)
	require.NoError(t, err)
	assert.True(t, loaded.LastSeen.After(identity.LastSeen))
}

func TestTouchIdentity_MissingIsNoop(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, store.TouchIdentity(context.Background(), "missing"))
}
