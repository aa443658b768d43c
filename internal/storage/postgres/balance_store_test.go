package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sniper-terminal/internal/storage"
)

func TestBalanceStore_SeededByMigration(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBalanceStore(pool)

	balance, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 10.0, balance, 1e-9)
}

func TestBalanceStore_Adjust(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBalanceStore(pool)
	ctx := context.Background()

	balance, err := store.Adjust(ctx, -0.5)
	require.NoError(t, err)
	assert.InDelta(t, 9.5, balance, 1e-9)

	balance, err = store.Adjust(ctx, 0.6)
	require.NoError(t, err)
	assert.InDelta(t, 10.1, balance, 1e-9)

	stored, err := store.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.1, stored, 1e-9)
}

func TestBalanceStore_AdjustRefusesNegative(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBalanceStore(pool)
	ctx := context.Background()

	_, err := store.Adjust(ctx, -10.5)
	assert.ErrorIs(t, err, storage.ErrInsufficientBalance)

	// The conditional update must leave the row untouched.
	balance, err := store.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, balance, 1e-9)
}
