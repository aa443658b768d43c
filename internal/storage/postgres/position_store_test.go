package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

func testPosition(address string, entryTime time.Time) *domain.Position {
	return &domain.Position{
		Address:       address,
		Symbol:        "TOK",
		AvgEntryPrice: 0.001,
		Quantity:      500,
		CurrentPrice:  0.001,
		EntryTime:     entryTime,
	}
}

func TestPositionStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	pos := testPosition("mint-a", time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, store.Insert(ctx, pos))

	retrieved, err := store.GetByAddress(ctx, "mint-a")
	require.NoError(t, err)
	assert.Equal(t, pos.Symbol, retrieved.Symbol)
	assert.InDelta(t, pos.AvgEntryPrice, retrieved.AvgEntryPrice, 1e-12)
	assert.InDelta(t, pos.Quantity, retrieved.Quantity, 1e-9)
	assert.WithinDuration(t, pos.EntryTime, retrieved.EntryTime, time.Millisecond)
}

func TestPositionStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testPosition("mint-a", time.Now())))
	err := store.Insert(ctx, testPosition("mint-a", time.Now()))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPositionStore_ListOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, store.Insert(ctx, testPosition("mint-c", base.Add(2*time.Minute))))
	require.NoError(t, store.Insert(ctx, testPosition("mint-a", base)))
	require.NoError(t, store.Insert(ctx, testPosition("mint-b", base.Add(time.Minute))))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "mint-a", list[0].Address)
	assert.Equal(t, "mint-b", list[1].Address)
	assert.Equal(t, "mint-c", list[2].Address)
}

func TestPositionStore_UpdateValuationAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPositionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testPosition("mint-a", time.Now())))

	require.NoError(t, store.UpdateValuation(ctx, "mint-a", 0.0012, 0.1, 20.0))
	pos, err := store.GetByAddress(ctx, "mint-a")
	require.NoError(t, err)
	assert.InDelta(t, 0.0012, pos.CurrentPrice, 1e-12)
	assert.InDelta(t, 0.1, pos.PnL, 1e-9)
	assert.InDelta(t, 20.0, pos.PnLPct, 1e-9)

	assert.ErrorIs(t, store.UpdateValuation(ctx, "missing", 0.001, 0, 0), storage.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "mint-a"))
	_, err = store.GetByAddress(ctx, "mint-a")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "mint-a"), storage.ErrNotFound)
}
