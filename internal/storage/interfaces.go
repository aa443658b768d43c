package storage

import (
	"context"

	"solana-sniper-terminal/internal/domain"
)

// BalanceStore holds the single native-currency balance scalar.
// Mutations are atomic: concurrent readers observe state only at commit
// points, never a partially-applied update.
type BalanceStore interface {
	// Get returns the current balance.
	Get(ctx context.Context) (float64, error)

	// Adjust adds delta (negative for a debit) and returns the new balance.
	// Returns ErrInsufficientBalance if the result would be negative; the
	// balance is left unchanged in that case.
	Adjust(ctx context.Context, delta float64) (float64, error)
}

// PositionStore provides access to open positions, keyed by token address.
type PositionStore interface {
	// Insert adds a new position. Returns ErrDuplicateKey if a position
	// already exists for the address.
	Insert(ctx context.Context, p *domain.Position) error

	// GetByAddress retrieves a position. Returns ErrNotFound if not open.
	GetByAddress(ctx context.Context, address string) (*domain.Position, error)

	// List retrieves all open positions ordered by entry time ASC.
	List(ctx context.Context) ([]*domain.Position, error)

	// UpdateValuation updates current price and unrealized PnL for an open
	// position. Returns ErrNotFound if the position does not exist.
	UpdateValuation(ctx context.Context, address string, currentPrice, pnl, pnlPct float64) error

	// Delete removes a position. Returns ErrNotFound if not open.
	Delete(ctx context.Context, address string) error
}

// TradeStore provides access to the append-only trade history.
type TradeStore interface {
	// Insert appends a closed trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// ListRecent retrieves up to limit trades ordered by exit time DESC.
	ListRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error)
}

// ScanFeedStore provides access to the live scan feed. One row per address
// with most-recent-write-wins semantics: the feed is a live view, not a log.
type ScanFeedStore interface {
	// Upsert inserts or replaces the entry for its address.
	Upsert(ctx context.Context, e *domain.ScanEntry) error

	// ListRecent retrieves up to limit entries ordered by scan time DESC.
	ListRecent(ctx context.Context, limit int) ([]*domain.ScanEntry, error)
}

// ValidateSettings rejects out-of-range tunables. Shared by all backends so
// a bad dashboard write cannot reach the decision loop.
func ValidateSettings(s domain.Settings) error {
	if s.TradeSize <= 0 || s.ProfitTarget <= 0 || s.StopLoss >= 0 || s.MinLiquidity < 0 || s.MinScore < 0 {
		return ErrInvalidInput
	}
	return nil
}

// SettingsStore holds the runtime tunables. Settable at any time; the scan
// loop reads them at the start of each cycle.
type SettingsStore interface {
	// Get returns the current settings.
	Get(ctx context.Context) (domain.Settings, error)

	// Update replaces the settings. Returns ErrInvalidInput on out-of-range
	// values (non-positive trade size, non-negative stop loss, ...).
	Update(ctx context.Context, s domain.Settings) error
}
