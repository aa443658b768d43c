package postgres

import (
	"context"
	"fmt"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
// The trades table is append-only; rows are never updated or deleted.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert appends a closed trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	query := `
		INSERT INTO trades (
			trade_id, symbol, address, entry_price, exit_price,
			quantity, pnl, pnl_pct, reason, entry_time, exit_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		t.TradeID, t.Symbol, t.Address, t.EntryPrice, t.ExitPrice,
		t.Quantity, t.PnL, t.PnLPct, t.Reason, t.EntryTime, t.ExitTime,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// ListRecent retrieves up to limit trades ordered by exit time DESC.
func (s *TradeStore) ListRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	query := `
		SELECT trade_id, symbol, address, entry_price, exit_price,
		       quantity, pnl, pnl_pct, reason, entry_time, exit_time
		FROM trades
		ORDER BY exit_time DESC, trade_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent trades: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord

		err := rows.Scan(
			&t.TradeID, &t.Symbol, &t.Address, &t.EntryPrice, &t.ExitPrice,
			&t.Quantity, &t.PnL, &t.PnLPct, &t.Reason, &t.EntryTime, &t.ExitTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		result = append(result, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return result, nil
}
