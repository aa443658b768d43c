package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// PositionStore implements storage.PositionStore using PostgreSQL.
type PositionStore struct {
	pool *Pool
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(pool *Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

// Insert adds a new position. Returns ErrDuplicateKey if one is already open
// for the address.
func (s *PositionStore) Insert(ctx context.Context, p *domain.Position) error {
	query := `
		INSERT INTO positions (
			address, symbol, avg_entry_price, quantity,
			current_price, pnl, pnl_pct, entry_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		p.Address, p.Symbol, p.AvgEntryPrice, p.Quantity,
		p.CurrentPrice, p.PnL, p.PnLPct, p.EntryTime,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// GetByAddress retrieves a position. Returns ErrNotFound if not open.
func (s *PositionStore) GetByAddress(ctx context.Context, address string) (*domain.Position, error) {
	query := `
		SELECT address, symbol, avg_entry_price, quantity,
		       current_price, pnl, pnl_pct, entry_time
		FROM positions
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	p, err := scanPosition(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get position by address: %w", err)
	}
	return p, nil
}

// List retrieves all open positions ordered by entry time ASC.
func (s *PositionStore) List(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT address, symbol, avg_entry_price, quantity,
		       current_price, pnl, pnl_pct, entry_time
		FROM positions
		ORDER BY entry_time ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var result []*domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate position rows: %w", err)
	}

	return result, nil
}

// UpdateValuation updates current price and unrealized PnL.
func (s *PositionStore) UpdateValuation(ctx context.Context, address string, currentPrice, pnl, pnlPct float64) error {
	query := `
		UPDATE positions
		SET current_price = $2, pnl = $3, pnl_pct = $4
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query, address, currentPrice, pnl, pnlPct)
	if err != nil {
		return fmt.Errorf("update position valuation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a position.
func (s *PositionStore) Delete(ctx context.Context, address string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM positions WHERE address = $1`, address)
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanPosition scans a single row into a Position.
func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position

	err := row.Scan(
		&p.Address, &p.Symbol, &p.AvgEntryPrice, &p.Quantity,
		&p.CurrentPrice, &p.PnL, &p.PnLPct, &p.EntryTime,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
