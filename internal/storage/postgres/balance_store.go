package postgres

import (
	"context"
	"fmt"

	"solana-sniper-terminal/internal/storage"
)

// BalanceStore implements storage.BalanceStore using PostgreSQL.
// The balance lives in the settings key/value table under key 'balance';
// debits and credits are single conditional UPDATE statements, so readers
// only ever observe committed values and the balance can never go negative.
type BalanceStore struct {
	pool *Pool
}

// NewBalanceStore creates a new BalanceStore.
func NewBalanceStore(pool *Pool) *BalanceStore {
	return &BalanceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BalanceStore = (*BalanceStore)(nil)

// Get returns the current balance.
func (s *BalanceStore) Get(ctx context.Context) (float64, error) {
	query := `SELECT value::double precision FROM settings WHERE key = 'balance'`

	var balance float64
	if err := s.pool.QueryRow(ctx, query).Scan(&balance); err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// Adjust adds delta atomically and returns the new balance. The WHERE guard
// refuses any debit that would take the balance negative.
func (s *BalanceStore) Adjust(ctx context.Context, delta float64) (float64, error) {
	query := `
		UPDATE settings
		SET value = (value::double precision + $1)::text
		WHERE key = 'balance' AND value::double precision + $1 >= 0
		RETURNING value::double precision
	`

	var balance float64
	if err := s.pool.QueryRow(ctx, query, delta).Scan(&balance); err != nil {
		if isNotFoundError(err) {
			// Row exists but the guard rejected the debit, or the balance
			// row is missing entirely. Disambiguate for the caller.
			if _, getErr := s.Get(ctx); getErr != nil {
				return 0, getErr
			}
			return 0, storage.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	return balance, nil
}
