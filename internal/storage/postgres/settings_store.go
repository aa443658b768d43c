package postgres

import (
	"context"
	"fmt"
	"strconv"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// Settings keys in the key/value settings table. The 'balance' key lives in
// the same table but is owned by BalanceStore.
const (
	keyTradeSize    = "trade_size"
	keyProfitTarget = "profit_target"
	keyStopLoss     = "stop_loss"
	keyMinLiquidity = "min_liquidity"
	keyMinScore     = "min_score"
)

// SettingsStore implements storage.SettingsStore using PostgreSQL.
type SettingsStore struct {
	pool *Pool
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(pool *Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SettingsStore = (*SettingsStore)(nil)

// Get returns the current settings. Missing keys fall back to defaults so a
// partially seeded table is still usable.
func (s *SettingsStore) Get(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	query := `
		SELECT key, value FROM settings
		WHERE key IN ($1, $2, $3, $4, $5)
	`

	rows, err := s.pool.Query(ctx, query,
		keyTradeSize, keyProfitTarget, keyStopLoss, keyMinLiquidity, keyMinScore)
	if err != nil {
		return settings, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("scan settings row: %w", err)
		}

		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return settings, fmt.Errorf("parse setting %s=%q: %w", key, value, err)
		}

		switch key {
		case keyTradeSize:
			settings.TradeSize = f
		case keyProfitTarget:
			settings.ProfitTarget = f
		case keyStopLoss:
			settings.StopLoss = f
		case keyMinLiquidity:
			settings.MinLiquidity = f
		case keyMinScore:
			settings.MinScore = int(f)
		}
	}

	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("iterate settings rows: %w", err)
	}

	return settings, nil
}

// Update replaces the settings. All keys are written in one transaction so a
// concurrent reader never sees a half-applied update.
func (s *SettingsStore) Update(ctx context.Context, settings domain.Settings) error {
	if err := storage.ValidateSettings(settings); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	pairs := map[string]string{
		keyTradeSize:    strconv.FormatFloat(settings.TradeSize, 'f', -1, 64),
		keyProfitTarget: strconv.FormatFloat(settings.ProfitTarget, 'f', -1, 64),
		keyStopLoss:     strconv.FormatFloat(settings.StopLoss, 'f', -1, 64),
		keyMinLiquidity: strconv.FormatFloat(settings.MinLiquidity, 'f', -1, 64),
		keyMinScore:     strconv.Itoa(settings.MinScore),
	}

	for key, value := range pairs {
		if _, err := tx.Exec(ctx, query, key, value); err != nil {
			return fmt.Errorf("upsert setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
