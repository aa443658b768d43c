package clickhouse

import (
	"context"
	"fmt"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// ScanFeedStore implements storage.ScanFeedStore using ClickHouse.
// The scan_feed table is a ReplacingMergeTree keyed by address with
// scanned_at as the version column, which gives the feed its
// most-recent-write-wins semantics natively. Reads use FINAL so unmerged
// duplicates collapse at query time.
type ScanFeedStore struct {
	conn *Conn
}

// NewScanFeedStore creates a new ScanFeedStore.
func NewScanFeedStore(conn *Conn) *ScanFeedStore {
	return &ScanFeedStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScanFeedStore = (*ScanFeedStore)(nil)

// Upsert inserts the entry; ReplacingMergeTree keeps the latest per address.
func (s *ScanFeedStore) Upsert(ctx context.Context, e *domain.ScanEntry) error {
	if e == nil || e.Address == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO scan_feed (
			address, symbol, icon, liquidity_usd, score, strength, scanned_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		e.Address, e.Symbol, e.Icon, e.LiquidityUSD,
		int32(e.Score), e.Strength, e.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert scan entry: %w", err)
	}
	return nil
}

// ListRecent retrieves up to limit entries ordered by scan time DESC.
func (s *ScanFeedStore) ListRecent(ctx context.Context, limit int) ([]*domain.ScanEntry, error) {
	query := `
		SELECT address, symbol, icon, liquidity_usd, score, strength, scanned_at
		FROM scan_feed FINAL
		ORDER BY scanned_at DESC, address ASC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent scans: %w", err)
	}
	defer rows.Close()

	var result []*domain.ScanEntry
	for rows.Next() {
		var e domain.ScanEntry
		var score int32

		err := rows.Scan(
			&e.Address, &e.Symbol, &e.Icon, &e.LiquidityUSD,
			&score, &e.Strength, &e.ScannedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feed row: %w", err)
		}

		e.Score = int(score)
		result = append(result, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed rows: %w", err)
	}

	return result, nil
}
