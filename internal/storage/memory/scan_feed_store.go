package memory

import (
	"context"
	"sort"
	"sync"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// ScanFeedStore is an in-memory implementation of storage.ScanFeedStore.
type ScanFeedStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScanEntry // keyed by address, latest scan wins
}

// NewScanFeedStore creates a new in-memory scan feed store.
func NewScanFeedStore() *ScanFeedStore {
	return &ScanFeedStore{
		data: make(map[string]*domain.ScanEntry),
	}
}

// Upsert inserts or replaces the entry for its address.
func (s *ScanFeedStore) Upsert(_ context.Context, e *domain.ScanEntry) error {
	if e == nil || e.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.data[e.Address] = &cp
	return nil
}

// ListRecent retrieves up to limit entries ordered by scan time DESC.
func (s *ScanFeedStore) ListRecent(_ context.Context, limit int) ([]*domain.ScanEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScanEntry, 0, len(s.data))
	for _, e := range s.data {
		cp := *e
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ScannedAt.Equal(result[j].ScannedAt) {
			return result[i].Address < result[j].Address
		}
		return result[i].ScannedAt.After(result[j].ScannedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

var _ storage.ScanFeedStore = (*ScanFeedStore)(nil)
