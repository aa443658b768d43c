package memory

import (
	"context"
	"sort"
	"sync"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Position // keyed by address
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[string]*domain.Position),
	}
}

// Insert adds a new position. Returns ErrDuplicateKey if one is already open.
func (s *PositionStore) Insert(_ context.Context, p *domain.Position) error {
	if p == nil || p.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Address]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *p
	s.data[p.Address] = &cp
	return nil
}

// GetByAddress retrieves a position. Returns ErrNotFound if not open.
func (s *PositionStore) GetByAddress(_ context.Context, address string) (*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *p
	return &cp, nil
}

// List retrieves all open positions ordered by entry time ASC.
func (s *PositionStore) List(_ context.Context) ([]*domain.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Position, 0, len(s.data))
	for _, p := range s.data {
		cp := *p
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].EntryTime.Equal(result[j].EntryTime) {
			return result[i].Address < result[j].Address
		}
		return result[i].EntryTime.Before(result[j].EntryTime)
	})

	return result, nil
}

// UpdateValuation updates current price and unrealized PnL.
func (s *PositionStore) UpdateValuation(_ context.Context, address string, currentPrice, pnl, pnlPct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.data[address]
	if !exists {
		return storage.ErrNotFound
	}

	p.CurrentPrice = currentPrice
	p.PnL = pnl
	p.PnLPct = pnlPct
	return nil
}

// Delete removes a position.
func (s *PositionStore) Delete(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[address]; !exists {
		return storage.ErrNotFound
	}

	delete(s.data, address)
	return nil
}

var _ storage.PositionStore = (*PositionStore)(nil)
