package memory

import (
	"context"
	"sync"

	"solana-sniper-terminal/internal/storage"
)

// BalanceStore is an in-memory implementation of storage.BalanceStore.
type BalanceStore struct {
	mu      sync.Mutex
	balance float64
}

// NewBalanceStore creates a balance store seeded with the initial balance.
func NewBalanceStore(initial float64) *BalanceStore {
	return &BalanceStore{balance: initial}
}

// Get returns the current balance.
func (s *BalanceStore) Get(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

// Adjust adds delta and returns the new balance. Refuses a negative result.
func (s *BalanceStore) Adjust(_ context.Context, delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.balance + delta
	if next < 0 {
		return s.balance, storage.ErrInsufficientBalance
	}
	s.balance = next
	return s.balance, nil
}

var _ storage.BalanceStore = (*BalanceStore)(nil)
