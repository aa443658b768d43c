package memory

import (
	"context"
	"sync"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// SettingsStore is an in-memory implementation of storage.SettingsStore.
type SettingsStore struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewSettingsStore creates a settings store seeded with defaults.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{settings: domain.DefaultSettings()}
}

// Get returns the current settings.
func (s *SettingsStore) Get(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

// Update replaces the settings after validation.
func (s *SettingsStore) Update(_ context.Context, settings domain.Settings) error {
	if err := storage.ValidateSettings(settings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

var _ storage.SettingsStore = (*SettingsStore)(nil)
