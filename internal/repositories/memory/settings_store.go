package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// SettingsStore is an in-memory repositories.SettingsRepository.
type SettingsStore struct {
	mu       sync.Mutex
	settings models.EngineSettings
}

// NewSettingsStore creates a SettingsStore with default settings
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{settings: *models.DefaultEngineSettings()}
}

var _ repositories.SettingsRepository = (*SettingsStore)(nil)

func (s *SettingsStore) Get(ctx context.Context) (*models.EngineSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.settings
	return &cp, nil
}

func (s *SettingsStore) SetMode(ctx context.Context, mode models.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Mode = mode
	s.settings.UpdatedAt = time.Now()
	return nil
}

func (s *SettingsStore) SetInterval(ctx context.Context, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.IntervalSeconds = seconds
	s.settings.UpdatedAt = time.Now()
	return nil
}
