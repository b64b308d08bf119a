package memory

import (
	"context"
	"sync"
	"time"

	"pollvault/contexts/finance-core/treasury-service/domain/entities"
	domainerrors "pollvault/contexts/finance-core/treasury-service/domain/errors"
)

// Store is the in-memory config repository. Operations serialize on a
// dedicated mutex so Atomic gives the same all-or-nothing view tests get
// from the database adapter.
type Store struct {
	mu   sync.RWMutex
	opMu sync.Mutex

	config    entities.PlatformConfig
	hasConfig bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) CreateConfig(_ context.Context, cfg entities.PlatformConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasConfig {
		return domainerrors.ErrPlatformAlreadyInitialized
	}
	s.config = cfg
	s.hasConfig = true
	return nil
}

func (s *Store) GetConfig(_ context.Context) (entities.PlatformConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasConfig {
		return entities.PlatformConfig{}, domainerrors.ErrPlatformNotInitialized
	}
	return s.config, nil
}

func (s *Store) SaveConfig(_ context.Context, cfg entities.PlatformConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasConfig {
		return domainerrors.ErrPlatformNotInitialized
	}
	s.config = cfg
	return nil
}

func (s *Store) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return fn(ctx)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
