package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"pollvault/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "pollvault/contexts/community-experience/reputation-engine/domain/errors"
)

type Store struct {
	mu          sync.RWMutex
	reputations map[string]entities.UserReputation
}

func NewStore() *Store {
	return &Store{reputations: make(map[string]entities.UserReputation)}
}

// SeedReputation installs a record directly, for tests.
func (s *Store) SeedReputation(rep entities.UserReputation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reputations[strings.TrimSpace(rep.UserID)] = rep
}

func (s *Store) GetReputation(_ context.Context, userID string) (entities.UserReputation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reputations[strings.TrimSpace(userID)]
	if !ok {
		return entities.UserReputation{}, false, nil
	}
	return rep, true, nil
}

func (s *Store) SaveReputation(_ context.Context, rep entities.UserReputation) error {
	userID := strings.TrimSpace(rep.UserID)
	if userID == "" {
		return domainerrors.ErrInvalidUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reputations[userID] = rep
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
