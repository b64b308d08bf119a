package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pollvault/contexts/community-experience/reputation-engine/domain/entities"
	domainerrors "pollvault/contexts/community-experience/reputation-engine/domain/errors"
	"pollvault/contexts/community-experience/reputation-engine/ports"
)

// Service advances per-user reputation records and answers tier lookups for
// campaign gating. Users without a record are treated as zero-state newbies.
type Service struct {
	Reputations ports.ReputationRepository
	Logger      *slog.Logger
}

// AdvanceOnVote applies one accepted vote at the given time. The campaign
// lifecycle calls it inside the same transaction that records the vote.
func (s Service) AdvanceOnVote(ctx context.Context, userID string, now time.Time) error {
	logger := ResolveLogger(s.Logger)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domainerrors.ErrInvalidUser
	}

	rep, found, err := s.Reputations.GetReputation(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		rep = entities.NewUserReputation(userID)
	}

	updated, err := rep.Advance(now)
	if err != nil {
		return err
	}
	if err := s.Reputations.SaveReputation(ctx, updated); err != nil {
		return err
	}

	logger.Info("reputation advanced",
		"event", "reputation_advanced",
		"module", "community-experience/reputation-engine",
		"layer", "application",
		"user_id", userID,
		"score", updated.Score,
		"streak", updated.CurrentStreak,
		"tier", string(updated.Tier),
	)
	return nil
}

// TierOrdinal returns the gating rank of a user's current tier.
func (s Service) TierOrdinal(ctx context.Context, userID string) (uint8, error) {
	rep, found, err := s.Reputations.GetReputation(ctx, strings.TrimSpace(userID))
	if err != nil {
		return 0, err
	}
	if !found {
		return entities.TierNewbie.Ordinal(), nil
	}
	// Recomputed from score, never trusted from storage.
	return entities.TierForScore(rep.Score).Ordinal(), nil
}

// GetReputation returns a user's record, or the zero state if absent.
func (s Service) GetReputation(ctx context.Context, userID string) (entities.UserReputation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.UserReputation{}, domainerrors.ErrInvalidUser
	}
	rep, found, err := s.Reputations.GetReputation(ctx, userID)
	if err != nil {
		return entities.UserReputation{}, err
	}
	if !found {
		return entities.NewUserReputation(userID), nil
	}
	rep.Tier = entities.TierForScore(rep.Score)
	return rep, nil
}
