package ports

import (
	"context"
	"time"

	"pollvault/contexts/community-experience/reputation-engine/domain/entities"
)

type ReputationRepository interface {
	// GetReputation returns found=false for users who have never voted.
	GetReputation(ctx context.Context, userID string) (entities.UserReputation, bool, error)
	SaveReputation(ctx context.Context, rep entities.UserReputation) error
}

type Clock interface {
	Now() time.Time
}
