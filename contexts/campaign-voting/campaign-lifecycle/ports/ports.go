package ports

import (
	"context"
	"encoding/json"
	"time"

	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
)

type CampaignRepository interface {
	// CreateCampaign fails with the already-exists condition when the
	// (creator, campaign id) key is taken.
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	// GetCampaignForUpdate locks the record for the rest of the transaction;
	// it is the serialization point for concurrent votes on one campaign.
	GetCampaignForUpdate(ctx context.Context, campaignID string) (entities.Campaign, error)
	SaveCampaign(ctx context.Context, campaign entities.Campaign) error
	ListCampaigns(ctx context.Context, activeOnly bool, limit int, offset int) ([]entities.Campaign, error)
}

type VoteRepository interface {
	// CreateVote enforces vote uniqueness: creating the (campaign, voter)
	// key twice fails with the already-cast condition. This keyed-creation
	// failure is the sole double-vote defense.
	CreateVote(ctx context.Context, vote entities.Vote) error
	GetVote(ctx context.Context, campaignID string, voterID string) (entities.Vote, bool, error)
	ListVotesByCampaign(ctx context.Context, campaignID string) ([]entities.Vote, error)
}

// PlatformService is the treasury projection consumed during creation.
type PlatformService interface {
	CampaignFeeBps(ctx context.Context) (uint16, error)
	CollectCampaignFee(ctx context.Context, fee uint64) error
}

// ReputationService gates eligibility and advances voter records.
type ReputationService interface {
	TierOrdinal(ctx context.Context, userID string) (uint8, error)
	AdvanceOnVote(ctx context.Context, userID string, now time.Time) error
}

// Ledger is the custodial balance collaborator.
type Ledger interface {
	Transfer(ctx context.Context, from string, to string, amount uint64) error
	Balance(ctx context.Context, account string) (uint64, error)
}

// RewardAdjuster is the payout-adjustment seam. The default wiring is the
// identity adjustment; nothing in the platform scales rewards yet.
type RewardAdjuster interface {
	AdjustReward(ctx context.Context, voterID string, baseReward uint64) (uint64, error)
}

// Atomic runs fn with all-or-nothing semantics across every port call made
// inside it.
type Atomic interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope mirrors the canonical contract envelope for outbox rows.
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID    string
	EventType   string
	Payload     []byte
	PublishedAt *time.Time
	CreatedAt   time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
