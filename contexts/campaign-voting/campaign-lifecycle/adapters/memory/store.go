package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
)

// Store is the in-memory campaign/vote/outbox repository. Operations
// serialize on a dedicated mutex so Atomic gives the same serialized view
// tests get from the database adapter's row locks.
type Store struct {
	mu   sync.RWMutex
	opMu sync.Mutex

	campaigns map[string]entities.Campaign
	votes     map[string]entities.Vote
	outbox    []ports.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		campaigns: make(map[string]entities.Campaign),
		votes:     make(map[string]entities.Vote),
	}
}

func voteKey(campaignID string, voterID string) string {
	return campaignID + "|" + voterID
}

func cloneCampaign(c entities.Campaign) entities.Campaign {
	c.Options = append([]string(nil), c.Options...)
	c.VoteCounts = append([]uint64(nil), c.VoteCounts...)
	c.Participants = append([]string(nil), c.Participants...)
	return c
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrCampaignAlreadyExists
	}
	s.campaigns[campaign.CampaignID] = cloneCampaign(campaign)
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, ok := s.campaigns[campaignID]
	if !ok {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return cloneCampaign(campaign), nil
}

func (s *Store) GetCampaignForUpdate(ctx context.Context, campaignID string) (entities.Campaign, error) {
	// Atomic already serializes writers; a plain read is lock-equivalent here.
	return s.GetCampaign(ctx, campaignID)
}

func (s *Store) SaveCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[campaign.CampaignID]; !ok {
		return domainerrors.ErrCampaignNotFound
	}
	s.campaigns[campaign.CampaignID] = cloneCampaign(campaign)
	return nil
}

func (s *Store) ListCampaigns(_ context.Context, activeOnly bool, limit int, offset int) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if activeOnly && campaign.Status != entities.CampaignStatusActive {
			continue
		}
		all = append(all, cloneCampaign(campaign))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CampaignID < all[j].CampaignID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []entities.Campaign{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) CreateVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(vote.CampaignID, vote.VoterID)
	if _, exists := s.votes[key]; exists {
		return domainerrors.ErrVoteAlreadyCast
	}
	s.votes[key] = vote
	return nil
}

func (s *Store) GetVote(_ context.Context, campaignID string, voterID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vote, ok := s.votes[voteKey(campaignID, voterID)]
	return vote, ok, nil
}

func (s *Store) ListVotesByCampaign(_ context.Context, campaignID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.CampaignID == campaignID {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].VotedAt.Equal(votes[j].VotedAt) {
			return votes[i].VoterID < votes[j].VoterID
		}
		return votes[i].VotedAt.Before(votes[j].VotedAt)
	})
	return votes, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, ports.OutboxMessage{
		OutboxID:  uuid.NewString(),
		EventType: envelope.EventType,
		Payload:   payload,
		CreatedAt: envelope.OccurredAt,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.PublishedAt != nil {
			continue
		}
		pending = append(pending, row)
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].OutboxID == outboxID {
			at := publishedAt.UTC()
			s.outbox[i].PublishedAt = &at
			return nil
		}
	}
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

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
