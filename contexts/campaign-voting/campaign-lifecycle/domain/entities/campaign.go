package entities

import (
	"math"
	"strings"
	"time"

	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/internal/shared/economics"
)

type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusInactive CampaignStatus = "inactive"
)

// Field bounds for campaign creation.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MinOptions        = 2
	MaxOptions        = 10
	MaxOptionLen      = 100
	MaxTierOrdinal    = 3
)

// Campaign is a funded poll. Reward is the distributable prize after the
// platform fee was skimmed; the matching balance sits in the campaign's
// escrow account until paid out, refunded, or swept.
type Campaign struct {
	CampaignID           string
	CreatorID            string
	Title                string
	Description          string
	Options              []string
	VoteCounts           []uint64
	Reward               uint64
	RewardPerParticipant uint64
	Participants         []string
	MaxParticipants      uint64
	MinReputation        uint8
	TotalVotes           uint64
	EndDate              int64
	Status               CampaignStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Vote records one voter's single choice in one campaign. The
// (campaign, voter) pair is the storage key; creating it twice must fail.
type Vote struct {
	CampaignID string
	VoterID    string
	Choice     uint8
	VotedAt    time.Time
}

// ValidateNewCampaign checks the creation bounds, reporting the first
// violated constraint as its named condition.
func ValidateNewCampaign(
	title string,
	description string,
	options []string,
	reward uint64,
	maxParticipants uint64,
	minReputation uint8,
) error {
	if len(title) > MaxTitleLen {
		return domainerrors.ErrTitleTooLong
	}
	if len(description) > MaxDescriptionLen {
		return domainerrors.ErrDescriptionTooLong
	}
	if len(options) < MinOptions {
		return domainerrors.ErrNotEnoughOptions
	}
	if len(options) > MaxOptions {
		return domainerrors.ErrTooManyOptions
	}
	for _, option := range options {
		if len(option) > MaxOptionLen {
			return domainerrors.ErrOptionTooLong
		}
	}
	if reward == 0 {
		return domainerrors.ErrInvalidPrize
	}
	if maxParticipants == 0 {
		return domainerrors.ErrInvalidParticipants
	}
	if maxParticipants > economics.MaxStoredParticipants {
		return domainerrors.ErrParticipantCapExceeded
	}
	if minReputation > MaxTierOrdinal {
		return domainerrors.ErrInvalidReputationTier
	}
	return nil
}

// IsExpired reports whether the deadline passed. Zero means no expiry.
func (c Campaign) IsExpired(now time.Time) bool {
	return c.EndDate > 0 && now.Unix() >= c.EndDate
}

// IsFull reports whether every participant slot is taken.
func (c Campaign) IsFull() bool {
	return uint64(len(c.Participants)) >= c.MaxParticipants
}

// RecordVote appends the voter and advances the chosen option's counter and
// the vote total, keeping the parallel-counter invariant intact.
func (c *Campaign) RecordVote(voterID string, choice uint8, now time.Time) error {
	if int(choice) >= len(c.Options) {
		return domainerrors.ErrInvalidChoice
	}
	if c.TotalVotes == math.MaxUint64 || c.VoteCounts[choice] == math.MaxUint64 {
		return domainerrors.ErrCounterOverflow
	}
	c.Participants = append(c.Participants, strings.TrimSpace(voterID))
	c.VoteCounts[choice]++
	c.TotalVotes++
	c.UpdatedAt = now.UTC()
	return nil
}
