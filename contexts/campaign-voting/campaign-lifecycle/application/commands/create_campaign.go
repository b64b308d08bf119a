package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "pollvault/contexts/campaign-voting/campaign-lifecycle/application"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
	"pollvault/internal/platform/ledger"
	"pollvault/internal/shared/economics"
)

// CreateCampaignCommand is the write-model input for campaign creation.
// Reward is the gross prize the creator funds; the platform fee is skimmed
// from it before the per-participant payout is fixed.
type CreateCampaignCommand struct {
	CreatorID       string
	CampaignID      string
	Title           string
	Description     string
	Options         []string
	Reward          uint64
	MaxParticipants uint64
	MinReputation   uint8
	EndDate         int64
}

// CreateCampaignResult returns the funded campaign and the fee that landed
// in platform custody.
type CreateCampaignResult struct {
	Campaign   entities.Campaign
	FeeCharged uint64
}

// CampaignUseCase orchestrates the campaign lifecycle: funded creation with
// fee skimming, paid vote submission, zero-vote cancellation, and post-run
// closing with dust sweep. Every mutation runs atomically across the
// campaign record, the vote record, the ledger, and the collaborating
// services.
type CampaignUseCase struct {
	Campaigns  ports.CampaignRepository
	Votes      ports.VoteRepository
	Ledger     ports.Ledger
	Platform   ports.PlatformService
	Reputation ports.ReputationService
	Rewards    ports.RewardAdjuster
	Outbox     ports.OutboxWriter
	Atomic     ports.Atomic
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// CreateCampaign funds a new campaign. The gross reward moves from the
// creator into the campaign's escrow account, the platform fee is skimmed
// straight back out into fee custody, and the remainder is split evenly
// across the participant slots. A split that rounds a participant's share
// to zero fails before any balance moves.
func (uc CampaignUseCase) CreateCampaign(ctx context.Context, cmd CreateCampaignCommand) (CreateCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	creatorID := strings.TrimSpace(cmd.CreatorID)
	logger.Info("campaign create processing started",
		"event", "campaign_create_started",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"creator_id", creatorID,
		"reward", cmd.Reward,
		"max_participants", cmd.MaxParticipants,
	)
	if creatorID == "" {
		logger.Warn("campaign create validation failed",
			"event", "campaign_create_validation_failed",
			"module", "campaign-voting/campaign-lifecycle",
			"layer", "application",
			"reason", "missing_creator",
		)
		return CreateCampaignResult{}, domainerrors.ErrInvalidActor
	}
	if err := entities.ValidateNewCampaign(
		cmd.Title,
		cmd.Description,
		cmd.Options,
		cmd.Reward,
		cmd.MaxParticipants,
		cmd.MinReputation,
	); err != nil {
		logger.Warn("campaign create validation failed",
			"event", "campaign_create_validation_failed",
			"module", "campaign-voting/campaign-lifecycle",
			"layer", "application",
			"creator_id", creatorID,
			"error", err.Error(),
		)
		return CreateCampaignResult{}, err
	}

	campaignID := strings.TrimSpace(cmd.CampaignID)
	if campaignID == "" {
		generated, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CreateCampaignResult{}, err
		}
		campaignID = generated
	}

	var result CreateCampaignResult
	err := uc.Atomic.Execute(ctx, func(ctx context.Context) error {
		feeBps, err := uc.Platform.CampaignFeeBps(ctx)
		if err != nil {
			return err
		}
		fee, distributable, err := economics.SplitFee(cmd.Reward, feeBps)
		if err != nil {
			return err
		}
		rewardPer, err := economics.RewardPerParticipant(distributable, cmd.MaxParticipants)
		if err != nil {
			return err
		}

		balance, err := uc.Ledger.Balance(ctx, creatorID)
		if err != nil {
			return err
		}
		if balance < cmd.Reward {
			return domainerrors.ErrInsufficientFunds
		}

		now := uc.now()
		campaign := entities.Campaign{
			CampaignID:           campaignID,
			CreatorID:            creatorID,
			Title:                cmd.Title,
			Description:          cmd.Description,
			Options:              append([]string(nil), cmd.Options...),
			VoteCounts:           make([]uint64, len(cmd.Options)),
			Reward:               distributable,
			RewardPerParticipant: rewardPer,
			Participants:         []string{},
			MaxParticipants:      cmd.MaxParticipants,
			MinReputation:        cmd.MinReputation,
			TotalVotes:           0,
			EndDate:              cmd.EndDate,
			Status:               entities.CampaignStatusActive,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
			return err
		}

		// The full gross reward enters escrow first; the fee is skimmed
		// back out so the escrow ends up holding exactly the distributable
		// pool.
		escrow := ledger.CampaignEscrowAccount(campaignID)
		if err := uc.Ledger.Transfer(ctx, creatorID, escrow, cmd.Reward); err != nil {
			return err
		}
		if fee > 0 {
			if err := uc.Ledger.Transfer(ctx, escrow, ledger.FeeCustodyAccount, fee); err != nil {
				return err
			}
		}
		if err := uc.Platform.CollectCampaignFee(ctx, fee); err != nil {
			return err
		}

		if err := uc.appendCampaignEvent(ctx, "campaign.created", campaign, now, map[string]any{
			"fee_charged":            fee,
			"reward_per_participant": rewardPer,
		}); err != nil {
			return err
		}
		result = CreateCampaignResult{Campaign: campaign, FeeCharged: fee}
		return nil
	})
	if err != nil {
		return CreateCampaignResult{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", result.Campaign.CampaignID,
		"creator_id", creatorID,
		"reward", result.Campaign.Reward,
		"reward_per_participant", result.Campaign.RewardPerParticipant,
		"fee_charged", result.FeeCharged,
		"max_participants", result.Campaign.MaxParticipants,
	)
	return result, nil
}

func (uc CampaignUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc CampaignUseCase) appendCampaignEvent(
	ctx context.Context,
	eventType string,
	campaign entities.Campaign,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"campaign_id":      campaign.CampaignID,
		"creator_id":       campaign.CreatorID,
		"status":           string(campaign.Status),
		"total_votes":      campaign.TotalVotes,
		"max_participants": campaign.MaxParticipants,
		"occurred_at":      occurredAt.Format(time.RFC3339),
	}
	for key, value := range metadata {
		data[key] = value
	}

	envelope, err := newCampaignEnvelope(eventID, eventType, campaign.CampaignID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
