package commands

import (
	"context"
	"strings"

	application "pollvault/contexts/campaign-voting/campaign-lifecycle/application"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/internal/platform/ledger"
)

// CancelCampaignCommand requests creator-initiated cancellation.
type CancelCampaignCommand struct {
	CampaignID string
	ActorID    string
}

// CancelCampaignResult reports the escrow balance refunded to the creator.
type CancelCampaignResult struct {
	Campaign entities.Campaign
	Refunded uint64
}

// CancelCampaign voids an untouched campaign. Only the creator may cancel,
// and only while no vote has been cast; an expired campaign with zero votes
// is still cancellable. The distributable pool returns to the creator; the
// platform fee stays collected.
func (uc CampaignUseCase) CancelCampaign(ctx context.Context, cmd CancelCampaignCommand) (CancelCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)
	actorID := strings.TrimSpace(cmd.ActorID)
	logger.Info("campaign cancel processing started",
		"event", "campaign_cancel_started",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", campaignID,
		"actor_id", actorID,
	)
	if campaignID == "" {
		return CancelCampaignResult{}, domainerrors.ErrInvalidCampaignID
	}
	if actorID == "" {
		return CancelCampaignResult{}, domainerrors.ErrInvalidActor
	}

	var result CancelCampaignResult
	err := uc.Atomic.Execute(ctx, func(ctx context.Context) error {
		campaign, err := uc.Campaigns.GetCampaignForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if campaign.CreatorID != actorID {
			return domainerrors.ErrUnauthorized
		}
		if campaign.TotalVotes > 0 || len(campaign.Participants) > 0 {
			return domainerrors.ErrCampaignHasVotes
		}

		now := uc.now()
		escrow := ledger.CampaignEscrowAccount(campaignID)
		refund, err := uc.Ledger.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		if refund > 0 {
			if err := uc.Ledger.Transfer(ctx, escrow, campaign.CreatorID, refund); err != nil {
				return err
			}
		}

		campaign.Status = entities.CampaignStatusInactive
		campaign.UpdatedAt = now
		if err := uc.Campaigns.SaveCampaign(ctx, campaign); err != nil {
			return err
		}

		if err := uc.appendCampaignEvent(ctx, "campaign.cancelled", campaign, now, map[string]any{
			"refunded": refund,
		}); err != nil {
			return err
		}
		result = CancelCampaignResult{Campaign: campaign, Refunded: refund}
		return nil
	})
	if err != nil {
		return CancelCampaignResult{}, err
	}

	logger.Info("campaign cancelled",
		"event", "campaign_cancelled",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", campaignID,
		"actor_id", actorID,
		"refunded", result.Refunded,
	)
	return result, nil
}
