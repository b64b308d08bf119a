package commands

import (
	"context"
	"strings"

	application "pollvault/contexts/campaign-voting/campaign-lifecycle/application"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/internal/platform/ledger"
)

// CloseCampaignCommand requests final settlement of a finished campaign.
type CloseCampaignCommand struct {
	CampaignID string
	ActorID    string
}

// CloseCampaignResult reports the undistributed remainder swept into
// platform custody.
type CloseCampaignResult struct {
	Campaign entities.Campaign
	Swept    uint64
}

// CloseCampaign settles a campaign that finished, either by filling every
// slot or by passing its deadline. Any caller may settle; the actor is
// recorded for audit only. Whatever the escrow still holds, rounding dust
// or unclaimed shares, is swept into platform fee custody.
func (uc CampaignUseCase) CloseCampaign(ctx context.Context, cmd CloseCampaignCommand) (CloseCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)
	actorID := strings.TrimSpace(cmd.ActorID)
	logger.Info("campaign close processing started",
		"event", "campaign_close_started",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", campaignID,
		"actor_id", actorID,
	)
	if campaignID == "" {
		return CloseCampaignResult{}, domainerrors.ErrInvalidCampaignID
	}
	if actorID == "" {
		return CloseCampaignResult{}, domainerrors.ErrInvalidActor
	}

	var result CloseCampaignResult
	err := uc.Atomic.Execute(ctx, func(ctx context.Context) error {
		campaign, err := uc.Campaigns.GetCampaignForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		now := uc.now()
		if campaign.Status == entities.CampaignStatusActive {
			if !campaign.IsExpired(now) {
				return domainerrors.ErrCampaignStillActive
			}
			// Closing past the deadline performs the lazy deactivation.
			campaign.Status = entities.CampaignStatusInactive
		}

		escrow := ledger.CampaignEscrowAccount(campaignID)
		remainder, err := uc.Ledger.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		if remainder > 0 {
			if err := uc.Ledger.Transfer(ctx, escrow, ledger.FeeCustodyAccount, remainder); err != nil {
				return err
			}
		}

		campaign.UpdatedAt = now
		if err := uc.Campaigns.SaveCampaign(ctx, campaign); err != nil {
			return err
		}

		if err := uc.appendCampaignEvent(ctx, "campaign.closed", campaign, now, map[string]any{
			"swept": remainder,
		}); err != nil {
			return err
		}
		result = CloseCampaignResult{Campaign: campaign, Swept: remainder}
		return nil
	})
	if err != nil {
		return CloseCampaignResult{}, err
	}

	logger.Info("campaign closed",
		"event", "campaign_closed",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", campaignID,
		"actor_id", actorID,
		"swept", result.Swept,
	)
	return result, nil
}
