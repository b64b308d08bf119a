package commands

import (
	"context"
	"strings"

	application "pollvault/contexts/campaign-voting/campaign-lifecycle/application"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/internal/platform/ledger"
)

// SubmitVoteCommand is the write-model input for casting a vote.
type SubmitVoteCommand struct {
	CampaignID string
	VoterID    string
	Choice     uint8
}

// SubmitVoteResult returns the stored vote, the payout that reached the
// voter, and whether this vote filled the campaign's last slot.
type SubmitVoteResult struct {
	Vote              entities.Vote
	RewardPaid        uint64
	CampaignCompleted bool
}

// SubmitVote casts a single paid vote. The voter must clear the campaign's
// reputation floor, must not be the creator, and must not have voted on the
// campaign before. On success the per-participant share leaves escrow for
// the voter and the voter's reputation record advances; filling the last
// slot deactivates the campaign.
//
// A vote that arrives after the deadline deactivates the campaign instead:
// the deactivation persists and the call reports the expiry.
func (uc CampaignUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)
	voterID := strings.TrimSpace(cmd.VoterID)
	logger.Info("vote submit processing started",
		"event", "campaign_vote_submit_started",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", campaignID,
		"voter_id", voterID,
		"choice", cmd.Choice,
	)
	if campaignID == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidCampaignID
	}
	if voterID == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidActor
	}

	var result SubmitVoteResult
	var expiredNow bool
	err := uc.Atomic.Execute(ctx, func(ctx context.Context) error {
		campaign, err := uc.Campaigns.GetCampaignForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if campaign.Status != entities.CampaignStatusActive {
			return domainerrors.ErrCampaignNotActive
		}

		now := uc.now()
		if campaign.IsExpired(now) {
			// Expiry is lazy: the first interaction past the deadline
			// flips the campaign inactive. The deactivation must commit,
			// so the expiry itself is reported after this transaction.
			campaign.Status = entities.CampaignStatusInactive
			campaign.UpdatedAt = now
			if err := uc.Campaigns.SaveCampaign(ctx, campaign); err != nil {
				return err
			}
			if err := uc.appendCampaignEvent(ctx, "campaign.deactivated", campaign, now, map[string]any{
				"reason": "expired",
			}); err != nil {
				return err
			}
			expiredNow = true
			return nil
		}

		if campaign.CreatorID == voterID {
			return domainerrors.ErrCreatorCannotVote
		}
		if campaign.IsFull() {
			return domainerrors.ErrCampaignFull
		}
		if int(cmd.Choice) >= len(campaign.Options) {
			return domainerrors.ErrInvalidChoice
		}

		tier, err := uc.Reputation.TierOrdinal(ctx, voterID)
		if err != nil {
			return err
		}
		if tier < campaign.MinReputation {
			return domainerrors.ErrInsufficientReputation
		}

		vote := entities.Vote{
			CampaignID: campaignID,
			VoterID:    voterID,
			Choice:     cmd.Choice,
			VotedAt:    now,
		}
		if err := uc.Votes.CreateVote(ctx, vote); err != nil {
			return err
		}
		if err := campaign.RecordVote(voterID, cmd.Choice, now); err != nil {
			return err
		}

		payout := campaign.RewardPerParticipant
		if uc.Rewards != nil {
			payout, err = uc.Rewards.AdjustReward(ctx, voterID, payout)
			if err != nil {
				return err
			}
		}
		escrow := ledger.CampaignEscrowAccount(campaignID)
		balance, err := uc.Ledger.Balance(ctx, escrow)
		if err != nil {
			return err
		}
		if balance < payout {
			return domainerrors.ErrInsufficientFunds
		}
		if err := uc.Ledger.Transfer(ctx, escrow, voterID, payout); err != nil {
			return err
		}

		completed := campaign.IsFull()
		if completed {
			campaign.Status = entities.CampaignStatusInactive
		}
		if err := uc.Campaigns.SaveCampaign(ctx, campaign); err != nil {
			return err
		}

		if err := uc.Reputation.AdvanceOnVote(ctx, voterID, now); err != nil {
			return err
		}

		if err := uc.appendCampaignEvent(ctx, "campaign.vote_recorded", campaign, now, map[string]any{
			"voter_id":    voterID,
			"choice":      cmd.Choice,
			"reward_paid": payout,
		}); err != nil {
			return err
		}
		if completed {
			if err := uc.appendCampaignEvent(ctx, "campaign.deactivated", campaign, now, map[string]any{
				"reason": "participant_limit_reached",
			}); err != nil {
				return err
			}
		}
		result = SubmitVoteResult{Vote: vote, RewardPaid: payout, CampaignCompleted: completed}
		return nil
	})
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if expiredNow {
		logger.Info("campaign deactivated on expired vote",
			"event", "campaign_vote_expired_deactivation",
			"module", "campaign-voting/campaign-lifecycle",
			"layer", "application",
			"campaign_id", campaignID,
			"voter_id", voterID,
		)
		return SubmitVoteResult{}, domainerrors.ErrCampaignExpired
	}

	logger.Info("vote recorded",
		"event", "campaign_vote_recorded",
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "application",
		"campaign_id", campaignID,
		"voter_id", voterID,
		"choice", cmd.Choice,
		"reward_paid", result.RewardPaid,
		"campaign_completed", result.CampaignCompleted,
	)
	return result, nil
}
