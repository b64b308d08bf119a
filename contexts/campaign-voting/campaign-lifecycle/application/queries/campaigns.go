package queries

import (
	"context"
	"strings"
	"time"

	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
	"pollvault/internal/platform/ledger"
)

// CampaignView joins the stored campaign with its live escrow balance and a
// deadline-aware status. An active record past its deadline reads as
// inactive even before a write has flipped it.
type CampaignView struct {
	Campaign        entities.Campaign
	EscrowBalance   uint64
	EffectiveStatus entities.CampaignStatus
}

type CampaignQueryUseCase struct {
	Campaigns ports.CampaignRepository
	Ledger    ports.Ledger
	Clock     ports.Clock
}

func (uc CampaignQueryUseCase) GetCampaign(ctx context.Context, campaignID string) (CampaignView, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return CampaignView{}, domainerrors.ErrInvalidCampaignID
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return CampaignView{}, err
	}
	balance, err := uc.Ledger.Balance(ctx, ledger.CampaignEscrowAccount(campaignID))
	if err != nil {
		return CampaignView{}, err
	}
	return CampaignView{
		Campaign:        campaign,
		EscrowBalance:   balance,
		EffectiveStatus: uc.effectiveStatus(campaign),
	}, nil
}

func (uc CampaignQueryUseCase) ListCampaigns(ctx context.Context, activeOnly bool, limit int, offset int) ([]CampaignView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	campaigns, err := uc.Campaigns.ListCampaigns(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]CampaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		balance, err := uc.Ledger.Balance(ctx, ledger.CampaignEscrowAccount(campaign.CampaignID))
		if err != nil {
			return nil, err
		}
		views = append(views, CampaignView{
			Campaign:        campaign,
			EscrowBalance:   balance,
			EffectiveStatus: uc.effectiveStatus(campaign),
		})
	}
	return views, nil
}

func (uc CampaignQueryUseCase) effectiveStatus(campaign entities.Campaign) entities.CampaignStatus {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	if campaign.Status == entities.CampaignStatusActive && campaign.IsExpired(now) {
		return entities.CampaignStatusInactive
	}
	return campaign.Status
}
