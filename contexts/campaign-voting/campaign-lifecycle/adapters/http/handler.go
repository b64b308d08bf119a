package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"pollvault/contexts/campaign-voting/campaign-lifecycle/application/commands"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/application/queries"
	httptransport "pollvault/contexts/campaign-voting/campaign-lifecycle/transport/http"
)

type Handler struct {
	Commands commands.CampaignUseCase
	Queries  queries.CampaignQueryUseCase
	Logger   *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	result, err := h.Commands.CreateCampaign(ctx, commands.CreateCampaignCommand{
		CreatorID:       actorID,
		CampaignID:      req.CampaignID,
		Title:           req.Title,
		Description:     req.Description,
		Options:         req.Options,
		Reward:          req.Reward,
		MaxParticipants: req.MaxParticipants,
		MinReputation:   req.MinReputation,
		EndDate:         req.EndDate,
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	view, err := h.Queries.GetCampaign(ctx, result.Campaign.CampaignID)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	resp := httptransport.CreateCampaignResponse{Status: "success"}
	resp.Data.Campaign = toCampaignDTO(view)
	resp.Data.FeeCharged = result.FeeCharged
	return resp, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.CampaignResponse, error) {
	view, err := h.Queries.GetCampaign(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{
		Status: "success",
		Data:   toCampaignDTO(view),
	}, nil
}

func (h Handler) ListCampaignsHandler(
	ctx context.Context,
	activeOnly bool,
	limit int,
	offset int,
) (httptransport.CampaignListResponse, error) {
	views, err := h.Queries.ListCampaigns(ctx, activeOnly, limit, offset)
	if err != nil {
		return httptransport.CampaignListResponse{}, err
	}
	dtos := make([]httptransport.CampaignDTO, 0, len(views))
	for _, view := range views {
		dtos = append(dtos, toCampaignDTO(view))
	}
	return httptransport.CampaignListResponse{Status: "success", Data: dtos}, nil
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	campaignID string,
	actorID string,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Commands.SubmitVote(ctx, commands.SubmitVoteCommand{
		CampaignID: campaignID,
		VoterID:    actorID,
		Choice:     req.Choice,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	resp := httptransport.SubmitVoteResponse{Status: "success"}
	resp.Data.CampaignID = result.Vote.CampaignID
	resp.Data.VoterID = result.Vote.VoterID
	resp.Data.Choice = result.Vote.Choice
	resp.Data.RewardPaid = result.RewardPaid
	resp.Data.CampaignCompleted = result.CampaignCompleted
	resp.Data.VotedAt = result.Vote.VotedAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func (h Handler) CancelCampaignHandler(
	ctx context.Context,
	campaignID string,
	actorID string,
) (httptransport.CancelCampaignResponse, error) {
	result, err := h.Commands.CancelCampaign(ctx, commands.CancelCampaignCommand{
		CampaignID: campaignID,
		ActorID:    actorID,
	})
	if err != nil {
		return httptransport.CancelCampaignResponse{}, err
	}
	resp := httptransport.CancelCampaignResponse{Status: "success"}
	resp.Data.CampaignID = result.Campaign.CampaignID
	resp.Data.Refunded = result.Refunded
	return resp, nil
}

func (h Handler) CloseCampaignHandler(
	ctx context.Context,
	campaignID string,
	actorID string,
) (httptransport.CloseCampaignResponse, error) {
	result, err := h.Commands.CloseCampaign(ctx, commands.CloseCampaignCommand{
		CampaignID: campaignID,
		ActorID:    actorID,
	})
	if err != nil {
		return httptransport.CloseCampaignResponse{}, err
	}
	resp := httptransport.CloseCampaignResponse{Status: "success"}
	resp.Data.CampaignID = result.Campaign.CampaignID
	resp.Data.Swept = result.Swept
	return resp, nil
}

func toCampaignDTO(view queries.CampaignView) httptransport.CampaignDTO {
	campaign := view.Campaign
	return httptransport.CampaignDTO{
		CampaignID:           campaign.CampaignID,
		CreatorID:            campaign.CreatorID,
		Title:                campaign.Title,
		Description:          campaign.Description,
		Options:              campaign.Options,
		VoteCounts:           campaign.VoteCounts,
		Reward:               campaign.Reward,
		RewardPerParticipant: campaign.RewardPerParticipant,
		Participants:         campaign.Participants,
		MaxParticipants:      campaign.MaxParticipants,
		MinReputation:        campaign.MinReputation,
		TotalVotes:           campaign.TotalVotes,
		EndDate:              campaign.EndDate,
		Status:               string(view.EffectiveStatus),
		EscrowBalance:        view.EscrowBalance,
		CreatedAt:            campaign.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            campaign.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
