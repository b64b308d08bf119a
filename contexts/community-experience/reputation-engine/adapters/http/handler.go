package httpadapter

import (
	"context"
	"log/slog"

	"pollvault/contexts/community-experience/reputation-engine/application"
	httptransport "pollvault/contexts/community-experience/reputation-engine/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetReputationHandler(
	ctx context.Context,
	userID string,
) (httptransport.ReputationResponse, error) {
	rep, err := h.Service.GetReputation(ctx, userID)
	if err != nil {
		return httptransport.ReputationResponse{}, err
	}
	return httptransport.ReputationResponse{
		Status: "success",
		Data: httptransport.ReputationDTO{
			UserID:        rep.UserID,
			TotalVotes:    rep.TotalVotes,
			CurrentStreak: rep.CurrentStreak,
			LongestStreak: rep.LongestStreak,
			LastVoteAt:    rep.LastVoteAt,
			Score:         rep.Score,
			Tier:          string(rep.Tier),
			TierOrdinal:   rep.Tier.Ordinal(),
		},
	}, nil
}
