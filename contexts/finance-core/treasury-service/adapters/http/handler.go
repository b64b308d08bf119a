package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"pollvault/contexts/finance-core/treasury-service/application"
	"pollvault/contexts/finance-core/treasury-service/domain/entities"
	httptransport "pollvault/contexts/finance-core/treasury-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) InitializePlatformHandler(
	ctx context.Context,
	authorityID string,
	req httptransport.InitializePlatformRequest,
) (httptransport.PlatformResponse, error) {
	cfg, err := h.Service.InitializePlatform(ctx, authorityID, req.FeeBps)
	if err != nil {
		return httptransport.PlatformResponse{}, err
	}
	return httptransport.PlatformResponse{
		Status: "success",
		Data:   h.toDTO(ctx, cfg),
	}, nil
}

func (h Handler) GetPlatformHandler(ctx context.Context) (httptransport.PlatformResponse, error) {
	cfg, err := h.Service.GetPlatform(ctx)
	if err != nil {
		return httptransport.PlatformResponse{}, err
	}
	return httptransport.PlatformResponse{
		Status: "success",
		Data:   h.toDTO(ctx, cfg),
	}, nil
}

func (h Handler) WithdrawFeesHandler(
	ctx context.Context,
	actorID string,
) (httptransport.WithdrawFeesResponse, error) {
	withdrawn, err := h.Service.WithdrawFees(ctx, actorID)
	if err != nil {
		return httptransport.WithdrawFeesResponse{}, err
	}
	resp := httptransport.WithdrawFeesResponse{Status: "success"}
	resp.Data.Withdrawn = withdrawn
	return resp, nil
}

func (h Handler) toDTO(ctx context.Context, cfg entities.PlatformConfig) httptransport.PlatformDTO {
	// Custody balance is informational; a lookup failure degrades to zero
	// rather than failing the read.
	balance, _ := h.Service.Ledger.Balance(ctx, application.FeeCustodyAccount)
	return httptransport.PlatformDTO{
		AuthorityID:       cfg.AuthorityID,
		FeeBps:            cfg.FeeBps,
		TotalFeeCollected: cfg.TotalFeeCollected,
		TotalCampaigns:    cfg.TotalCampaigns,
		CustodyBalance:    balance,
		CreatedAt:         cfg.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         cfg.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
