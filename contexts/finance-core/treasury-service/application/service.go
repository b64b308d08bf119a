package application

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"pollvault/contexts/finance-core/treasury-service/domain/entities"
	domainerrors "pollvault/contexts/finance-core/treasury-service/domain/errors"
	"pollvault/contexts/finance-core/treasury-service/ports"
	"pollvault/internal/shared/economics"
)

// FeeCustodyAccount holds skimmed fees until the authority withdraws them.
const FeeCustodyAccount = "platform:fees"

// Service orchestrates treasury operations: one-time platform
// initialization, fee accrual from campaign creation, and authority-only
// withdrawal of everything above the storage-retention reserve.
type Service struct {
	Config ports.ConfigRepository
	Ledger ports.Ledger
	Atomic ports.Atomic
	Clock  ports.Clock
	Logger *slog.Logger
}

// InitializePlatform creates the singleton config. The fee rate is basis
// points and must stay below 10%.
func (s Service) InitializePlatform(ctx context.Context, authorityID string, feeBps uint16) (entities.PlatformConfig, error) {
	logger := ResolveLogger(s.Logger)
	authorityID = strings.TrimSpace(authorityID)
	if authorityID == "" {
		return entities.PlatformConfig{}, domainerrors.ErrInvalidAuthority
	}
	if feeBps >= economics.MaxFeeBps {
		return entities.PlatformConfig{}, domainerrors.ErrFeeTooHigh
	}

	now := s.Clock.Now().UTC()
	cfg := entities.PlatformConfig{
		AuthorityID:       authorityID,
		FeeBps:            feeBps,
		TotalFeeCollected: 0,
		TotalCampaigns:    0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Config.CreateConfig(ctx, cfg); err != nil {
		return entities.PlatformConfig{}, err
	}

	logger.Info("platform initialized",
		"event", "treasury_platform_initialized",
		"module", "finance-core/treasury-service",
		"layer", "application",
		"authority_id", authorityID,
		"fee_bps", feeBps,
	)
	return cfg, nil
}

// GetPlatform returns the singleton config.
func (s Service) GetPlatform(ctx context.Context) (entities.PlatformConfig, error) {
	return s.Config.GetConfig(ctx)
}

// CampaignFeeBps exposes the fee rate to the campaign lifecycle.
func (s Service) CampaignFeeBps(ctx context.Context) (uint16, error) {
	cfg, err := s.Config.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.FeeBps, nil
}

// CollectCampaignFee records one funded campaign: the skimmed fee joins the
// running total and the campaign counter advances. The fee itself must
// already sit in custody; this only maintains the display counters.
func (s Service) CollectCampaignFee(ctx context.Context, fee uint64) error {
	cfg, err := s.Config.GetConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.TotalFeeCollected > math.MaxUint64-fee {
		return domainerrors.ErrCounterOverflow
	}
	if cfg.TotalCampaigns == math.MaxUint64 {
		return domainerrors.ErrCounterOverflow
	}
	cfg.TotalFeeCollected += fee
	cfg.TotalCampaigns++
	cfg.UpdatedAt = s.Clock.Now().UTC()
	return s.Config.SaveConfig(ctx, cfg)
}

// WithdrawFees pays the authority everything in custody above the retention
// reserve and resets the display counter. The reserve keeps the config
// record resident in the external runtime.
func (s Service) WithdrawFees(ctx context.Context, actorID string) (uint64, error) {
	logger := ResolveLogger(s.Logger)

	var withdrawn uint64
	err := s.Atomic.Execute(ctx, func(ctx context.Context) error {
		cfg, err := s.Config.GetConfig(ctx)
		if err != nil {
			return err
		}
		if strings.TrimSpace(actorID) != cfg.AuthorityID {
			return domainerrors.ErrUnauthorized
		}

		balance, err := s.Ledger.Balance(ctx, FeeCustodyAccount)
		if err != nil {
			return err
		}
		reserve := s.Ledger.MinimumReserve(economics.ConfigStorageSize())
		if balance <= reserve {
			return domainerrors.ErrInsufficientWithdrawableFunds
		}
		available := balance - reserve

		if err := s.Ledger.Transfer(ctx, FeeCustodyAccount, cfg.AuthorityID, available); err != nil {
			return err
		}

		// Display counter only; custody balance is tracked by the ledger.
		cfg.TotalFeeCollected = 0
		cfg.UpdatedAt = s.Clock.Now().UTC()
		if err := s.Config.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		withdrawn = available
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("platform fees withdrawn",
		"event", "treasury_fees_withdrawn",
		"module", "finance-core/treasury-service",
		"layer", "application",
		"authority_id", strings.TrimSpace(actorID),
		"amount", withdrawn,
	)
	return withdrawn, nil
}
