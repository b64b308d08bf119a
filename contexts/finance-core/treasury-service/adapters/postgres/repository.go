package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"pollvault/contexts/finance-core/treasury-service/domain/entities"
	domainerrors "pollvault/contexts/finance-core/treasury-service/domain/errors"
	"pollvault/internal/platform/db"
)

// singletonKey pins the config table to one row.
const singletonKey = 1

type configModel struct {
	ID                int       `gorm:"column:id;primaryKey"`
	AuthorityID       string    `gorm:"column:authority_id"`
	FeeBps            int16     `gorm:"column:fee_bps"`
	TotalFeeCollected int64     `gorm:"column:total_fee_collected"`
	TotalCampaigns    int64     `gorm:"column:total_campaigns"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (configModel) TableName() string {
	return "platform_config"
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(gdb *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: gdb, logger: logger}
}

func (r *Repository) CreateConfig(ctx context.Context, cfg entities.PlatformConfig) error {
	row := configModelFromEntity(cfg)
	err := db.FromContext(ctx, r.db).WithContext(ctx).Create(&row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPlatformAlreadyInitialized
		}
		return r.logError("treasury_repo_create_config_failed", err)
	}
	return nil
}

func (r *Repository) GetConfig(ctx context.Context) (entities.PlatformConfig, error) {
	var row configModel
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("id = ?", singletonKey).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PlatformConfig{}, domainerrors.ErrPlatformNotInitialized
		}
		return entities.PlatformConfig{}, r.logError("treasury_repo_get_config_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveConfig(ctx context.Context, cfg entities.PlatformConfig) error {
	row := configModelFromEntity(cfg)
	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&configModel{}).
		Where("id = ?", singletonKey).
		Updates(map[string]any{
			"authority_id":        row.AuthorityID,
			"fee_bps":             row.FeeBps,
			"total_fee_collected": row.TotalFeeCollected,
			"total_campaigns":     row.TotalCampaigns,
			"updated_at":          row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("treasury_repo_save_config_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPlatformNotInitialized
	}
	return nil
}

func configModelFromEntity(cfg entities.PlatformConfig) configModel {
	return configModel{
		ID:                singletonKey,
		AuthorityID:       cfg.AuthorityID,
		FeeBps:            int16(cfg.FeeBps),
		TotalFeeCollected: int64(cfg.TotalFeeCollected),
		TotalCampaigns:    int64(cfg.TotalCampaigns),
		CreatedAt:         cfg.CreatedAt.UTC(),
		UpdatedAt:         cfg.UpdatedAt.UTC(),
	}
}

func (m configModel) toEntity() entities.PlatformConfig {
	return entities.PlatformConfig{
		AuthorityID:       m.AuthorityID,
		FeeBps:            uint16(m.FeeBps),
		TotalFeeCollected: uint64(m.TotalFeeCollected),
		TotalCampaigns:    uint64(m.TotalCampaigns),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) logError(event string, err error) error {
	r.logger.Error("treasury repository operation failed",
		"event", event,
		"module", "finance-core/treasury-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	return err
}
