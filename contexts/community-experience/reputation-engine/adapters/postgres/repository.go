package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pollvault/contexts/community-experience/reputation-engine/domain/entities"
	"pollvault/internal/platform/db"
)

type reputationModel struct {
	UserID        string    `gorm:"column:user_id;primaryKey"`
	TotalVotes    int64     `gorm:"column:total_votes"`
	CurrentStreak int32     `gorm:"column:current_streak"`
	LongestStreak int32     `gorm:"column:longest_streak"`
	LastVoteAt    int64     `gorm:"column:last_vote_at"`
	Score         int64     `gorm:"column:score"`
	Tier          string    `gorm:"column:tier"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (reputationModel) TableName() string {
	return "user_reputation"
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

func (r *Repository) GetReputation(ctx context.Context, userID string) (entities.UserReputation, bool, error) {
	var row reputationModel
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UserReputation{}, false, nil
		}
		return entities.UserReputation{}, false, r.logError("reputation_repo_get_failed", err,
			"user_id", strings.TrimSpace(userID))
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveReputation(ctx context.Context, rep entities.UserReputation) error {
	row := reputationModelFromEntity(rep)
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_votes":    row.TotalVotes,
				"current_streak": row.CurrentStreak,
				"longest_streak": row.LongestStreak,
				"last_vote_at":   row.LastVoteAt,
				"score":          row.Score,
				"tier":           row.Tier,
				"updated_at":     row.UpdatedAt,
			}),
		}).
		Create(&row).Error
	if err != nil {
		return r.logError("reputation_repo_save_failed", err, "user_id", row.UserID)
	}
	return nil
}

func reputationModelFromEntity(rep entities.UserReputation) reputationModel {
	return reputationModel{
		UserID:        strings.TrimSpace(rep.UserID),
		TotalVotes:    int64(rep.TotalVotes),
		CurrentStreak: int32(rep.CurrentStreak),
		LongestStreak: int32(rep.LongestStreak),
		LastVoteAt:    rep.LastVoteAt,
		Score:         int64(rep.Score),
		Tier:          string(rep.Tier),
		UpdatedAt:     rep.UpdatedAt.UTC(),
	}
}

func (m reputationModel) toEntity() entities.UserReputation {
	tier, ok := entities.ParseTier(m.Tier)
	if !ok {
		tier = entities.TierForScore(uint64(m.Score))
	}
	return entities.UserReputation{
		UserID:        m.UserID,
		TotalVotes:    uint64(m.TotalVotes),
		CurrentStreak: uint32(m.CurrentStreak),
		LongestStreak: uint32(m.LongestStreak),
		LastVoteAt:    m.LastVoteAt,
		Score:         uint64(m.Score),
		Tier:          tier,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "community-experience/reputation-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("reputation repository operation failed", fields...)
	return err
}
