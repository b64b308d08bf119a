package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pollvault/contexts/campaign-voting/campaign-lifecycle/domain/entities"
	domainerrors "pollvault/contexts/campaign-voting/campaign-lifecycle/domain/errors"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
	"pollvault/internal/platform/db"
)

type campaignModel struct {
	CampaignID           string    `gorm:"column:campaign_id;primaryKey"`
	CreatorID            string    `gorm:"column:creator_id;index"`
	Title                string    `gorm:"column:title"`
	Description          string    `gorm:"column:description"`
	Options              []byte    `gorm:"column:options"`
	VoteCounts           []byte    `gorm:"column:vote_counts"`
	Participants         []byte    `gorm:"column:participants"`
	Reward               int64     `gorm:"column:reward"`
	RewardPerParticipant int64     `gorm:"column:reward_per_participant"`
	MaxParticipants      int64     `gorm:"column:max_participants"`
	MinReputation        int16     `gorm:"column:min_reputation"`
	TotalVotes           int64     `gorm:"column:total_votes"`
	EndDate              int64     `gorm:"column:end_date"`
	Status               string    `gorm:"column:status;index"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

type voteModel struct {
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	VoterID    string    `gorm:"column:voter_id;primaryKey"`
	Choice     int16     `gorm:"column:choice"`
	VotedAt    time.Time `gorm:"column:voted_at"`
}

func (voteModel) TableName() string {
	return "campaign_votes"
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status;index"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (outboxModel) TableName() string {
	return "campaign_outbox"
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

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

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row, err := campaignModelFromEntity(campaign)
	if err != nil {
		return r.logError("campaign_repo_create_marshal_failed", err)
	}
	if err := db.FromContext(ctx, r.db).WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrCampaignAlreadyExists
		}
		return r.logError("campaign_repo_create_failed", err)
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, r.logError("campaign_repo_get_failed", err)
	}
	return row.toEntity()
}

func (r *Repository) GetCampaignForUpdate(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("campaign_id = ?", campaignID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, r.logError("campaign_repo_get_for_update_failed", err)
	}
	return row.toEntity()
}

func (r *Repository) SaveCampaign(ctx context.Context, campaign entities.Campaign) error {
	row, err := campaignModelFromEntity(campaign)
	if err != nil {
		return r.logError("campaign_repo_save_marshal_failed", err)
	}
	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", row.CampaignID).
		Updates(map[string]any{
			"options":      row.Options,
			"vote_counts":  row.VoteCounts,
			"participants": row.Participants,
			"total_votes":  row.TotalVotes,
			"status":       row.Status,
			"updated_at":   row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("campaign_repo_save_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) ListCampaigns(ctx context.Context, activeOnly bool, limit int, offset int) ([]entities.Campaign, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&campaignModel{}).
		Order("created_at DESC, campaign_id ASC")
	if activeOnly {
		query = query.Where("status = ?", string(entities.CampaignStatusActive))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []campaignModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("campaign_repo_list_failed", err)
	}
	campaigns := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		campaign, err := row.toEntity()
		if err != nil {
			return nil, r.logError("campaign_repo_list_decode_failed", err)
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

func (r *Repository) CreateVote(ctx context.Context, vote entities.Vote) error {
	row := voteModel{
		CampaignID: vote.CampaignID,
		VoterID:    vote.VoterID,
		Choice:     int16(vote.Choice),
		VotedAt:    vote.VotedAt.UTC(),
	}
	if err := db.FromContext(ctx, r.db).WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrVoteAlreadyCast
		}
		return r.logError("campaign_repo_create_vote_failed", err)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, campaignID string, voterID string) (entities.Vote, bool, error) {
	var row voteModel
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("campaign_id = ? AND voter_id = ?", campaignID, voterID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("campaign_repo_get_vote_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByCampaign(ctx context.Context, campaignID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("voted_at ASC, voter_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("campaign_repo_list_votes_failed", err)
	}
	votes := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.toEntity())
	}
	return votes, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("campaign_repo_append_outbox_marshal_failed", err)
	}
	row := outboxModel{
		OutboxID:  envelope.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	create := db.FromContext(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("campaign_repo_append_outbox_failed", create.Error)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC, outbox_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []outboxModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("campaign_repo_list_outbox_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:    row.OutboxID,
			EventType:   row.EventType,
			Payload:     row.Payload,
			PublishedAt: row.PublishedAt,
			CreatedAt:   row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		})
	if result.Error != nil {
		return r.logError("campaign_repo_mark_outbox_failed", result.Error)
	}
	return nil
}

func campaignModelFromEntity(campaign entities.Campaign) (campaignModel, error) {
	options, err := json.Marshal(campaign.Options)
	if err != nil {
		return campaignModel{}, err
	}
	counts, err := json.Marshal(campaign.VoteCounts)
	if err != nil {
		return campaignModel{}, err
	}
	participants, err := json.Marshal(campaign.Participants)
	if err != nil {
		return campaignModel{}, err
	}
	return campaignModel{
		CampaignID:           campaign.CampaignID,
		CreatorID:            campaign.CreatorID,
		Title:                campaign.Title,
		Description:          campaign.Description,
		Options:              options,
		VoteCounts:           counts,
		Participants:         participants,
		Reward:               int64(campaign.Reward),
		RewardPerParticipant: int64(campaign.RewardPerParticipant),
		MaxParticipants:      int64(campaign.MaxParticipants),
		MinReputation:        int16(campaign.MinReputation),
		TotalVotes:           int64(campaign.TotalVotes),
		EndDate:              campaign.EndDate,
		Status:               string(campaign.Status),
		CreatedAt:            campaign.CreatedAt.UTC(),
		UpdatedAt:            campaign.UpdatedAt.UTC(),
	}, nil
}

func (m campaignModel) toEntity() (entities.Campaign, error) {
	var options []string
	if len(m.Options) > 0 {
		if err := json.Unmarshal(m.Options, &options); err != nil {
			return entities.Campaign{}, err
		}
	}
	var counts []uint64
	if len(m.VoteCounts) > 0 {
		if err := json.Unmarshal(m.VoteCounts, &counts); err != nil {
			return entities.Campaign{}, err
		}
	}
	var participants []string
	if len(m.Participants) > 0 {
		if err := json.Unmarshal(m.Participants, &participants); err != nil {
			return entities.Campaign{}, err
		}
	}
	return entities.Campaign{
		CampaignID:           m.CampaignID,
		CreatorID:            m.CreatorID,
		Title:                m.Title,
		Description:          m.Description,
		Options:              options,
		VoteCounts:           counts,
		Participants:         participants,
		Reward:               uint64(m.Reward),
		RewardPerParticipant: uint64(m.RewardPerParticipant),
		MaxParticipants:      uint64(m.MaxParticipants),
		MinReputation:        uint8(m.MinReputation),
		TotalVotes:           uint64(m.TotalVotes),
		EndDate:              m.EndDate,
		Status:               entities.CampaignStatus(m.Status),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}, nil
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		CampaignID: m.CampaignID,
		VoterID:    m.VoterID,
		Choice:     uint8(m.Choice),
		VotedAt:    m.VotedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) logError(event string, err error) error {
	r.logger.Error("campaign repository operation failed",
		"event", event,
		"module", "campaign-voting/campaign-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	)
	return err
}
