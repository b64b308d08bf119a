package ledger

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pollvault/internal/platform/db"
)

type accountModel struct {
	AccountID string    `gorm:"column:account_id;primaryKey"`
	Balance   int64     `gorm:"column:balance"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "ledger_accounts"
}

// Postgres is the durable ledger adapter. Transfers lock both account rows
// inside the caller's transaction so concurrent operations on the same
// balance serialize on the database.
type Postgres struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPostgres(gdb *gorm.DB, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: gdb, logger: logger}
}

func (p *Postgres) Deposit(ctx context.Context, account string, amount uint64) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return ErrInvalidAccount
	}
	tx := db.FromContext(ctx, p.db).WithContext(ctx)

	row, err := lockAccount(tx, account)
	if err != nil {
		return err
	}
	current := uint64(row.Balance)
	if current > math.MaxUint64-amount || current+amount > math.MaxInt64 {
		return ErrAmountOverflow
	}
	return tx.Model(&accountModel{}).
		Where("account_id = ?", account).
		Updates(map[string]any{
			"balance":    int64(current + amount),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (p *Postgres) Balance(ctx context.Context, account string) (uint64, error) {
	tx := db.FromContext(ctx, p.db).WithContext(ctx)

	var row accountModel
	err := tx.Where("account_id = ?", strings.TrimSpace(account)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, p.logError("ledger_balance_lookup_failed", err, "account_id", account)
	}
	return uint64(row.Balance), nil
}

func (p *Postgres) Transfer(ctx context.Context, from string, to string, amount uint64) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" || from == to {
		return ErrInvalidAccount
	}
	tx := db.FromContext(ctx, p.db).WithContext(ctx)

	// Lock rows in a stable order so concurrent transfers cannot deadlock.
	accounts := []string{from, to}
	sort.Strings(accounts)
	rows := make(map[string]accountModel, 2)
	for _, account := range accounts {
		row, err := lockAccount(tx, account)
		if err != nil {
			return p.logError("ledger_transfer_lock_failed", err, "account_id", account)
		}
		rows[account] = row
	}

	source := uint64(rows[from].Balance)
	if source < amount {
		return ErrInsufficientFunds
	}
	target := uint64(rows[to].Balance)
	if target > math.MaxUint64-amount || target+amount > math.MaxInt64 {
		return ErrAmountOverflow
	}

	now := time.Now().UTC()
	if err := tx.Model(&accountModel{}).
		Where("account_id = ?", from).
		Updates(map[string]any{"balance": int64(source - amount), "updated_at": now}).Error; err != nil {
		return p.logError("ledger_transfer_debit_failed", err, "account_id", from)
	}
	if err := tx.Model(&accountModel{}).
		Where("account_id = ?", to).
		Updates(map[string]any{"balance": int64(target + amount), "updated_at": now}).Error; err != nil {
		return p.logError("ledger_transfer_credit_failed", err, "account_id", to)
	}
	return nil
}

func (p *Postgres) MinimumReserve(sizeBytes int) uint64 {
	return ComputeMinimumReserve(sizeBytes)
}

// lockAccount reads an account row with a row-level lock, creating the row
// lazily on first use so new voters and escrows need no provisioning step.
func lockAccount(tx *gorm.DB, account string) (accountModel, error) {
	row := accountModel{AccountID: account, UpdatedAt: time.Now().UTC()}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return accountModel{}, err
	}
	var locked accountModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", account).
		First(&locked).Error
	if err != nil {
		return accountModel{}, err
	}
	return locked, nil
}

func (p *Postgres) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "internal/platform/ledger",
		"layer", "platform",
		"error", err.Error(),
	}, args...)
	p.logger.Error("ledger operation failed", fields...)
	return err
}
