package ports

import (
	"context"
	"time"

	"pollvault/contexts/finance-core/treasury-service/domain/entities"
)

type ConfigRepository interface {
	// CreateConfig fails if the singleton already exists.
	CreateConfig(ctx context.Context, cfg entities.PlatformConfig) error
	GetConfig(ctx context.Context) (entities.PlatformConfig, error)
	SaveConfig(ctx context.Context, cfg entities.PlatformConfig) error
}

// Ledger is the custodial balance collaborator. Each call is atomic;
// grouping calls into one transaction is the Atomic port's job.
type Ledger interface {
	Transfer(ctx context.Context, from string, to string, amount uint64) error
	Balance(ctx context.Context, account string) (uint64, error)
	MinimumReserve(sizeBytes int) uint64
}

// Atomic runs fn with all-or-nothing semantics across every repository and
// ledger call made inside it.
type Atomic interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}
