package campaignlifecycle

import (
	"log/slog"

	httpadapter "pollvault/contexts/campaign-voting/campaign-lifecycle/adapters/http"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/adapters/memory"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/application/commands"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/application/queries"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/application/workers"
	"pollvault/contexts/campaign-voting/campaign-lifecycle/ports"
	reputationengine "pollvault/contexts/community-experience/reputation-engine"
	treasuryservice "pollvault/contexts/finance-core/treasury-service"
	"pollvault/internal/platform/ledger"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.CampaignUseCase
	Queries  queries.CampaignQueryUseCase
	Relay    workers.OutboxRelay
	Store    *memory.Store
}

type Dependencies struct {
	Campaigns  ports.CampaignRepository
	Votes      ports.VoteRepository
	Ledger     ports.Ledger
	Platform   ports.PlatformService
	Reputation ports.ReputationService
	Rewards    ports.RewardAdjuster
	Outbox     ports.OutboxWriter
	OutboxRepo ports.OutboxRepository
	Publisher  ports.EventPublisher
	Atomic     ports.Atomic
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	cmds := commands.CampaignUseCase{
		Campaigns:  deps.Campaigns,
		Votes:      deps.Votes,
		Ledger:     deps.Ledger,
		Platform:   deps.Platform,
		Reputation: deps.Reputation,
		Rewards:    deps.Rewards,
		Outbox:     deps.Outbox,
		Atomic:     deps.Atomic,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	qrys := queries.CampaignQueryUseCase{
		Campaigns: deps.Campaigns,
		Ledger:    deps.Ledger,
		Clock:     deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: cmds,
			Queries:  qrys,
			Logger:   deps.Logger,
		},
		Commands: cmds,
		Queries:  qrys,
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule composes the full campaign stack against in-process
// stores: the shared funds ledger, an in-memory treasury, and an in-memory
// reputation engine. Tests and local runs use this wiring.
func NewInMemoryModule(funds *ledger.Memory, logger *slog.Logger) (Module, treasuryservice.Module, reputationengine.Module) {
	store := memory.NewStore()
	treasury := treasuryservice.NewInMemoryModule(funds, logger)
	reputation := reputationengine.NewInMemoryModule(logger)
	module := NewModule(Dependencies{
		Campaigns:  store,
		Votes:      store,
		Ledger:     funds,
		Platform:   treasury.Service,
		Reputation: reputation.Service,
		Outbox:     store,
		OutboxRepo: store,
		Atomic:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module, treasury, reputation
}
