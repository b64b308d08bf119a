package reputationengine

import (
	"log/slog"

	httpadapter "pollvault/contexts/community-experience/reputation-engine/adapters/http"
	"pollvault/contexts/community-experience/reputation-engine/adapters/memory"
	"pollvault/contexts/community-experience/reputation-engine/application"
	"pollvault/contexts/community-experience/reputation-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Reputations ports.ReputationRepository
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Reputations: deps.Reputations,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Reputations: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
