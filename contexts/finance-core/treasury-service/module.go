package treasuryservice

import (
	"log/slog"

	httpadapter "pollvault/contexts/finance-core/treasury-service/adapters/http"
	"pollvault/contexts/finance-core/treasury-service/adapters/memory"
	"pollvault/contexts/finance-core/treasury-service/application"
	"pollvault/contexts/finance-core/treasury-service/ports"
	"pollvault/internal/platform/ledger"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Config ports.ConfigRepository
	Ledger ports.Ledger
	Atomic ports.Atomic
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Config: deps.Config,
		Ledger: deps.Ledger,
		Atomic: deps.Atomic,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the module against an in-process config store and
// the provided ledger, for tests and local composition.
func NewInMemoryModule(funds *ledger.Memory, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Config: store,
		Ledger: funds,
		Atomic: store,
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
