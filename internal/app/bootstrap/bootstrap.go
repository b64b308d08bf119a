package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	campaignlifecycle "pollvault/contexts/campaign-voting/campaign-lifecycle"
	campaignpostgres "pollvault/contexts/campaign-voting/campaign-lifecycle/adapters/postgres"
	campaignworkers "pollvault/contexts/campaign-voting/campaign-lifecycle/application/workers"
	reputationengine "pollvault/contexts/community-experience/reputation-engine"
	reputationpostgres "pollvault/contexts/community-experience/reputation-engine/adapters/postgres"
	treasuryservice "pollvault/contexts/finance-core/treasury-service"
	treasurypostgres "pollvault/contexts/finance-core/treasury-service/adapters/postgres"
	"pollvault/internal/platform/config"
	"pollvault/internal/platform/db"
	"pollvault/internal/platform/httpserver"
	"pollvault/internal/platform/ledger"
	"pollvault/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  campaignworkers.OutboxRelay
	pollInterval time.Duration
	relayEnabled bool
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	funds := ledger.NewPostgres(pg.DB, logger)

	treasuryRepo := treasurypostgres.NewRepository(pg.DB, logger)
	treasury := treasuryservice.NewModule(treasuryservice.Dependencies{
		Config: treasuryRepo,
		Ledger: funds,
		Atomic: pg,
		Clock:  treasurypostgres.SystemClock{},
		Logger: logger,
	})

	reputationRepo := reputationpostgres.NewRepository(pg.DB, logger)
	reputation := reputationengine.NewModule(reputationengine.Dependencies{
		Reputations: reputationRepo,
		Logger:      logger,
	})

	campaignRepo := campaignpostgres.NewRepository(pg.DB, logger)
	campaigns := campaignlifecycle.NewModule(campaignlifecycle.Dependencies{
		Campaigns:  campaignRepo,
		Votes:      campaignRepo,
		Ledger:     funds,
		Platform:   treasury.Service,
		Reputation: reputation.Service,
		Outbox:     campaignRepo,
		OutboxRepo: campaignRepo,
		Atomic:     pg,
		Clock:      campaignpostgres.SystemClock{},
		IDGen:      campaignpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(campaigns, treasury, reputation, funds, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := campaignpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: campaignworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     campaignpostgres.SystemClock{},
			BatchSize: cfg.OutboxRelayBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxRelayInterval,
		relayEnabled: cfg.EnableOutboxRelay,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.relayEnabled {
		w.logger.Info("outbox relay disabled; worker idling",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
