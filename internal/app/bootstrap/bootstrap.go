package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	clipreview "clipledger/contexts/creator-monetization/clip-review-service"
	clippostgres "clipledger/contexts/creator-monetization/clip-review-service/adapters/postgres"
	workerapp "clipledger/contexts/creator-monetization/clip-review-service/application/workers"
	cliperrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	clipports "clipledger/contexts/creator-monetization/clip-review-service/ports"
	ratecard "clipledger/contexts/creator-monetization/rate-card-service"
	ratecardpostgres "clipledger/contexts/creator-monetization/rate-card-service/adapters/postgres"
	ratecardentities "clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	programerrors "clipledger/contexts/creator-monetization/rate-card-service/domain/errors"
	"clipledger/internal/platform/config"
	"clipledger/internal/platform/db"
	"clipledger/internal/platform/httpserver"
	"clipledger/internal/platform/messaging"
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
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
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
	if err := clippostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}
	if err := ratecardpostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}

	programRepo := ratecardpostgres.NewRepository(pg.DB, logger)
	programModule := ratecard.NewModule(ratecard.Dependencies{
		Programs: programRepo,
		Clock:    ratecardpostgres.SystemClock{},
		IDGen:    ratecardpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	clipRepo := clippostgres.NewRepository(pg.DB, logger)
	clipModule := clipreview.NewModule(clipreview.Dependencies{
		UnitOfWork: clipRepo,
		Clips:      clipRepo,
		Ledger:     clipRepo,
		Rates:      rateResolver{programs: programModule.Queries},
		Clock:      clippostgres.SystemClock{},
		IDGen:      clippostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(clipModule, programModule, logger, normalizeAddr(cfg.HTTPPort))
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
	if err := clippostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	clipRepo := clippostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    clipRepo,
			Publisher: bus,
			Clock:     clippostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Disabled:  !cfg.EnableOutboxRelay,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
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

// rateResolver bridges the rate-card module into the clip review engine.
// Archived programs still resolve so clawbacks and re-approvals keep working.
type rateResolver struct {
	programs interface {
		GetProgram(ctx context.Context, programID string) (ratecardentities.Program, error)
	}
}

func (r rateResolver) Rate(ctx context.Context, programID string) (clipports.ProgramRate, error) {
	program, err := r.programs.GetProgram(ctx, programID)
	if errors.Is(err, programerrors.ErrProgramNotFound) {
		return clipports.ProgramRate{}, cliperrors.ErrProgramNotFound
	}
	if err != nil {
		return clipports.ProgramRate{}, err
	}
	return clipports.ProgramRate{
		ProgramID:        program.ProgramID,
		RatePer100KViews: program.RatePer100KViews,
		Active:           program.IsActive(),
	}, nil
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
