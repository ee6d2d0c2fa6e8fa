package clipreviewservice

import (
	"log/slog"

	httpadapter "clipledger/contexts/creator-monetization/clip-review-service/adapters/http"
	"clipledger/contexts/creator-monetization/clip-review-service/adapters/memory"
	"clipledger/contexts/creator-monetization/clip-review-service/application/commands"
	"clipledger/contexts/creator-monetization/clip-review-service/application/queries"
	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Rates   *memory.RateTable
}

type Dependencies struct {
	UnitOfWork ports.UnitOfWork
	Clips      ports.ClipStore
	Ledger     ports.LedgerStore
	Rates      ports.RateResolver
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submitClip := commands.SubmitClipUseCase{
		UnitOfWork: deps.UnitOfWork,
		Rates:      deps.Rates,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	reconcileClip := commands.ReconcileClipUseCase{
		UnitOfWork: deps.UnitOfWork,
		Rates:      deps.Rates,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Clips:  deps.Clips,
		Ledger: deps.Ledger,
		Rates:  deps.Rates,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			SubmitClip:    submitClip,
			ReconcileClip: reconcileClip,
			Queries:       queryUseCase,
			Logger:        deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Clip, rates []ports.ProgramRate, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	rateTable := memory.NewRateTable(rates)
	module := NewModule(Dependencies{
		UnitOfWork: store,
		Clips:      store,
		Ledger:     store,
		Rates:      rateTable,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	module.Rates = rateTable
	return module
}
