package ratecardservice

import (
	"log/slog"

	httpadapter "clipledger/contexts/creator-monetization/rate-card-service/adapters/http"
	"clipledger/contexts/creator-monetization/rate-card-service/adapters/memory"
	"clipledger/contexts/creator-monetization/rate-card-service/application/commands"
	"clipledger/contexts/creator-monetization/rate-card-service/application/queries"
	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	"clipledger/contexts/creator-monetization/rate-card-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.QueryUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Programs ports.ProgramRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	manageProgram := commands.ManageProgramUseCase{
		Programs: deps.Programs,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Programs: deps.Programs,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ManageProgram: manageProgram,
			Queries:       queryUseCase,
			Logger:        deps.Logger,
		},
		Queries: queryUseCase,
	}
}

func NewInMemoryModule(seed []entities.Program, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Programs: store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
