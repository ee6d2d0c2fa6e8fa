package queries

import (
	"context"
	"log/slog"

	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	"clipledger/contexts/creator-monetization/rate-card-service/ports"
)

type QueryUseCase struct {
	Programs ports.ProgramRepository
	Logger   *slog.Logger
}

func (uc QueryUseCase) GetProgram(ctx context.Context, programID string) (entities.Program, error) {
	return uc.Programs.GetProgram(ctx, programID)
}

func (uc QueryUseCase) ListPrograms(ctx context.Context, status string) ([]entities.Program, error) {
	return uc.Programs.ListPrograms(ctx, ports.ProgramFilter{Status: status})
}
