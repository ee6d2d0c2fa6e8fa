package ports

import (
	"context"
	"time"

	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
)

type ProgramFilter struct {
	Status string
}

type ProgramRepository interface {
	CreateProgram(ctx context.Context, program entities.Program) error
	GetProgram(ctx context.Context, programID string) (entities.Program, error)
	UpdateProgram(ctx context.Context, program entities.Program) error
	ListPrograms(ctx context.Context, filter ProgramFilter) ([]entities.Program, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
