package commands

import (
	"context"
	"log/slog"
	"strings"

	application "clipledger/contexts/creator-monetization/rate-card-service/application"
	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/rate-card-service/domain/errors"
	"clipledger/contexts/creator-monetization/rate-card-service/ports"
)

type CreateProgramCommand struct {
	Name             string
	Description      string
	RatePer100KViews float64
}

type UpdateRateCommand struct {
	ProgramID           string
	NewRatePer100KViews float64
}

type ArchiveProgramCommand struct {
	ProgramID string
}

type ManageProgramUseCase struct {
	Programs ports.ProgramRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc ManageProgramUseCase) Create(ctx context.Context, cmd CreateProgramCommand) (entities.Program, error) {
	programID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Program{}, err
	}
	now := uc.Clock.Now().UTC()

	program := entities.Program{
		ProgramID:        programID,
		Name:             strings.TrimSpace(cmd.Name),
		Description:      strings.TrimSpace(cmd.Description),
		RatePer100KViews: cmd.RatePer100KViews,
		Status:           entities.ProgramActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !program.ValidateCreate() {
		return entities.Program{}, domainerrors.ErrInvalidProgramInput
	}

	if err := uc.Programs.CreateProgram(ctx, program); err != nil {
		return entities.Program{}, err
	}

	application.ResolveLogger(uc.Logger).Info("program created",
		"event", "program_created",
		"module", "creator-monetization/rate-card-service",
		"layer", "application",
		"program_id", program.ProgramID,
		"rate_per_100k_views", program.RatePer100KViews,
	)
	return program, nil
}

// UpdateRate changes how future credits convert to money. Already credited
// revenue is never restated; clips re-approved later pick up the new rate.
func (uc ManageProgramUseCase) UpdateRate(ctx context.Context, cmd UpdateRateCommand) (entities.Program, error) {
	if cmd.NewRatePer100KViews <= 0 {
		return entities.Program{}, domainerrors.ErrInvalidProgramInput
	}

	program, err := uc.Programs.GetProgram(ctx, cmd.ProgramID)
	if err != nil {
		return entities.Program{}, err
	}

	oldRate := program.RatePer100KViews
	program.RatePer100KViews = cmd.NewRatePer100KViews
	program.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Programs.UpdateProgram(ctx, program); err != nil {
		return entities.Program{}, err
	}

	application.ResolveLogger(uc.Logger).Info("program rate updated",
		"event", "program_rate_updated",
		"module", "creator-monetization/rate-card-service",
		"layer", "application",
		"program_id", program.ProgramID,
		"old_rate", oldRate,
		"new_rate", program.RatePer100KViews,
	)
	return program, nil
}

// Archive stops new submissions under the program. Existing clips keep
// resolving the rate so clawbacks and re-approvals still work.
func (uc ManageProgramUseCase) Archive(ctx context.Context, cmd ArchiveProgramCommand) (entities.Program, error) {
	program, err := uc.Programs.GetProgram(ctx, cmd.ProgramID)
	if err != nil {
		return entities.Program{}, err
	}
	if program.Status == entities.ProgramArchived {
		return program, nil
	}

	program.Status = entities.ProgramArchived
	program.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Programs.UpdateProgram(ctx, program); err != nil {
		return entities.Program{}, err
	}

	application.ResolveLogger(uc.Logger).Info("program archived",
		"event", "program_archived",
		"module", "creator-monetization/rate-card-service",
		"layer", "application",
		"program_id", program.ProgramID,
	)
	return program, nil
}
