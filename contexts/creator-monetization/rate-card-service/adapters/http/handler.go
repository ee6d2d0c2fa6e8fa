package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"clipledger/contexts/creator-monetization/rate-card-service/application/commands"
	"clipledger/contexts/creator-monetization/rate-card-service/application/queries"
	"clipledger/contexts/creator-monetization/rate-card-service/domain/entities"
	httptransport "clipledger/contexts/creator-monetization/rate-card-service/transport/http"
)

type Handler struct {
	ManageProgram commands.ManageProgramUseCase
	Queries       queries.QueryUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateProgramHandler(ctx context.Context, req httptransport.CreateProgramRequest) (httptransport.ProgramResponse, error) {
	program, err := h.ManageProgram.Create(ctx, commands.CreateProgramCommand{
		Name:             req.Name,
		Description:      req.Description,
		RatePer100KViews: req.RatePer100KViews,
	})
	if err != nil {
		return httptransport.ProgramResponse{}, err
	}
	return httptransport.ProgramResponse{Program: mapProgram(program)}, nil
}

func (h Handler) UpdateRateHandler(
	ctx context.Context,
	programID string,
	req httptransport.UpdateRateRequest,
) (httptransport.ProgramResponse, error) {
	program, err := h.ManageProgram.UpdateRate(ctx, commands.UpdateRateCommand{
		ProgramID:           programID,
		NewRatePer100KViews: req.RatePer100KViews,
	})
	if err != nil {
		return httptransport.ProgramResponse{}, err
	}
	return httptransport.ProgramResponse{Program: mapProgram(program)}, nil
}

func (h Handler) ArchiveProgramHandler(ctx context.Context, programID string) (httptransport.ProgramResponse, error) {
	program, err := h.ManageProgram.Archive(ctx, commands.ArchiveProgramCommand{ProgramID: programID})
	if err != nil {
		return httptransport.ProgramResponse{}, err
	}
	return httptransport.ProgramResponse{Program: mapProgram(program)}, nil
}

func (h Handler) GetProgramHandler(ctx context.Context, programID string) (httptransport.ProgramResponse, error) {
	program, err := h.Queries.GetProgram(ctx, programID)
	if err != nil {
		return httptransport.ProgramResponse{}, err
	}
	return httptransport.ProgramResponse{Program: mapProgram(program)}, nil
}

func (h Handler) ListProgramsHandler(ctx context.Context, status string) (httptransport.ListProgramsResponse, error) {
	items, err := h.Queries.ListPrograms(ctx, status)
	if err != nil {
		return httptransport.ListProgramsResponse{}, err
	}
	result := make([]httptransport.ProgramDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapProgram(item))
	}
	return httptransport.ListProgramsResponse{Items: result}, nil
}

func mapProgram(program entities.Program) httptransport.ProgramDTO {
	return httptransport.ProgramDTO{
		ProgramID:        program.ProgramID,
		Name:             program.Name,
		Description:      program.Description,
		RatePer100KViews: program.RatePer100KViews,
		Status:           string(program.Status),
		CreatedAt:        program.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        program.UpdatedAt.Format(time.RFC3339),
	}
}
