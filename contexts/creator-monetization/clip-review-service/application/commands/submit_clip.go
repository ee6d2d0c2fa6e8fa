package commands

import (
	"context"
	"log/slog"
	"strings"

	application "clipledger/contexts/creator-monetization/clip-review-service/application"
	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

type SubmitClipCommand struct {
	OwnerAccountID string
	CreatorID      string
	ProgramID      string
	Link           string
	ReportedViews  int64
}

type SubmitClipUseCase struct {
	UnitOfWork ports.UnitOfWork
	Rates      ports.RateResolver
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitClipUseCase) Execute(ctx context.Context, cmd SubmitClipCommand) (entities.Clip, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.ReportedViews < 0 {
		return entities.Clip{}, domainerrors.ErrInvalidViews
	}

	platform, contentID, err := CanonicalizeLink(cmd.Link)
	if err != nil {
		return entities.Clip{}, err
	}

	clipID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Clip{}, err
	}
	now := uc.Clock.Now().UTC()

	creatorID := strings.TrimSpace(cmd.CreatorID)
	if creatorID == "" {
		creatorID = strings.TrimSpace(cmd.OwnerAccountID)
	}
	clip := entities.Clip{
		ClipID:         clipID,
		OwnerAccountID: strings.TrimSpace(cmd.OwnerAccountID),
		CreatorID:      creatorID,
		ProgramID:      strings.TrimSpace(cmd.ProgramID),
		Link:           strings.TrimSpace(cmd.Link),
		Platform:       platform,
		CanonicalID:    CanonicalID(platform, contentID),
		ReportedViews:  cmd.ReportedViews,
		Status:         entities.ClipStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !clip.ValidateSubmit() {
		return entities.Clip{}, domainerrors.ErrInvalidClipInput
	}

	program, err := uc.Rates.Rate(ctx, clip.ProgramID)
	if err != nil {
		return entities.Clip{}, err
	}
	if !program.Active {
		return entities.Clip{}, domainerrors.ErrProgramNotActive
	}

	err = uc.UnitOfWork.Execute(ctx, func(tx ports.Stores) error {
		exists, err := tx.CanonicalExists(ctx, clip.ProgramID, clip.CanonicalID)
		if err != nil {
			return err
		}
		if exists {
			return domainerrors.ErrDuplicateContent
		}
		if err := tx.CreateClip(ctx, clip); err != nil {
			return err
		}

		envelope, err := newClipEnvelope(clipID, "clip.submitted", clipID, now, map[string]any{
			"clip_id":        clip.ClipID,
			"creator_id":     clip.CreatorID,
			"program_id":     clip.ProgramID,
			"platform":       clip.Platform,
			"reported_views": clip.ReportedViews,
		})
		if err != nil {
			return err
		}
		return tx.AppendOutbox(ctx, envelope)
	})
	if err != nil {
		return entities.Clip{}, err
	}

	logger.Info("clip submitted",
		"event", "clip_submitted",
		"module", "creator-monetization/clip-review-service",
		"layer", "application",
		"clip_id", clip.ClipID,
		"creator_id", clip.CreatorID,
		"program_id", clip.ProgramID,
		"platform", clip.Platform,
	)
	return clip, nil
}
