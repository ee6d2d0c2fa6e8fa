package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "clipledger/contexts/creator-monetization/clip-review-service/application"
	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

type ApproveClipCommand struct {
	ClipID  string
	ActorID string
}

type RejectClipCommand struct {
	ClipID  string
	ActorID string
}

type EditViewsCommand struct {
	ClipID           string
	ActorID          string
	NewReportedViews int64
}

type DeleteClipCommand struct {
	ClipID  string
	ActorID string
}

// ReconcileClipUseCase drives the clip review state machine and keeps the
// creator ledger consistent with it. Every operation runs inside one unit of
// work covering the clip row, the ledger row, the audit row and the outbox
// row; partial effects never commit.
type ReconcileClipUseCase struct {
	UnitOfWork ports.UnitOfWork
	Rates      ports.RateResolver
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ReconcileClipUseCase) Approve(ctx context.Context, cmd ApproveClipCommand) (entities.Clip, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Clip{}, domainerrors.ErrUnauthorizedActor
	}
	now := uc.Clock.Now().UTC()

	var updated entities.Clip
	var viewsDelta int64
	var revenueDelta float64
	err := uc.UnitOfWork.Execute(ctx, func(tx ports.Stores) error {
		clip, err := tx.GetClipForUpdate(ctx, strings.TrimSpace(cmd.ClipID))
		if err != nil {
			return err
		}
		if !entities.CanTransition(clip.Status, entities.ClipStatusApproved) {
			return domainerrors.ErrInvalidStatusTransition
		}

		program, err := uc.Rates.Rate(ctx, clip.ProgramID)
		if err != nil {
			return err
		}

		previousCredit := clip.CreditSnapshot()
		viewsDelta = clip.ReportedViews - previousCredit
		revenueDelta = entities.RevenueFor(viewsDelta, program.RatePer100KViews)
		if _, _, err := tx.ApplyLedgerDelta(ctx, clip.CreatorID, viewsDelta, revenueDelta, now); err != nil {
			return err
		}

		oldStatus := clip.Status
		credited := clip.ReportedViews
		clip.CreditedViews = &credited
		clip.Status = entities.ClipStatusApproved
		if clip.PostedAt == nil {
			clip.PostedAt = &now
		}
		clip.UpdatedAt = now
		if err := tx.UpdateClip(ctx, clip); err != nil {
			return err
		}

		if err := uc.appendAudit(ctx, tx, clip, "approve", oldStatus, cmd.ActorID, previousCredit, viewsDelta, revenueDelta, program.RatePer100KViews, now); err != nil {
			return err
		}
		if err := uc.appendEvent(ctx, tx, "clip.approved", clip, now, map[string]any{
			"clip_id":        clip.ClipID,
			"creator_id":     clip.CreatorID,
			"credited_views": credited,
			"views_delta":    viewsDelta,
			"revenue_delta":  revenueDelta,
		}); err != nil {
			return err
		}
		updated = clip
		return nil
	})
	if err != nil {
		return entities.Clip{}, err
	}

	logger.Info("clip approved",
		"event", "clip_approved",
		"module", "creator-monetization/clip-review-service",
		"layer", "application",
		"clip_id", updated.ClipID,
		"creator_id", updated.CreatorID,
		"previous_credit", updated.ReportedViews-viewsDelta,
		"views_delta", viewsDelta,
		"revenue_delta", revenueDelta,
	)
	return updated, nil
}

func (uc ReconcileClipUseCase) Reject(ctx context.Context, cmd RejectClipCommand) (entities.Clip, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Clip{}, domainerrors.ErrUnauthorizedActor
	}
	now := uc.Clock.Now().UTC()

	var updated entities.Clip
	var viewsDelta int64
	var revenueDelta float64
	err := uc.UnitOfWork.Execute(ctx, func(tx ports.Stores) error {
		clip, err := tx.GetClipForUpdate(ctx, strings.TrimSpace(cmd.ClipID))
		if err != nil {
			return err
		}
		if !entities.CanTransition(clip.Status, entities.ClipStatusRejected) {
			return domainerrors.ErrInvalidStatusTransition
		}

		oldStatus := clip.Status
		viewsDelta = 0
		revenueDelta = 0
		var rateUsed float64
		if clip.OutstandingCredit() {
			delta, revenue, rate, err := uc.clawback(ctx, tx, clip, now)
			if err != nil {
				return err
			}
			viewsDelta, revenueDelta, rateUsed = delta, revenue, rate
		}

		// The credited snapshot is intentionally kept after a clawback; a
		// later re-approval computes its delta against this last known value.
		clip.Status = entities.ClipStatusRejected
		clip.UpdatedAt = now
		if err := tx.UpdateClip(ctx, clip); err != nil {
			return err
		}

		if err := uc.appendAudit(ctx, tx, clip, "reject", oldStatus, cmd.ActorID, clip.CreditSnapshot(), viewsDelta, revenueDelta, rateUsed, now); err != nil {
			return err
		}
		if err := uc.appendEvent(ctx, tx, "clip.rejected", clip, now, map[string]any{
			"clip_id":       clip.ClipID,
			"creator_id":    clip.CreatorID,
			"views_delta":   viewsDelta,
			"revenue_delta": revenueDelta,
		}); err != nil {
			return err
		}
		updated = clip
		return nil
	})
	if err != nil {
		return entities.Clip{}, err
	}

	logger.Info("clip rejected",
		"event", "clip_rejected",
		"module", "creator-monetization/clip-review-service",
		"layer", "application",
		"clip_id", updated.ClipID,
		"creator_id", updated.CreatorID,
		"views_delta", viewsDelta,
		"revenue_delta", revenueDelta,
	)
	return updated, nil
}

func (uc ReconcileClipUseCase) EditViews(ctx context.Context, cmd EditViewsCommand) (entities.Clip, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Clip{}, domainerrors.ErrUnauthorizedActor
	}
	if cmd.NewReportedViews < 0 {
		return entities.Clip{}, domainerrors.ErrInvalidViews
	}
	now := uc.Clock.Now().UTC()

	var updated entities.Clip
	err := uc.UnitOfWork.Execute(ctx, func(tx ports.Stores) error {
		clip, err := tx.GetClipForUpdate(ctx, strings.TrimSpace(cmd.ClipID))
		if err != nil {
			return err
		}

		oldStatus := clip.Status
		viewsBefore := clip.ReportedViews
		if clip.Status == entities.ClipStatusApproved {
			// Editing an approved clip forces a fresh review. The ledger is
			// left untouched; the credited snapshot stays outstanding so the
			// next approval or rejection reconciles against it.
			clip.Status = entities.ClipStatusPending
		}
		clip.ReportedViews = cmd.NewReportedViews
		clip.UpdatedAt = now
		if err := tx.UpdateClip(ctx, clip); err != nil {
			return err
		}

		auditID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		if err := tx.AddAudit(ctx, entities.ClipAudit{
			AuditID:     auditID,
			ClipID:      clip.ClipID,
			Action:      "edit_views",
			OldStatus:   oldStatus,
			NewStatus:   clip.Status,
			ActorID:     strings.TrimSpace(cmd.ActorID),
			ViewsBefore: viewsBefore,
			ViewsAfter:  clip.ReportedViews,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if err := uc.appendEvent(ctx, tx, "clip.views_edited", clip, now, map[string]any{
			"clip_id":        clip.ClipID,
			"creator_id":     clip.CreatorID,
			"reported_views": clip.ReportedViews,
			"status":         string(clip.Status),
		}); err != nil {
			return err
		}
		updated = clip
		return nil
	})
	if err != nil {
		return entities.Clip{}, err
	}

	logger.Info("clip views edited",
		"event", "clip_views_edited",
		"module", "creator-monetization/clip-review-service",
		"layer", "application",
		"clip_id", updated.ClipID,
		"reported_views", updated.ReportedViews,
		"status", string(updated.Status),
	)
	return updated, nil
}

func (uc ReconcileClipUseCase) Delete(ctx context.Context, cmd DeleteClipCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	now := uc.Clock.Now().UTC()

	var viewsDelta int64
	var revenueDelta float64
	var deleted entities.Clip
	err := uc.UnitOfWork.Execute(ctx, func(tx ports.Stores) error {
		clip, err := tx.GetClipForUpdate(ctx, strings.TrimSpace(cmd.ClipID))
		if err != nil {
			return err
		}

		viewsDelta = 0
		revenueDelta = 0
		var rateUsed float64
		if clip.OutstandingCredit() {
			delta, revenue, rate, err := uc.clawback(ctx, tx, clip, now)
			if err != nil {
				return err
			}
			viewsDelta, revenueDelta, rateUsed = delta, revenue, rate
		}

		if err := tx.DeleteClip(ctx, clip.ClipID); err != nil {
			return err
		}
		if err := uc.appendAudit(ctx, tx, clip, "delete", clip.Status, cmd.ActorID, clip.CreditSnapshot(), viewsDelta, revenueDelta, rateUsed, now); err != nil {
			return err
		}
		if err := uc.appendEvent(ctx, tx, "clip.deleted", clip, now, map[string]any{
			"clip_id":       clip.ClipID,
			"creator_id":    clip.CreatorID,
			"views_delta":   viewsDelta,
			"revenue_delta": revenueDelta,
		}); err != nil {
			return err
		}
		deleted = clip
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("clip deleted",
		"event", "clip_deleted",
		"module", "creator-monetization/clip-review-service",
		"layer", "application",
		"clip_id", deleted.ClipID,
		"creator_id", deleted.CreatorID,
		"views_delta", viewsDelta,
		"revenue_delta", revenueDelta,
	)
	return nil
}

// clawback reverses the outstanding credit using the rate in effect right now,
// not the rate at credit time. If the program rate changed in between, the
// clawback amount will differ from the originally credited amount.
func (uc ReconcileClipUseCase) clawback(
	ctx context.Context,
	tx ports.Stores,
	clip entities.Clip,
	now time.Time,
) (int64, float64, float64, error) {
	program, err := uc.Rates.Rate(ctx, clip.ProgramID)
	if err != nil {
		return 0, 0, 0, err
	}
	viewsDelta := -clip.CreditSnapshot()
	revenueDelta := entities.RevenueFor(viewsDelta, program.RatePer100KViews)
	if _, _, err := tx.ApplyLedgerDelta(ctx, clip.CreatorID, viewsDelta, revenueDelta, now); err != nil {
		return 0, 0, 0, err
	}
	return viewsDelta, revenueDelta, program.RatePer100KViews, nil
}

func (uc ReconcileClipUseCase) appendAudit(
	ctx context.Context,
	tx ports.Stores,
	clip entities.Clip,
	action string,
	oldStatus entities.ClipStatus,
	actorID string,
	viewsBefore int64,
	viewsDelta int64,
	revenueDelta float64,
	rateUsed float64,
	now time.Time,
) error {
	auditID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return tx.AddAudit(ctx, entities.ClipAudit{
		AuditID:      auditID,
		ClipID:       clip.ClipID,
		Action:       action,
		OldStatus:    oldStatus,
		NewStatus:    clip.Status,
		ActorID:      strings.TrimSpace(actorID),
		ViewsBefore:  viewsBefore,
		ViewsAfter:   clip.ReportedViews,
		ViewsDelta:   viewsDelta,
		RevenueDelta: revenueDelta,
		RateUsed:     rateUsed,
		CreatedAt:    now,
	})
}

func (uc ReconcileClipUseCase) appendEvent(
	ctx context.Context,
	tx ports.Stores,
	eventType string,
	clip entities.Clip,
	now time.Time,
	data map[string]any,
) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newClipEnvelope(eventID, eventType, clip.ClipID, now, data)
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, envelope)
}
