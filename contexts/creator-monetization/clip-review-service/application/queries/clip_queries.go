package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "clipledger/contexts/creator-monetization/clip-review-service/application"
	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

type ListClipsQuery struct {
	CreatorID string
	ProgramID string
	Status    string
}

type QueryUseCase struct {
	Clips  ports.ClipStore
	Ledger ports.LedgerStore
	Rates  ports.RateResolver
	Logger *slog.Logger
}

func (uc QueryUseCase) GetClip(ctx context.Context, clipID string) (entities.Clip, error) {
	return uc.Clips.GetClip(ctx, strings.TrimSpace(clipID))
}

func (uc QueryUseCase) ListClips(ctx context.Context, query ListClipsQuery) ([]entities.Clip, error) {
	filter := ports.ClipFilter{
		CreatorID: strings.TrimSpace(query.CreatorID),
		ProgramID: strings.TrimSpace(query.ProgramID),
	}
	if strings.TrimSpace(query.Status) != "" {
		filter.Status = entities.ClipStatus(strings.TrimSpace(query.Status))
	}
	return uc.Clips.ListClips(ctx, filter)
}

func (uc QueryUseCase) GetLedger(ctx context.Context, creatorID string) (entities.CreatorLedger, error) {
	return uc.Ledger.GetLedger(ctx, strings.TrimSpace(creatorID))
}

type DashboardSummary struct {
	Total                int
	Pending              int
	Approved             int
	Rejected             int
	CreditedViewsTotal   int64
	CreditedRevenueTotal float64
}

func (uc QueryUseCase) CreatorDashboard(ctx context.Context, creatorID string) (DashboardSummary, error) {
	items, err := uc.Clips.ListClips(ctx, ports.ClipFilter{
		CreatorID: strings.TrimSpace(creatorID),
	})
	if err != nil {
		return DashboardSummary{}, err
	}
	ledger, err := uc.Ledger.GetLedger(ctx, strings.TrimSpace(creatorID))
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		Total:                len(items),
		CreditedViewsTotal:   ledger.CreditedViewsTotal,
		CreditedRevenueTotal: ledger.CreditedRevenueTotal,
	}
	for _, item := range items {
		switch item.Status {
		case entities.ClipStatusPending:
			summary.Pending++
		case entities.ClipStatusApproved:
			summary.Approved++
		case entities.ClipStatusRejected:
			summary.Rejected++
		}
	}
	application.ResolveLogger(uc.Logger).Debug("creator dashboard computed",
		"event", "clip_creator_dashboard_computed",
		"module", "creator-monetization/clip-review-service",
		"layer", "application",
		"creator_id", creatorID,
		"total", summary.Total,
	)
	return summary, nil
}

type MonthlyEarningsLine struct {
	ClipID        string
	ProgramID     string
	Platform      string
	CreditedViews int64
	Revenue       float64
	PostedAt      time.Time
}

type MonthlyEarningsReport struct {
	CreatorID     string
	Month         string
	Lines         []MonthlyEarningsLine
	TotalViews    int64
	TotalRevenue  float64
	ApprovedClips int
}

// MonthlyEarnings reports the credited views and revenue of approved clips
// first posted in the given month ("YYYY-MM"). Revenue lines use the current
// program rate, matching the figures a payout run would draw.
func (uc QueryUseCase) MonthlyEarnings(ctx context.Context, creatorID string, month string) (MonthlyEarningsReport, error) {
	from, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return MonthlyEarningsReport{}, fmt.Errorf("parse month %q: %w", month, domainerrors.ErrInvalidClipInput)
	}
	to := from.AddDate(0, 1, 0)

	items, err := uc.Clips.ListPostedBetween(ctx, strings.TrimSpace(creatorID), from, to)
	if err != nil {
		return MonthlyEarningsReport{}, err
	}

	report := MonthlyEarningsReport{
		CreatorID: strings.TrimSpace(creatorID),
		Month:     strings.TrimSpace(month),
		Lines:     make([]MonthlyEarningsLine, 0, len(items)),
	}
	for _, item := range items {
		if item.Status != entities.ClipStatusApproved || item.CreditedViews == nil || item.PostedAt == nil {
			continue
		}
		program, err := uc.Rates.Rate(ctx, item.ProgramID)
		if err != nil {
			return MonthlyEarningsReport{}, err
		}
		credited := *item.CreditedViews
		revenue := entities.RevenueFor(credited, program.RatePer100KViews)
		report.Lines = append(report.Lines, MonthlyEarningsLine{
			ClipID:        item.ClipID,
			ProgramID:     item.ProgramID,
			Platform:      item.Platform,
			CreditedViews: credited,
			Revenue:       revenue,
			PostedAt:      item.PostedAt.UTC(),
		})
		report.TotalViews += credited
		report.TotalRevenue += revenue
		report.ApprovedClips++
	}
	return report, nil
}
