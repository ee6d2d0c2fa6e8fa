package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"clipledger/contexts/creator-monetization/clip-review-service/application/commands"
	"clipledger/contexts/creator-monetization/clip-review-service/application/queries"
	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	httptransport "clipledger/contexts/creator-monetization/clip-review-service/transport/http"
)

type Handler struct {
	SubmitClip    commands.SubmitClipUseCase
	ReconcileClip commands.ReconcileClipUseCase
	Queries       queries.QueryUseCase
	Logger        *slog.Logger
}

func (h Handler) SubmitClipHandler(
	ctx context.Context,
	ownerAccountID string,
	creatorID string,
	req httptransport.SubmitClipRequest,
) (httptransport.SubmitClipResponse, error) {
	item, err := h.SubmitClip.Execute(ctx, commands.SubmitClipCommand{
		OwnerAccountID: ownerAccountID,
		CreatorID:      creatorID,
		ProgramID:      req.ProgramID,
		Link:           req.Link,
		ReportedViews:  req.ReportedViews,
	})
	if err != nil {
		return httptransport.SubmitClipResponse{}, err
	}
	return httptransport.SubmitClipResponse{Clip: mapClip(item)}, nil
}

func (h Handler) GetClipHandler(ctx context.Context, clipID string) (httptransport.GetClipResponse, error) {
	item, err := h.Queries.GetClip(ctx, clipID)
	if err != nil {
		return httptransport.GetClipResponse{}, err
	}
	return httptransport.GetClipResponse{Clip: mapClip(item)}, nil
}

func (h Handler) ListClipsHandler(
	ctx context.Context,
	creatorID string,
	programID string,
	status string,
) (httptransport.ListClipsResponse, error) {
	items, err := h.Queries.ListClips(ctx, queries.ListClipsQuery{
		CreatorID: creatorID,
		ProgramID: programID,
		Status:    status,
	})
	if err != nil {
		return httptransport.ListClipsResponse{}, err
	}
	result := make([]httptransport.ClipDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapClip(item))
	}
	return httptransport.ListClipsResponse{Items: result}, nil
}

func (h Handler) ApproveClipHandler(
	ctx context.Context,
	actorID string,
	clipID string,
) (httptransport.ReviewClipResponse, error) {
	item, err := h.ReconcileClip.Approve(ctx, commands.ApproveClipCommand{
		ClipID:  clipID,
		ActorID: actorID,
	})
	if err != nil {
		return httptransport.ReviewClipResponse{}, err
	}
	return httptransport.ReviewClipResponse{Clip: mapClip(item)}, nil
}

func (h Handler) RejectClipHandler(
	ctx context.Context,
	actorID string,
	clipID string,
) (httptransport.ReviewClipResponse, error) {
	item, err := h.ReconcileClip.Reject(ctx, commands.RejectClipCommand{
		ClipID:  clipID,
		ActorID: actorID,
	})
	if err != nil {
		return httptransport.ReviewClipResponse{}, err
	}
	return httptransport.ReviewClipResponse{Clip: mapClip(item)}, nil
}

func (h Handler) EditViewsHandler(
	ctx context.Context,
	actorID string,
	clipID string,
	req httptransport.EditViewsRequest,
) (httptransport.ReviewClipResponse, error) {
	item, err := h.ReconcileClip.EditViews(ctx, commands.EditViewsCommand{
		ClipID:           clipID,
		ActorID:          actorID,
		NewReportedViews: req.ReportedViews,
	})
	if err != nil {
		return httptransport.ReviewClipResponse{}, err
	}
	return httptransport.ReviewClipResponse{Clip: mapClip(item)}, nil
}

func (h Handler) DeleteClipHandler(ctx context.Context, actorID string, clipID string) error {
	return h.ReconcileClip.Delete(ctx, commands.DeleteClipCommand{
		ClipID:  clipID,
		ActorID: actorID,
	})
}

func (h Handler) GetLedgerHandler(ctx context.Context, creatorID string) (httptransport.LedgerResponse, error) {
	ledger, err := h.Queries.GetLedger(ctx, creatorID)
	if err != nil {
		return httptransport.LedgerResponse{}, err
	}
	return httptransport.LedgerResponse{
		CreatorID:            ledger.CreatorID,
		CreditedViewsTotal:   ledger.CreditedViewsTotal,
		CreditedRevenueTotal: ledger.CreditedRevenueTotal,
	}, nil
}

func (h Handler) CreatorDashboardHandler(ctx context.Context, creatorID string) (httptransport.DashboardResponse, error) {
	summary, err := h.Queries.CreatorDashboard(ctx, creatorID)
	if err != nil {
		return httptransport.DashboardResponse{}, err
	}
	return httptransport.DashboardResponse{
		Total:                summary.Total,
		Pending:              summary.Pending,
		Approved:             summary.Approved,
		Rejected:             summary.Rejected,
		CreditedViewsTotal:   summary.CreditedViewsTotal,
		CreditedRevenueTotal: summary.CreditedRevenueTotal,
	}, nil
}

func (h Handler) MonthlyEarningsHandler(
	ctx context.Context,
	creatorID string,
	month string,
) (httptransport.MonthlyEarningsResponse, error) {
	report, err := h.Queries.MonthlyEarnings(ctx, creatorID, month)
	if err != nil {
		return httptransport.MonthlyEarningsResponse{}, err
	}
	lines := make([]httptransport.MonthlyEarningsLineDTO, 0, len(report.Lines))
	for _, line := range report.Lines {
		lines = append(lines, httptransport.MonthlyEarningsLineDTO{
			ClipID:        line.ClipID,
			ProgramID:     line.ProgramID,
			Platform:      line.Platform,
			CreditedViews: line.CreditedViews,
			Revenue:       line.Revenue,
			PostedAt:      line.PostedAt.Format(time.RFC3339),
		})
	}
	return httptransport.MonthlyEarningsResponse{
		CreatorID:     report.CreatorID,
		Month:         report.Month,
		Lines:         lines,
		TotalViews:    report.TotalViews,
		TotalRevenue:  report.TotalRevenue,
		ApprovedClips: report.ApprovedClips,
	}, nil
}

func mapClip(item entities.Clip) httptransport.ClipDTO {
	dto := httptransport.ClipDTO{
		ClipID:         item.ClipID,
		OwnerAccountID: item.OwnerAccountID,
		CreatorID:      item.CreatorID,
		ProgramID:      item.ProgramID,
		Link:           item.Link,
		Platform:       item.Platform,
		ReportedViews:  item.ReportedViews,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.Format(time.RFC3339),
	}
	if item.CreditedViews != nil {
		credited := *item.CreditedViews
		dto.CreditedViews = &credited
	}
	if item.PostedAt != nil {
		dto.PostedAt = item.PostedAt.Format(time.RFC3339)
	}
	return dto
}
