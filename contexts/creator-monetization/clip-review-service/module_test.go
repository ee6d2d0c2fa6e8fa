package clipreviewservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	clipreviewservice "clipledger/contexts/creator-monetization/clip-review-service"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
	httptransport "clipledger/contexts/creator-monetization/clip-review-service/transport/http"
)

const testProgram = "program-1"

func newTestModule() clipreviewservice.Module {
	return clipreviewservice.NewInMemoryModule(nil, []ports.ProgramRate{{
		ProgramID:        testProgram,
		RatePer100KViews: 5.0,
		Active:           true,
	}}, nil)
}

func submitClip(t *testing.T, module clipreviewservice.Module, link string, views int64) httptransport.ClipDTO {
	t.Helper()
	resp, err := module.Handler.SubmitClipHandler(context.Background(), "account-1", "creator-1", httptransport.SubmitClipRequest{
		ProgramID:     testProgram,
		Link:          link,
		ReportedViews: views,
	})
	if err != nil {
		t.Fatalf("submit clip failed: %v", err)
	}
	return resp.Clip
}

func ledgerOf(t *testing.T, module clipreviewservice.Module, creatorID string) httptransport.LedgerResponse {
	t.Helper()
	resp, err := module.Handler.GetLedgerHandler(context.Background(), creatorID)
	if err != nil {
		t.Fatalf("get ledger failed: %v", err)
	}
	return resp
}

func TestSubmitStartsPendingAndUncredited(t *testing.T) {
	module := newTestModule()

	clip := submitClip(t, module, "https://www.instagram.com/reel/Cxyz123/?utm_source=share", 50_000)
	if clip.Status != "pending" {
		t.Fatalf("expected pending status, got %s", clip.Status)
	}
	if clip.Platform != "instagram" {
		t.Fatalf("expected instagram platform, got %s", clip.Platform)
	}
	if clip.CreditedViews != nil {
		t.Fatalf("expected no credited views on submit, got %d", *clip.CreditedViews)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("expected empty ledger, got %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
}

func TestSubmitDuplicateCanonicalLinkBlocked(t *testing.T) {
	module := newTestModule()

	submitClip(t, module, "https://www.youtube.com/watch?v=abc123", 10_000)
	_, err := module.Handler.SubmitClipHandler(context.Background(), "account-2", "creator-2", httptransport.SubmitClipRequest{
		ProgramID:     testProgram,
		Link:          "https://youtu.be/abc123?utm_campaign=x",
		ReportedViews: 9_000,
	})
	if !errors.Is(err, domainerrors.ErrDuplicateContent) {
		t.Fatalf("expected duplicate content error, got %v", err)
	}
}

func TestSubmitUnsupportedLinkRejected(t *testing.T) {
	module := newTestModule()

	_, err := module.Handler.SubmitClipHandler(context.Background(), "account-1", "", httptransport.SubmitClipRequest{
		ProgramID:     testProgram,
		Link:          "https://example.com/video/1",
		ReportedViews: 100,
	})
	if !errors.Is(err, domainerrors.ErrUnsupportedLink) {
		t.Fatalf("expected unsupported link error, got %v", err)
	}
}

func TestSubmitArchivedProgramRejected(t *testing.T) {
	module := newTestModule()
	module.Rates.SetRate(ports.ProgramRate{
		ProgramID:        testProgram,
		RatePer100KViews: 5.0,
		Active:           false,
	})

	_, err := module.Handler.SubmitClipHandler(context.Background(), "account-1", "", httptransport.SubmitClipRequest{
		ProgramID:     testProgram,
		Link:          "https://www.tiktok.com/@creator/video/777",
		ReportedViews: 100,
	})
	if !errors.Is(err, domainerrors.ErrProgramNotActive) {
		t.Fatalf("expected program not active error, got %v", err)
	}
}

func TestApproveCreditsReportedViewsAtProgramRate(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/111", 200_000)

	approved, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Clip.Status != "approved" {
		t.Fatalf("expected approved status, got %s", approved.Clip.Status)
	}
	if approved.Clip.CreditedViews == nil || *approved.Clip.CreditedViews != 200_000 {
		t.Fatalf("expected 200000 credited views, got %v", approved.Clip.CreditedViews)
	}
	if approved.Clip.PostedAt == "" {
		t.Fatalf("expected posted_at to be set on first approval")
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 200_000 {
		t.Fatalf("expected 200000 ledger views, got %d", ledger.CreditedViewsTotal)
	}
	if ledger.CreditedRevenueTotal != 10.0 {
		t.Fatalf("expected 10.0 ledger revenue, got %.4f", ledger.CreditedRevenueTotal)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/222", 200_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("second approve failed: %v", err)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 200_000 || ledger.CreditedRevenueTotal != 10.0 {
		t.Fatalf("double approve changed ledger: %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
}

func TestRejectClawsBackOutstandingCredit(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/333", 200_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	rejected, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-1", clip.ClipID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Clip.Status != "rejected" {
		t.Fatalf("expected rejected status, got %s", rejected.Clip.Status)
	}
	if rejected.Clip.CreditedViews == nil || *rejected.Clip.CreditedViews != 200_000 {
		t.Fatalf("expected credited snapshot to survive rejection, got %v", rejected.Clip.CreditedViews)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("expected zeroed ledger after clawback, got %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
}

func TestRejectPendingLeavesLedgerUntouched(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/444", 50_000)

	if _, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("rejecting a pending clip touched the ledger: %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
}

// A rejected clip keeps its last credited figure. Re-approving with unchanged
// reported views therefore credits nothing: the delta against the snapshot is
// zero even though the clawback already removed the money.
func TestReapproveAfterRejectCreditsDeltaAgainstSnapshot(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/555", 200_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("expected zero ledger after reject/re-approve with unchanged views, got %d views %.4f revenue",
			ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
}

func TestEditViewsOnApprovedForcesReReview(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/666", 100_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	edited, err := module.Handler.EditViewsHandler(context.Background(), "reviewer-1", clip.ClipID, httptransport.EditViewsRequest{
		ReportedViews: 150_000,
	})
	if err != nil {
		t.Fatalf("edit views failed: %v", err)
	}
	if edited.Clip.Status != "pending" {
		t.Fatalf("expected pending after editing approved clip, got %s", edited.Clip.Status)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 100_000 || ledger.CreditedRevenueTotal != 5.0 {
		t.Fatalf("edit touched the ledger: %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}
	ledger = ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 150_000 {
		t.Fatalf("expected exactly 150000 credited views after re-approval, got %d", ledger.CreditedViewsTotal)
	}
	if ledger.CreditedRevenueTotal != 7.5 {
		t.Fatalf("expected 7.5 revenue after re-approval, got %.4f", ledger.CreditedRevenueTotal)
	}
}

func TestEditViewsRejectsNegative(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/667", 100)

	_, err := module.Handler.EditViewsHandler(context.Background(), "reviewer-1", clip.ClipID, httptransport.EditViewsRequest{
		ReportedViews: -1,
	})
	if !errors.Is(err, domainerrors.ErrInvalidViews) {
		t.Fatalf("expected invalid views error, got %v", err)
	}
}

func TestDeleteApprovedClawsBackAndRemoves(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/888", 200_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := module.Handler.DeleteClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("expected zeroed ledger after delete, got %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
	if _, err := module.Handler.GetClipHandler(context.Background(), clip.ClipID); !errors.Is(err, domainerrors.ErrClipNotFound) {
		t.Fatalf("expected clip not found after delete, got %v", err)
	}
}

// Editing an approved clip drops it back to pending while its credit stays in
// the ledger. Deleting the clip at that point must still claw the credit back.
func TestDeleteAfterEditViewsClawsBackCredit(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/890", 100_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.EditViewsHandler(context.Background(), "reviewer-1", clip.ClipID, httptransport.EditViewsRequest{
		ReportedViews: 150_000,
	}); err != nil {
		t.Fatalf("edit views failed: %v", err)
	}
	if err := module.Handler.DeleteClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("deleting an edited clip stranded credit: %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
	if _, err := module.Handler.GetClipHandler(context.Background(), clip.ClipID); !errors.Is(err, domainerrors.ErrClipNotFound) {
		t.Fatalf("expected clip not found after delete, got %v", err)
	}
}

func TestRejectAfterEditViewsClawsBackCredit(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/891", 100_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.EditViewsHandler(context.Background(), "reviewer-1", clip.ClipID, httptransport.EditViewsRequest{
		ReportedViews: 150_000,
	}); err != nil {
		t.Fatalf("edit views failed: %v", err)
	}
	rejected, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-1", clip.ClipID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Clip.Status != "rejected" {
		t.Fatalf("expected rejected status, got %s", rejected.Clip.Status)
	}
	if rejected.Clip.CreditedViews == nil || *rejected.Clip.CreditedViews != 100_000 {
		t.Fatalf("expected credited snapshot to survive rejection, got %v", rejected.Clip.CreditedViews)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("rejecting an edited clip stranded credit: %d views %.4f revenue", ledger.CreditedViewsTotal, ledger.CreditedRevenueTotal)
	}
}

// Clawbacks price the outstanding views at the current rate, not the rate in
// effect when they were credited. A rate raise between approval and rejection
// over-reverses, and the ledger floor absorbs the difference.
func TestClawbackUsesCurrentRateAndFloorsAtZero(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/999", 200_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	module.Rates.SetRate(ports.ProgramRate{
		ProgramID:        testProgram,
		RatePer100KViews: 10.0,
		Active:           true,
	})
	if _, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	ledger := ledgerOf(t, module, "creator-1")
	if ledger.CreditedViewsTotal != 0 {
		t.Fatalf("expected zero ledger views, got %d", ledger.CreditedViewsTotal)
	}
	if ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("expected revenue floored at zero, got %.4f", ledger.CreditedRevenueTotal)
	}
}

func TestReviewRequiresActor(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/1010", 100)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "", clip.ClipID); !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected unauthorized actor error on approve, got %v", err)
	}
	if _, err := module.Handler.RejectClipHandler(context.Background(), "  ", clip.ClipID); !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected unauthorized actor error on reject, got %v", err)
	}
}

func TestAuditTrailRecordsEveryOperation(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/1111", 200_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-2", clip.ClipID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	audits := module.Store.Audits()
	if len(audits) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(audits))
	}
	if audits[0].Action != "approve" || audits[0].ViewsDelta != 200_000 || audits[0].RevenueDelta != 10.0 {
		t.Fatalf("unexpected approve audit: %+v", audits[0])
	}
	if audits[1].Action != "reject" || audits[1].ViewsDelta != -200_000 || audits[1].RevenueDelta != -10.0 {
		t.Fatalf("unexpected reject audit: %+v", audits[1])
	}
	if audits[1].ActorID != "reviewer-2" {
		t.Fatalf("expected reject actor reviewer-2, got %s", audits[1].ActorID)
	}
}

func TestCreatorDashboardCounts(t *testing.T) {
	module := newTestModule()
	first := submitClip(t, module, "https://www.tiktok.com/@creator/video/2001", 100_000)
	submitClip(t, module, "https://www.tiktok.com/@creator/video/2002", 50_000)
	third := submitClip(t, module, "https://www.tiktok.com/@creator/video/2003", 10_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", first.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.RejectClipHandler(context.Background(), "reviewer-1", third.ClipID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	dashboard, err := module.Handler.CreatorDashboardHandler(context.Background(), "creator-1")
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dashboard.Total != 3 || dashboard.Pending != 1 || dashboard.Approved != 1 || dashboard.Rejected != 1 {
		t.Fatalf("unexpected dashboard counts: %+v", dashboard)
	}
	if dashboard.CreditedViewsTotal != 100_000 || dashboard.CreditedRevenueTotal != 5.0 {
		t.Fatalf("unexpected dashboard totals: %+v", dashboard)
	}
}

func TestMonthlyEarningsReportsCreditedClips(t *testing.T) {
	module := newTestModule()
	clip := submitClip(t, module, "https://www.tiktok.com/@creator/video/3001", 200_000)
	submitClip(t, module, "https://www.tiktok.com/@creator/video/3002", 40_000)

	if _, err := module.Handler.ApproveClipHandler(context.Background(), "reviewer-1", clip.ClipID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	month := time.Now().UTC().Format("2006-01")
	report, err := module.Handler.MonthlyEarningsHandler(context.Background(), "creator-1", month)
	if err != nil {
		t.Fatalf("monthly earnings failed: %v", err)
	}
	if report.Month != month {
		t.Fatalf("expected month %s, got %s", month, report.Month)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("expected 1 report line, got %d", len(report.Lines))
	}
	if report.Lines[0].ClipID != clip.ClipID || report.Lines[0].CreditedViews != 200_000 || report.Lines[0].Revenue != 10.0 {
		t.Fatalf("unexpected report line: %+v", report.Lines[0])
	}
	if report.TotalViews != 200_000 || report.TotalRevenue != 10.0 || report.ApprovedClips != 1 {
		t.Fatalf("unexpected report totals: %+v", report)
	}
}
