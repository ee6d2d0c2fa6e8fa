package postgresadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewRepository(db, nil)
}

func testClip(clipID string, canonicalID string) entities.Clip {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	return entities.Clip{
		ClipID:         clipID,
		OwnerAccountID: "account-1",
		CreatorID:      "creator-1",
		ProgramID:      "program-1",
		Link:           "https://www.tiktok.com/@creator/video/" + canonicalID,
		Platform:       "tiktok",
		CanonicalID:    "tiktok:" + canonicalID,
		ReportedViews:  1000,
		Status:         entities.ClipStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestRepositoryClipRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateClip(ctx, testClip("clip-1", "111")); err != nil {
		t.Fatalf("create clip failed: %v", err)
	}

	fetched, err := repo.GetClip(ctx, "clip-1")
	if err != nil {
		t.Fatalf("get clip failed: %v", err)
	}
	if fetched.CanonicalID != "tiktok:111" || fetched.Status != entities.ClipStatusPending {
		t.Fatalf("unexpected clip: %+v", fetched)
	}
	if fetched.CreditedViews != nil {
		t.Fatalf("expected nil credited views, got %d", *fetched.CreditedViews)
	}

	credited := int64(1000)
	posted := time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC)
	fetched.CreditedViews = &credited
	fetched.Status = entities.ClipStatusApproved
	fetched.PostedAt = &posted
	if err := repo.UpdateClip(ctx, fetched); err != nil {
		t.Fatalf("update clip failed: %v", err)
	}

	updated, err := repo.GetClip(ctx, "clip-1")
	if err != nil {
		t.Fatalf("get updated clip failed: %v", err)
	}
	if updated.Status != entities.ClipStatusApproved {
		t.Fatalf("expected approved status, got %s", updated.Status)
	}
	if updated.CreditedViews == nil || *updated.CreditedViews != 1000 {
		t.Fatalf("expected credited views 1000, got %v", updated.CreditedViews)
	}
	if updated.PostedAt == nil || !updated.PostedAt.Equal(posted) {
		t.Fatalf("expected posted_at %v, got %v", posted, updated.PostedAt)
	}

	if err := repo.DeleteClip(ctx, "clip-1"); err != nil {
		t.Fatalf("delete clip failed: %v", err)
	}
	if _, err := repo.GetClip(ctx, "clip-1"); !errors.Is(err, domainerrors.ErrClipNotFound) {
		t.Fatalf("expected clip not found, got %v", err)
	}
	if err := repo.DeleteClip(ctx, "clip-1"); !errors.Is(err, domainerrors.ErrClipNotFound) {
		t.Fatalf("expected clip not found on second delete, got %v", err)
	}
}

func TestRepositoryCanonicalExists(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateClip(ctx, testClip("clip-1", "222")); err != nil {
		t.Fatalf("create clip failed: %v", err)
	}

	exists, err := repo.CanonicalExists(ctx, "program-1", "tiktok:222")
	if err != nil {
		t.Fatalf("canonical exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected canonical id to exist")
	}

	exists, err = repo.CanonicalExists(ctx, "program-2", "tiktok:222")
	if err != nil {
		t.Fatalf("canonical exists failed: %v", err)
	}
	if exists {
		t.Fatalf("dedup must be scoped per program")
	}
}

func TestRepositoryListClipsFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := testClip("clip-1", "301")
	second := testClip("clip-2", "302")
	second.CreatorID = "creator-2"
	third := testClip("clip-3", "303")
	third.Status = entities.ClipStatusApproved
	for _, clip := range []entities.Clip{first, second, third} {
		if err := repo.CreateClip(ctx, clip); err != nil {
			t.Fatalf("create clip failed: %v", err)
		}
	}

	items, err := repo.ListClips(ctx, ports.ClipFilter{CreatorID: "creator-1"})
	if err != nil {
		t.Fatalf("list clips failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 clips for creator-1, got %d", len(items))
	}

	items, err = repo.ListClips(ctx, ports.ClipFilter{Status: entities.ClipStatusApproved})
	if err != nil {
		t.Fatalf("list clips failed: %v", err)
	}
	if len(items) != 1 || items[0].ClipID != "clip-3" {
		t.Fatalf("unexpected approved clips: %+v", items)
	}
}

func TestRepositoryLedgerDefaultsToZeroRow(t *testing.T) {
	repo := newTestRepository(t)

	ledger, err := repo.GetLedger(context.Background(), "creator-unknown")
	if err != nil {
		t.Fatalf("get ledger failed: %v", err)
	}
	if ledger.CreditedViewsTotal != 0 || ledger.CreditedRevenueTotal != 0 {
		t.Fatalf("expected zero-valued ledger, got %+v", ledger)
	}
}

func TestRepositoryOutboxLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	envelope := ports.EventEnvelope{
		EventID:       "event-1",
		EventType:     "clip.approved",
		OccurredAt:    time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC),
		SourceService: "clip-review-service",
		SchemaVersion: 1,
		PartitionKey:  "clip-1",
	}
	if err := repo.AppendOutbox(ctx, envelope); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
	// Same event id again is a no-op.
	if err := repo.AppendOutbox(ctx, envelope); err != nil {
		t.Fatalf("idempotent append failed: %v", err)
	}

	pending, err := repo.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "clip.approved" {
		t.Fatalf("unexpected pending rows: %+v", pending)
	}

	if err := repo.MarkOutboxPublished(ctx, "event-1", time.Now().UTC()); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = repo.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %d", len(pending))
	}
}
