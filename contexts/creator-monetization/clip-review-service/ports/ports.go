package ports

import (
	"context"
	"time"

	contractsv1 "clipledger/contracts/gen/events/v1"
	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
)

type ClipFilter struct {
	CreatorID string
	ProgramID string
	Status    entities.ClipStatus
}

// Stores is the set of writes a reconciliation operation may perform.
// A UnitOfWork binds them to one atomic transaction: either the clip write,
// the ledger delta, the audit row and the outbox row all commit, or none do.
type Stores interface {
	ClipStore
	LedgerStore
	AuditStore
	OutboxWriter
}

type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Stores) error) error
}

type ClipStore interface {
	CreateClip(ctx context.Context, clip entities.Clip) error
	GetClip(ctx context.Context, clipID string) (entities.Clip, error)
	// GetClipForUpdate locks the row for the duration of the transaction so
	// operations on the same clip serialize.
	GetClipForUpdate(ctx context.Context, clipID string) (entities.Clip, error)
	UpdateClip(ctx context.Context, clip entities.Clip) error
	DeleteClip(ctx context.Context, clipID string) error
	ListClips(ctx context.Context, filter ClipFilter) ([]entities.Clip, error)
	CanonicalExists(ctx context.Context, programID string, canonicalID string) (bool, error)
	ListPostedBetween(ctx context.Context, creatorID string, from time.Time, to time.Time) ([]entities.Clip, error)
}

type LedgerStore interface {
	// GetLedger returns a zero-valued row when the creator has no ledger yet.
	GetLedger(ctx context.Context, creatorID string) (entities.CreatorLedger, error)
	// ApplyLedgerDelta creates the row lazily, applies both deltas and clamps
	// the resulting totals at zero. The returned bool reports whether clamping
	// occurred on either total.
	ApplyLedgerDelta(ctx context.Context, creatorID string, viewsDelta int64, revenueDelta float64, now time.Time) (entities.CreatorLedger, bool, error)
}

type AuditStore interface {
	AddAudit(ctx context.Context, audit entities.ClipAudit) error
}

// ProgramRate is the rate-card view the engine needs: the current
// dollars-per-100k-views figure and whether new submissions are accepted.
type ProgramRate struct {
	ProgramID        string
	RatePer100KViews float64
	Active           bool
}

type RateResolver interface {
	Rate(ctx context.Context, programID string) (ProgramRate, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
