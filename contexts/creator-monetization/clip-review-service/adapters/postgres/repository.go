package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
	"clipledger/internal/platform/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Execute runs fn inside one database transaction. The clip write, the ledger
// delta, the audit row and the outbox row commit together or not at all.
func (r *Repository) Execute(ctx context.Context, fn func(tx ports.Stores) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
	if isSerializationFailure(err) {
		return domainerrors.ErrConcurrentUpdate
	}
	return err
}

func (r *Repository) CreateClip(ctx context.Context, clip entities.Clip) error {
	row := clipModelFromEntity(clip)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateContent
		}
		return err
	}
	return nil
}

func (r *Repository) GetClip(ctx context.Context, clipID string) (entities.Clip, error) {
	return r.getClip(ctx, clipID, false)
}

func (r *Repository) GetClipForUpdate(ctx context.Context, clipID string) (entities.Clip, error) {
	return r.getClip(ctx, clipID, true)
}

func (r *Repository) getClip(ctx context.Context, clipID string, forUpdate bool) (entities.Clip, error) {
	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row clipModel
	err := tx.Where("clip_id = ?", strings.TrimSpace(clipID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Clip{}, domainerrors.ErrClipNotFound
		}
		return entities.Clip{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateClip(ctx context.Context, clip entities.Clip) error {
	result := r.db.WithContext(ctx).
		Model(&clipModel{}).
		Where("clip_id = ?", strings.TrimSpace(clip.ClipID)).
		Updates(clipUpdatesFromEntity(clip))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrClipNotFound
	}
	return nil
}

func (r *Repository) DeleteClip(ctx context.Context, clipID string) error {
	result := r.db.WithContext(ctx).
		Where("clip_id = ?", strings.TrimSpace(clipID)).
		Delete(&clipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrClipNotFound
	}
	return nil
}

func (r *Repository) ListClips(ctx context.Context, filter ports.ClipFilter) ([]entities.Clip, error) {
	tx := r.db.WithContext(ctx).Model(&clipModel{})
	if strings.TrimSpace(filter.CreatorID) != "" {
		tx = tx.Where("creator_id = ?", strings.TrimSpace(filter.CreatorID))
	}
	if strings.TrimSpace(filter.ProgramID) != "" {
		tx = tx.Where("program_id = ?", strings.TrimSpace(filter.ProgramID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []clipModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Clip, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CanonicalExists(ctx context.Context, programID string, canonicalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&clipModel{}).
		Where("program_id = ?", strings.TrimSpace(programID)).
		Where("canonical_id = ?", strings.TrimSpace(canonicalID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListPostedBetween(
	ctx context.Context,
	creatorID string,
	from time.Time,
	to time.Time,
) ([]entities.Clip, error) {
	var rows []clipModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		Where("posted_at IS NOT NULL").
		Where("posted_at >= ?", from.UTC()).
		Where("posted_at < ?", to.UTC()).
		Order("posted_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Clip, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetLedger(ctx context.Context, creatorID string) (entities.CreatorLedger, error) {
	var row creatorLedgerModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CreatorLedger{CreatorID: strings.TrimSpace(creatorID)}, nil
		}
		return entities.CreatorLedger{}, err
	}
	return row.toEntity(), nil
}

// ApplyLedgerDelta creates the single per-creator row lazily, locks it for the
// transaction, applies both deltas and clamps the totals at zero.
func (r *Repository) ApplyLedgerDelta(
	ctx context.Context,
	creatorID string,
	viewsDelta int64,
	revenueDelta float64,
	now time.Time,
) (entities.CreatorLedger, bool, error) {
	creatorID = strings.TrimSpace(creatorID)

	seed := creatorLedgerModel{
		CreatorID: creatorID,
		UpdatedAt: now.UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "creator_id"}},
			DoNothing: true,
		}).
		Create(&seed).
		Error; err != nil {
		return entities.CreatorLedger{}, false, err
	}

	var row creatorLedgerModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("creator_id = ?", creatorID).
		First(&row).
		Error; err != nil {
		return entities.CreatorLedger{}, false, err
	}

	clamped := false
	row.CreditedViewsTotal += viewsDelta
	if row.CreditedViewsTotal < 0 {
		row.CreditedViewsTotal = 0
		clamped = true
	}
	row.CreditedRevenueTotal += revenueDelta
	if row.CreditedRevenueTotal < 0 {
		row.CreditedRevenueTotal = 0
		clamped = true
	}
	row.UpdatedAt = now.UTC()

	if err := r.db.WithContext(ctx).
		Model(&creatorLedgerModel{}).
		Where("creator_id = ?", creatorID).
		Updates(map[string]any{
			"credited_views_total":   row.CreditedViewsTotal,
			"credited_revenue_total": row.CreditedRevenueTotal,
			"updated_at":             row.UpdatedAt,
		}).
		Error; err != nil {
		return entities.CreatorLedger{}, false, err
	}

	if clamped {
		metrics.LedgerClamps.Inc()
		r.logger.Warn("ledger delta clamped at zero",
			"event", "ledger_delta_clamped",
			"module", "creator-monetization/clip-review-service",
			"layer", "adapter",
			"creator_id", creatorID,
			"views_delta", viewsDelta,
			"revenue_delta", revenueDelta,
		)
	}
	return row.toEntity(), clamped, nil
}

func (r *Repository) AddAudit(ctx context.Context, audit entities.ClipAudit) error {
	row := clipAuditModel{
		AuditID:      strings.TrimSpace(audit.AuditID),
		ClipID:       strings.TrimSpace(audit.ClipID),
		Action:       strings.TrimSpace(audit.Action),
		OldStatus:    string(audit.OldStatus),
		NewStatus:    string(audit.NewStatus),
		ActorID:      strings.TrimSpace(audit.ActorID),
		ViewsBefore:  audit.ViewsBefore,
		ViewsAfter:   audit.ViewsAfter,
		ViewsDelta:   audit.ViewsDelta,
		RevenueDelta: audit.RevenueDelta,
		RateUsed:     audit.RateUsed,
		CreatedAt:    audit.CreatedAt.UTC(),
	}
	if row.AuditID == "" {
		row.AuditID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidClipInput
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

type clipModel struct {
	ClipID         string     `gorm:"column:clip_id;primaryKey"`
	OwnerAccountID string     `gorm:"column:owner_account_id"`
	CreatorID      string     `gorm:"column:creator_id;index"`
	ProgramID      string     `gorm:"column:program_id;uniqueIndex:ux_clips_program_canonical,priority:1"`
	Link           string     `gorm:"column:link"`
	Platform       string     `gorm:"column:platform"`
	CanonicalID    string     `gorm:"column:canonical_id;uniqueIndex:ux_clips_program_canonical,priority:2"`
	ReportedViews  int64      `gorm:"column:reported_views"`
	CreditedViews  *int64     `gorm:"column:credited_views"`
	Status         string     `gorm:"column:status"`
	PostedAt       *time.Time `gorm:"column:posted_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (clipModel) TableName() string {
	return "clips"
}

func clipModelFromEntity(item entities.Clip) clipModel {
	return clipModel{
		ClipID:         strings.TrimSpace(item.ClipID),
		OwnerAccountID: strings.TrimSpace(item.OwnerAccountID),
		CreatorID:      strings.TrimSpace(item.CreatorID),
		ProgramID:      strings.TrimSpace(item.ProgramID),
		Link:           strings.TrimSpace(item.Link),
		Platform:       strings.TrimSpace(item.Platform),
		CanonicalID:    strings.TrimSpace(item.CanonicalID),
		ReportedViews:  item.ReportedViews,
		CreditedViews:  copyInt64(item.CreditedViews),
		Status:         string(item.Status),
		PostedAt:       normalizeOptionalTime(item.PostedAt),
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func clipUpdatesFromEntity(item entities.Clip) map[string]any {
	row := clipModelFromEntity(item)
	return map[string]any{
		"reported_views": row.ReportedViews,
		"credited_views": row.CreditedViews,
		"status":         row.Status,
		"posted_at":      row.PostedAt,
		"updated_at":     row.UpdatedAt,
	}
}

func (m clipModel) toEntity() entities.Clip {
	return entities.Clip{
		ClipID:         m.ClipID,
		OwnerAccountID: m.OwnerAccountID,
		CreatorID:      m.CreatorID,
		ProgramID:      m.ProgramID,
		Link:           m.Link,
		Platform:       m.Platform,
		CanonicalID:    m.CanonicalID,
		ReportedViews:  m.ReportedViews,
		CreditedViews:  copyInt64(m.CreditedViews),
		Status:         entities.ClipStatus(m.Status),
		PostedAt:       normalizeOptionalTime(m.PostedAt),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type creatorLedgerModel struct {
	CreatorID            string    `gorm:"column:creator_id;primaryKey"`
	CreditedViewsTotal   int64     `gorm:"column:credited_views_total"`
	CreditedRevenueTotal float64   `gorm:"column:credited_revenue_total"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (creatorLedgerModel) TableName() string {
	return "creator_ledgers"
}

func (m creatorLedgerModel) toEntity() entities.CreatorLedger {
	return entities.CreatorLedger{
		CreatorID:            m.CreatorID,
		CreditedViewsTotal:   m.CreditedViewsTotal,
		CreditedRevenueTotal: m.CreditedRevenueTotal,
		UpdatedAt:            m.UpdatedAt.UTC(),
	}
}

type clipAuditModel struct {
	AuditID      string    `gorm:"column:audit_id;primaryKey"`
	ClipID       string    `gorm:"column:clip_id;index"`
	Action       string    `gorm:"column:action"`
	OldStatus    string    `gorm:"column:old_status"`
	NewStatus    string    `gorm:"column:new_status"`
	ActorID      string    `gorm:"column:actor_id"`
	ViewsBefore  int64     `gorm:"column:views_before"`
	ViewsAfter   int64     `gorm:"column:views_after"`
	ViewsDelta   int64     `gorm:"column:views_delta"`
	RevenueDelta float64   `gorm:"column:revenue_delta"`
	RateUsed     float64   `gorm:"column:rate_used"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (clipAuditModel) TableName() string {
	return "clip_audits"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "clip_outbox"
}

func copyInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	normalized := value.UTC()
	return &normalized
}

// Migrate creates or updates the service tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&clipModel{},
		&creatorLedgerModel{},
		&clipAuditModel{},
		&outboxModel{},
	)
}
