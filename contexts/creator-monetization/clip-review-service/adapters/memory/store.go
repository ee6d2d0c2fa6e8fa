package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"clipledger/contexts/creator-monetization/clip-review-service/domain/entities"
	domainerrors "clipledger/contexts/creator-monetization/clip-review-service/domain/errors"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory repository used by tests and local wiring. Execute
// serializes units of work and restores a snapshot when the closure fails, so
// the all-or-nothing contract of the postgres adapter holds here too.
type Store struct {
	mu sync.RWMutex

	clips   map[string]entities.Clip
	ledgers map[string]entities.CreatorLedger
	audits  []entities.ClipAudit
	outbox  map[string]outboxRow
}

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

func NewStore(seed []entities.Clip) *Store {
	clips := make(map[string]entities.Clip, len(seed))
	for _, item := range seed {
		clips[item.ClipID] = item
	}
	return &Store{
		clips:   clips,
		ledgers: make(map[string]entities.CreatorLedger),
		outbox:  make(map[string]outboxRow),
	}
}

func (s *Store) Execute(_ context.Context, fn func(tx ports.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshotLocked()
	if err := fn(txStores{store: s}); err != nil {
		s.restoreLocked(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	clips   map[string]entities.Clip
	ledgers map[string]entities.CreatorLedger
	audits  []entities.ClipAudit
	outbox  map[string]outboxRow
}

func (s *Store) snapshotLocked() storeSnapshot {
	clips := make(map[string]entities.Clip, len(s.clips))
	for k, v := range s.clips {
		clips[k] = v
	}
	ledgers := make(map[string]entities.CreatorLedger, len(s.ledgers))
	for k, v := range s.ledgers {
		ledgers[k] = v
	}
	outbox := make(map[string]outboxRow, len(s.outbox))
	for k, v := range s.outbox {
		outbox[k] = v
	}
	return storeSnapshot{
		clips:   clips,
		ledgers: ledgers,
		audits:  append([]entities.ClipAudit(nil), s.audits...),
		outbox:  outbox,
	}
}

func (s *Store) restoreLocked(snapshot storeSnapshot) {
	s.clips = snapshot.clips
	s.ledgers = snapshot.ledgers
	s.audits = snapshot.audits
	s.outbox = snapshot.outbox
}

// txStores exposes the store inside Execute without re-locking; the unit of
// work already holds the write lock.
type txStores struct {
	store *Store
}

func (t txStores) CreateClip(_ context.Context, clip entities.Clip) error {
	for _, existing := range t.store.clips {
		if existing.ProgramID == clip.ProgramID && existing.CanonicalID == clip.CanonicalID {
			return domainerrors.ErrDuplicateContent
		}
	}
	t.store.clips[clip.ClipID] = clip
	return nil
}

func (t txStores) GetClip(_ context.Context, clipID string) (entities.Clip, error) {
	return t.store.getClipLocked(clipID)
}

func (t txStores) GetClipForUpdate(_ context.Context, clipID string) (entities.Clip, error) {
	return t.store.getClipLocked(clipID)
}

func (t txStores) UpdateClip(_ context.Context, clip entities.Clip) error {
	if _, exists := t.store.clips[clip.ClipID]; !exists {
		return domainerrors.ErrClipNotFound
	}
	t.store.clips[clip.ClipID] = clip
	return nil
}

func (t txStores) DeleteClip(_ context.Context, clipID string) error {
	if _, exists := t.store.clips[clipID]; !exists {
		return domainerrors.ErrClipNotFound
	}
	delete(t.store.clips, clipID)
	return nil
}

func (t txStores) ListClips(_ context.Context, filter ports.ClipFilter) ([]entities.Clip, error) {
	return t.store.listClipsLocked(filter), nil
}

func (t txStores) CanonicalExists(_ context.Context, programID string, canonicalID string) (bool, error) {
	for _, existing := range t.store.clips {
		if existing.ProgramID == programID && existing.CanonicalID == canonicalID {
			return true, nil
		}
	}
	return false, nil
}

func (t txStores) ListPostedBetween(_ context.Context, creatorID string, from time.Time, to time.Time) ([]entities.Clip, error) {
	return t.store.listPostedBetweenLocked(creatorID, from, to), nil
}

func (t txStores) GetLedger(_ context.Context, creatorID string) (entities.CreatorLedger, error) {
	return t.store.getLedgerLocked(creatorID), nil
}

func (t txStores) ApplyLedgerDelta(
	_ context.Context,
	creatorID string,
	viewsDelta int64,
	revenueDelta float64,
	now time.Time,
) (entities.CreatorLedger, bool, error) {
	ledger := t.store.getLedgerLocked(creatorID)
	clamped := false

	ledger.CreditedViewsTotal += viewsDelta
	if ledger.CreditedViewsTotal < 0 {
		ledger.CreditedViewsTotal = 0
		clamped = true
	}
	ledger.CreditedRevenueTotal += revenueDelta
	if ledger.CreditedRevenueTotal < 0 {
		ledger.CreditedRevenueTotal = 0
		clamped = true
	}
	ledger.UpdatedAt = now.UTC()
	t.store.ledgers[creatorID] = ledger
	return ledger, clamped, nil
}

func (t txStores) AddAudit(_ context.Context, audit entities.ClipAudit) error {
	t.store.audits = append(t.store.audits, audit)
	return nil
}

func (t txStores) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	return t.store.appendOutboxLocked(envelope)
}

func (s *Store) getClipLocked(clipID string) (entities.Clip, error) {
	item, exists := s.clips[strings.TrimSpace(clipID)]
	if !exists {
		return entities.Clip{}, domainerrors.ErrClipNotFound
	}
	return item, nil
}

func (s *Store) getLedgerLocked(creatorID string) entities.CreatorLedger {
	if ledger, exists := s.ledgers[creatorID]; exists {
		return ledger
	}
	return entities.CreatorLedger{CreatorID: creatorID}
}

func (s *Store) listClipsLocked(filter ports.ClipFilter) []entities.Clip {
	items := make([]entities.Clip, 0, len(s.clips))
	for _, item := range s.clips {
		if filter.CreatorID != "" && item.CreatorID != filter.CreatorID {
			continue
		}
		if filter.ProgramID != "" && item.ProgramID != filter.ProgramID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (s *Store) listPostedBetweenLocked(creatorID string, from time.Time, to time.Time) []entities.Clip {
	items := make([]entities.Clip, 0)
	for _, item := range s.clips {
		if item.CreatorID != creatorID || item.PostedAt == nil {
			continue
		}
		posted := item.PostedAt.UTC()
		if posted.Before(from) || !posted.Before(to) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PostedAt.Before(*items[j].PostedAt)
	})
	return items
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := envelope.EventID
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	s.outbox[outboxID] = outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	}
	return nil
}

// Read-side methods used outside units of work.

func (s *Store) CreateClip(ctx context.Context, clip entities.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txStores{store: s}.CreateClip(ctx, clip)
}

func (s *Store) GetClip(_ context.Context, clipID string) (entities.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getClipLocked(clipID)
}

func (s *Store) GetClipForUpdate(ctx context.Context, clipID string) (entities.Clip, error) {
	return s.GetClip(ctx, clipID)
}

func (s *Store) UpdateClip(ctx context.Context, clip entities.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txStores{store: s}.UpdateClip(ctx, clip)
}

func (s *Store) DeleteClip(ctx context.Context, clipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txStores{store: s}.DeleteClip(ctx, clipID)
}

func (s *Store) ListClips(_ context.Context, filter ports.ClipFilter) ([]entities.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listClipsLocked(filter), nil
}

func (s *Store) CanonicalExists(ctx context.Context, programID string, canonicalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return txStores{store: s}.CanonicalExists(ctx, programID, canonicalID)
}

func (s *Store) ListPostedBetween(_ context.Context, creatorID string, from time.Time, to time.Time) ([]entities.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPostedBetweenLocked(creatorID, from, to), nil
}

func (s *Store) GetLedger(_ context.Context, creatorID string) (entities.CreatorLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLedgerLocked(creatorID), nil
}

func (s *Store) ApplyLedgerDelta(
	ctx context.Context,
	creatorID string,
	viewsDelta int64,
	revenueDelta float64,
	now time.Time,
) (entities.CreatorLedger, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txStores{store: s}.ApplyLedgerDelta(ctx, creatorID, viewsDelta, revenueDelta, now)
}

func (s *Store) AddAudit(ctx context.Context, audit entities.ClipAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return txStores{store: s}.AddAudit(ctx, audit)
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendOutboxLocked(envelope)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.outbox[outboxID]
	if !exists {
		return domainerrors.ErrInvalidClipInput
	}
	row.published = true
	row.publishedAt = publishedAt.UTC()
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Audits() []entities.ClipAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ClipAudit(nil), s.audits...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
