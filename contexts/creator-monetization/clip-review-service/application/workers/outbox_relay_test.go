package workers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clipledger/contexts/creator-monetization/clip-review-service/adapters/memory"
	"clipledger/contexts/creator-monetization/clip-review-service/application/workers"
	"clipledger/contexts/creator-monetization/clip-review-service/ports"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func appendTestEnvelope(t *testing.T, store *memory.Store, eventID string, eventType string) {
	t.Helper()
	data, _ := json.Marshal(map[string]any{"clip_id": "clip-1"})
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		SourceService: "clip-review-service",
		SchemaVersion: 1,
		PartitionKey:  "clip-1",
		Data:          data,
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesPendingAndMarks(t *testing.T) {
	store := memory.NewStore(nil)
	appendTestEnvelope(t, store, "event-1", "clip.approved")
	appendTestEnvelope(t, store, "event-2", "clip.rejected")

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after relay, got %d", len(pending))
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("relay republished already published events: %d", len(publisher.events))
	}
}

func TestOutboxRelayRoutesByEventType(t *testing.T) {
	store := memory.NewStore(nil)
	appendTestEnvelope(t, store, "event-1", "clip.deleted")

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.topics) != 1 || publisher.topics[0] != "clip.deleted" {
		t.Fatalf("expected topic clip.deleted, got %v", publisher.topics)
	}
}

func TestOutboxRelayDisabled(t *testing.T) {
	store := memory.NewStore(nil)
	appendTestEnvelope(t, store, "event-1", "clip.approved")

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, Disabled: true}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("disabled relay published %d events", len(publisher.events))
	}
}
