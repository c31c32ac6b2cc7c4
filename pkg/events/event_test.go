package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "batch-123"

	before := time.Now().UTC()
	event := NewBaseEvent("BatchAccepted", aggregateID, "Batch")
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "BatchAccepted" {
		t.Errorf("expected event type %q, got %q", "BatchAccepted", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Batch" {
		t.Errorf("expected aggregate type %q, got %q", "Batch", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("X", "agg", "Aggregate")
	b := NewBaseEvent("X", "agg", "Aggregate")
	if a.EventID() == b.EventID() {
		t.Errorf("expected distinct event IDs, both were %q", a.EventID())
	}
}

func TestBaseEventJSONEnvelope(t *testing.T) {
	type wrapped struct {
		BaseEvent
		Extra string `json:"extra"`
	}
	evt := wrapped{BaseEvent: NewBaseEvent("BatchAccepted", "b-1", "Batch"), Extra: "x"}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("expected valid JSON payload, got error: %v", err)
	}

	for _, key := range []string{"event_id", "event_type", "aggregate_id", "aggregate_type", "occurred_at", "extra"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
	if parsed["aggregate_id"] != "b-1" {
		t.Errorf("expected aggregate_id b-1, got %v", parsed["aggregate_id"])
	}
}
