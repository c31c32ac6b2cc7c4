package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-simulator/internal/domain/event"
	pkgkafka "github.com/bibbank/credit-simulator/pkg/kafka"
)

// Publisher is the subset of pkg/kafka.Producer used by the queue.
type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaBatchQueue implements port.BatchQueue by writing BatchAccepted events
// to a Kafka topic keyed by batch id.
type KafkaBatchQueue struct {
	producer Publisher
	topic    string
	logger   *slog.Logger
}

// NewKafkaBatchQueue creates a queue targeting topic.
func NewKafkaBatchQueue(producer Publisher, topic string, logger *slog.Logger) *KafkaBatchQueue {
	return &KafkaBatchQueue{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Enqueue serialises evt and publishes it.
func (q *KafkaBatchQueue) Enqueue(ctx context.Context, evt event.BatchAccepted) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
	}

	q.logger.DebugContext(ctx, "publishing batch hand-off",
		"event_type", evt.EventType(),
		"batch_id", evt.BatchID,
		"total_simulations", evt.TotalSimulations,
		"topic", q.topic,
		"payload_size", len(payload),
	)

	msg := pkgkafka.Message{
		Key:   []byte(evt.AggregateID()),
		Value: payload,
		Headers: map[string]string{
			"event_type": evt.EventType(),
			"event_id":   evt.EventID(),
		},
	}
	if err := q.producer.Publish(ctx, q.topic, msg); err != nil {
		return fmt.Errorf("failed to publish batch %s to topic %s: %w", evt.BatchID, q.topic, err)
	}
	return nil
}
