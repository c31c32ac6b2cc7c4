package messaging

import (
	"context"
	"log/slog"

	"github.com/bibbank/credit-simulator/internal/domain/event"
)

// LoggingBatchQueue is the port.BatchQueue used when no broker is configured.
// It records the hand-off and drops the payload.
type LoggingBatchQueue struct {
	logger *slog.Logger
}

func NewLoggingBatchQueue(logger *slog.Logger) *LoggingBatchQueue {
	return &LoggingBatchQueue{logger: logger}
}

func (q *LoggingBatchQueue) Enqueue(ctx context.Context, evt event.BatchAccepted) error {
	q.logger.InfoContext(ctx, "batch queued without broker",
		"event_id", evt.EventID(),
		"batch_id", evt.BatchID,
		"total_simulations", evt.TotalSimulations,
	)
	return nil
}
