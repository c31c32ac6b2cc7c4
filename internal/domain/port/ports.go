package port

import (
	"context"
	"errors"
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/event"
	"github.com/bibbank/credit-simulator/internal/domain/model"
)

// ErrBatchNotFound is returned by status lookups for unknown batch ids.
var ErrBatchNotFound = errors.New("batch not found")

// ---------------------------------------------------------------------------
// Execution port
// ---------------------------------------------------------------------------

// Executor runs tasks on a bounded set of workers. Submit blocks until the
// task has been queued, not until it has run.
type Executor interface {
	Submit(task func()) error
}

// ---------------------------------------------------------------------------
// Out-of-band hand-off port
// ---------------------------------------------------------------------------

// BatchQueue hands deferred batches to the out-of-band consumer.
type BatchQueue interface {
	Enqueue(ctx context.Context, evt event.BatchAccepted) error
}

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// BatchStatusRepository stores the latest status snapshot per batch id.
type BatchStatusRepository interface {
	Save(ctx context.Context, status model.BatchStatus) error
	FindByID(ctx context.Context, batchID string) (model.BatchStatus, error)
}

// ---------------------------------------------------------------------------
// Telemetry port
// ---------------------------------------------------------------------------

// MetricsRecorder receives business telemetry from the use cases.
type MetricsRecorder interface {
	ObserveSimulation(outcome string, elapsed time.Duration)
	ObserveBatch(mode string, size int)
}

// Simulation outcomes and batch modes reported to MetricsRecorder.
const (
	OutcomeSuccess   = "success"
	OutcomeViolation = "business_rule_violation"
	OutcomeError     = "error"

	BatchModeSync     = "sync"
	BatchModeDeferred = "deferred"
	BatchModeFailed   = "failed"
)
