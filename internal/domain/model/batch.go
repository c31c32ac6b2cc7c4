package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/credit-simulator/internal/domain/valueobject"
)

const (
	// OutOfBandThreshold is the largest batch computed synchronously.
	OutOfBandThreshold = 100
	// MaxBatchSize is the largest batch accepted at all.
	MaxBatchSize = 10_000
)

// ---------------------------------------------------------------------------
// BatchInput value object
// ---------------------------------------------------------------------------

// BatchInput is a named, ordered collection of simulation inputs. Whether it
// requires out-of-band processing is derived from its length when it is
// built and cannot be set independently.
type BatchInput struct {
	id                string
	simulations       []SimulationInput
	requiresOutOfBand bool
}

// NewBatchInput builds a batch. An empty id is replaced by a random UUID. The
// simulations slice is copied.
func NewBatchInput(id string, simulations []SimulationInput) (BatchInput, error) {
	if len(simulations) == 0 {
		return BatchInput{}, fmt.Errorf("batch must contain at least one simulation")
	}
	if len(simulations) > MaxBatchSize {
		return BatchInput{}, fmt.Errorf("batch must not contain more than %d simulations, got %d",
			MaxBatchSize, len(simulations))
	}
	if id == "" {
		id = uuid.New().String()
	}

	sims := make([]SimulationInput, len(simulations))
	copy(sims, simulations)

	return BatchInput{
		id:                id,
		simulations:       sims,
		requiresOutOfBand: len(sims) > OutOfBandThreshold,
	}, nil
}

func (b BatchInput) ID() string { return b.id }

// Simulations returns a copy of the entries in submission order.
func (b BatchInput) Simulations() []SimulationInput {
	out := make([]SimulationInput, len(b.simulations))
	copy(out, b.simulations)
	return out
}

// At returns the i-th entry without copying the whole batch.
func (b BatchInput) At(i int) SimulationInput { return b.simulations[i] }

// Len returns the number of entries.
func (b BatchInput) Len() int { return len(b.simulations) }

// RequiresOutOfBandProcessing reports whether the batch exceeds
// OutOfBandThreshold.
func (b BatchInput) RequiresOutOfBandProcessing() bool { return b.requiresOutOfBand }

// ---------------------------------------------------------------------------
// AcceptanceRecord
// ---------------------------------------------------------------------------

// AcceptanceMessage is reported for every deferred batch.
const AcceptanceMessage = "batch received and queued for processing"

// AcceptanceRecord acknowledges a batch handed off for out-of-band processing.
type AcceptanceRecord struct {
	AcceptedAt       time.Time
	BatchID          string
	Status           valueobject.BatchState
	Message          string
	TotalSimulations int
}

// NewAcceptanceRecord acknowledges batch at now. TotalSimulations always
// equals the batch length.
func NewAcceptanceRecord(batch BatchInput, now time.Time) AcceptanceRecord {
	return AcceptanceRecord{
		BatchID:          batch.ID(),
		TotalSimulations: batch.Len(),
		Status:           valueobject.BatchStateAccepted,
		Message:          AcceptanceMessage,
		AcceptedAt:       now,
	}
}

// ---------------------------------------------------------------------------
// BatchOutcome tagged union
// ---------------------------------------------------------------------------

// BatchOutcome is either the ordered results of a synchronous batch or the
// acceptance record of a deferred one. Exactly one side is set.
type BatchOutcome struct {
	results    []SimulationResult
	acceptance *AcceptanceRecord
}

// CompletedOutcome wraps synchronous results.
func CompletedOutcome(results []SimulationResult) BatchOutcome {
	if results == nil {
		results = []SimulationResult{}
	}
	return BatchOutcome{results: results}
}

// AcceptedOutcome wraps an acceptance record.
func AcceptedOutcome(rec AcceptanceRecord) BatchOutcome {
	return BatchOutcome{acceptance: &rec}
}

// IsAccepted reports whether the batch was deferred.
func (o BatchOutcome) IsAccepted() bool { return o.acceptance != nil }

// Results returns the synchronous results, or nil for a deferred batch.
func (o BatchOutcome) Results() []SimulationResult { return o.results }

// Acceptance returns the acceptance record and true for a deferred batch.
func (o BatchOutcome) Acceptance() (AcceptanceRecord, bool) {
	if o.acceptance == nil {
		return AcceptanceRecord{}, false
	}
	return *o.acceptance, true
}

// ---------------------------------------------------------------------------
// BatchStatus
// ---------------------------------------------------------------------------

// BatchStatus is the progress snapshot kept for a batch id.
type BatchStatus struct {
	LastUpdate           time.Time
	BatchID              string
	State                valueobject.BatchState
	Message              string
	Progress             int
	TotalSimulations     int
	ProcessedSimulations int
}

// Status messages recorded along the batch lifecycle.
const (
	receivedMessage  = "batch received"
	computingMessage = "batch is being computed"
	completedMessage = "batch processed synchronously"
)

// ReceivedBatchStatus is the first status of every batch.
func ReceivedBatchStatus(batch BatchInput, now time.Time) BatchStatus {
	return BatchStatus{
		BatchID:          batch.ID(),
		State:            valueobject.BatchStateReceived,
		Message:          receivedMessage,
		TotalSimulations: batch.Len(),
		LastUpdate:       now,
	}
}

// Computing moves a received batch into synchronous computation.
func (s BatchStatus) Computing(now time.Time) (BatchStatus, error) {
	return s.moveTo(valueobject.BatchStateComputing, computingMessage, now)
}

// Completed records that every entry was computed.
func (s BatchStatus) Completed(now time.Time) (BatchStatus, error) {
	next, err := s.moveTo(valueobject.BatchStateCompleted, completedMessage, now)
	if err != nil {
		return s, err
	}
	next.Progress = 100
	next.ProcessedSimulations = next.TotalSimulations
	return next, nil
}

// Failed records a synchronous batch that produced no results. Every entry
// still ran, so the batch counts as fully processed.
func (s BatchStatus) Failed(reason string, now time.Time) (BatchStatus, error) {
	next, err := s.moveTo(valueobject.BatchStateFailed, reason, now)
	if err != nil {
		return s, err
	}
	next.Progress = 100
	next.ProcessedSimulations = next.TotalSimulations
	return next, nil
}

// Accepted records the hand-off of a received batch.
func (s BatchStatus) Accepted(rec AcceptanceRecord) (BatchStatus, error) {
	return s.moveTo(valueobject.BatchStateAccepted, rec.Message, rec.AcceptedAt)
}

func (s BatchStatus) moveTo(next valueobject.BatchState, message string, now time.Time) (BatchStatus, error) {
	if !s.State.CanTransitionTo(next) {
		if s.State.IsTerminal() {
			return s, fmt.Errorf("batch %s is already %s", s.BatchID, s.State)
		}
		return s, fmt.Errorf("batch %s cannot move from %s to %s", s.BatchID, s.State, next)
	}
	s.State = next
	s.Message = message
	s.LastUpdate = now
	return s, nil
}
