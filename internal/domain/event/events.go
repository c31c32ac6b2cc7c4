package event

import (
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/pkg/events"
	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	// BatchAcceptedType names the hand-off event for deferred batches.
	BatchAcceptedType = "credit_simulator.batch.accepted"
	batchAggregate    = "Batch"
)

// SimulationEntry is one batch entry as it travels to the batch consumer.
type SimulationEntry struct {
	LoanAmount     fixedpoint.Decimal `json:"loan_amount"`
	BirthDate      string             `json:"birth_date"`
	LoanTermMonths int                `json:"loan_term_months"`
}

// BatchAccepted is raised when a batch is handed off for out-of-band
// processing. It carries every entry so the consumer needs no other source.
type BatchAccepted struct {
	events.BaseEvent
	AcceptedAt       time.Time         `json:"accepted_at"`
	BatchID          string            `json:"batch_id"`
	Simulations      []SimulationEntry `json:"simulations"`
	TotalSimulations int               `json:"total_simulations"`
}

// NewBatchAccepted builds the hand-off event for batch.
func NewBatchAccepted(batch model.BatchInput, rec model.AcceptanceRecord) BatchAccepted {
	entries := make([]SimulationEntry, 0, batch.Len())
	for _, in := range batch.Simulations() {
		entries = append(entries, SimulationEntry{
			LoanAmount:     in.LoanAmount(),
			BirthDate:      in.BirthDate().Format(time.DateOnly),
			LoanTermMonths: in.LoanTermMonths(),
		})
	}

	return BatchAccepted{
		BaseEvent:        events.NewBaseEvent(BatchAcceptedType, rec.BatchID, batchAggregate),
		BatchID:          rec.BatchID,
		TotalSimulations: rec.TotalSimulations,
		AcceptedAt:       rec.AcceptedAt,
		Simulations:      entries,
	}
}
