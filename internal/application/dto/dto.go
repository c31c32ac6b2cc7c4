package dto

import (
	"time"

	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// SimulationRequest carries one loan simulation. Pointer fields distinguish a
// missing value from a zero one.
type SimulationRequest struct {
	LoanAmount      *fixedpoint.Decimal `json:"loanAmount" yaml:"loanAmount"`
	BirthDate       *Date               `json:"birthDate" yaml:"birthDate"`
	LoanTermMonths  *int                `json:"loanTermMonths" yaml:"loanTermMonths"`
	IncludeSchedule bool                `json:"includeSchedule,omitempty" yaml:"includeSchedule"`
}

// BatchSimulationRequest carries a named batch. An empty BatchID is generated.
type BatchSimulationRequest struct {
	BatchID     string              `json:"batchId,omitempty" yaml:"batchId"`
	Simulations []SimulationRequest `json:"simulations" yaml:"simulations"`
}

// GetBatchStatusRequest identifies a batch to look up.
type GetBatchStatusRequest struct {
	BatchID string `json:"batchId"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	DueDate          Date               `json:"dueDate"`
	Principal        fixedpoint.Decimal `json:"principal"`
	Interest         fixedpoint.Decimal `json:"interest"`
	Total            fixedpoint.Decimal `json:"total"`
	RemainingBalance fixedpoint.Decimal `json:"remainingBalance"`
	Period           int                `json:"period"`
}

// SimulationResponse is the external representation of a simulation result.
// Decimals are serialised as strings with their exact scale.
type SimulationResponse struct {
	LoanAmount         fixedpoint.Decimal          `json:"loanAmount"`
	BirthDate          Date                        `json:"birthDate"`
	ClientAge          int                         `json:"clientAge"`
	LoanTermMonths     int                         `json:"loanTermMonths"`
	AnnualInterestRate fixedpoint.Decimal          `json:"annualInterestRate"`
	MonthlyPayment     fixedpoint.Decimal          `json:"monthlyPayment"`
	TotalAmount        fixedpoint.Decimal          `json:"totalAmount"`
	TotalInterest      fixedpoint.Decimal          `json:"totalInterest"`
	Schedule           []AmortizationEntryResponse `json:"schedule,omitempty"`
}

// BatchAcceptedResponse acknowledges a batch handed off for out-of-band
// processing.
type BatchAcceptedResponse struct {
	AcceptedAt       time.Time `json:"acceptedAt"`
	BatchID          string    `json:"batchId"`
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	TotalSimulations int       `json:"totalSimulations"`
}

// BatchSimulationResponse is either the ordered results of a synchronous
// batch or the acknowledgement of a deferred one.
type BatchSimulationResponse struct {
	Accepted *BatchAcceptedResponse
	BatchID  string
	Results  []SimulationResponse
}

// IsAccepted reports whether the batch was deferred.
func (r BatchSimulationResponse) IsAccepted() bool { return r.Accepted != nil }

// BatchStatusResponse is the external representation of a batch status.
type BatchStatusResponse struct {
	LastUpdate             time.Time `json:"lastUpdate"`
	EstimatedTimeRemaining *int64    `json:"estimatedTimeRemaining,omitempty"`
	BatchID                string    `json:"batchId"`
	Status                 string    `json:"status"`
	Message                string    `json:"message"`
	Progress               int       `json:"progress"`
	TotalSimulations       int       `json:"totalSimulations"`
	ProcessedSimulations   int       `json:"processedSimulations"`
}
