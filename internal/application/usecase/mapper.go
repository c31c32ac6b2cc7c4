package usecase

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/domain/model"
)

var tracer = otel.Tracer("github.com/bibbank/credit-simulator/internal/application/usecase")

type nopMetrics struct{}

func (nopMetrics) ObserveSimulation(string, time.Duration) {}
func (nopMetrics) ObserveBatch(string, int)                {}

func toSimulationInput(req dto.SimulationRequest) (model.SimulationInput, error) {
	if req.LoanAmount == nil || req.BirthDate == nil || req.LoanTermMonths == nil {
		return model.SimulationInput{}, errors.New("incomplete simulation request")
	}
	return model.NewSimulationInput(*req.LoanAmount, req.BirthDate.Time(), *req.LoanTermMonths)
}

func toSimulationResponse(r model.SimulationResult) dto.SimulationResponse {
	return dto.SimulationResponse{
		LoanAmount:         r.LoanAmount(),
		BirthDate:          dto.NewDate(r.BirthDate()),
		ClientAge:          r.ClientAge(),
		LoanTermMonths:     r.LoanTermMonths(),
		AnnualInterestRate: r.AnnualInterestRate(),
		MonthlyPayment:     r.MonthlyPayment(),
		TotalAmount:        r.TotalAmount(),
		TotalInterest:      r.TotalInterest(),
	}
}

func toScheduleResponse(entries []model.AmortizationEntry) []dto.AmortizationEntryResponse {
	out := make([]dto.AmortizationEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AmortizationEntryResponse{
			Period:           e.Period,
			DueDate:          dto.NewDate(e.DueDate),
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		})
	}
	return out
}

func toAcceptedResponse(rec model.AcceptanceRecord) *dto.BatchAcceptedResponse {
	return &dto.BatchAcceptedResponse{
		BatchID:          rec.BatchID,
		TotalSimulations: rec.TotalSimulations,
		Status:           rec.Status.String(),
		Message:          rec.Message,
		AcceptedAt:       rec.AcceptedAt,
	}
}

func toBatchStatusResponse(s model.BatchStatus) dto.BatchStatusResponse {
	return dto.BatchStatusResponse{
		BatchID:              s.BatchID,
		Status:               s.State.String(),
		Message:              s.Message,
		Progress:             s.Progress,
		TotalSimulations:     s.TotalSimulations,
		ProcessedSimulations: s.ProcessedSimulations,
		LastUpdate:           s.LastUpdate,
	}
}

// fail marks span as failed and returns err unchanged.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
