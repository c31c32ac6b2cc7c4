package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/service"
)

// SimulateUseCase validates and computes a single loan simulation.
type SimulateUseCase struct {
	engine  *service.SimulationEngine
	metrics port.MetricsRecorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewSimulateUseCase wires dependencies. A nil metrics recorder disables
// metrics; a nil clock defaults to time.Now.
func NewSimulateUseCase(
	engine *service.SimulationEngine,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
	now func() time.Time,
) *SimulateUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &SimulateUseCase{engine: engine, metrics: metrics, logger: logger, now: now}
}

// Execute validates the request, runs the simulation and optionally attaches
// the amortization schedule.
func (uc *SimulateUseCase) Execute(
	ctx context.Context,
	req dto.SimulationRequest,
) (dto.SimulationResponse, error) {
	ctx, span := tracer.Start(ctx, "SimulateUseCase.Execute")
	defer span.End()

	// 1. Structural validation.
	if err := req.Validate(uc.now()); err != nil {
		return dto.SimulationResponse{}, fail(span, err)
	}

	input, err := toSimulationInput(req)
	if err != nil {
		return dto.SimulationResponse{}, fail(span, fmt.Errorf("build input: %w", err))
	}

	// 2. Business rules and amortization.
	start := time.Now()
	result, err := uc.engine.Simulate(input)
	uc.metrics.ObserveSimulation(simulationOutcome(err), time.Since(start))
	if err != nil {
		return dto.SimulationResponse{}, fail(span, fmt.Errorf("simulate: %w", err))
	}

	resp := toSimulationResponse(result)

	// 3. Optional schedule.
	if req.IncludeSchedule {
		schedule, err := uc.engine.Schedule(result)
		if err != nil {
			return dto.SimulationResponse{}, fail(span, fmt.Errorf("build schedule: %w", err))
		}
		resp.Schedule = toScheduleResponse(schedule)
	}

	span.SetAttributes(
		attribute.Int("simulation.client_age", result.ClientAge()),
		attribute.String("simulation.annual_rate", result.AnnualInterestRate().String()),
	)
	uc.logger.InfoContext(ctx, "simulation completed",
		"client_age", result.ClientAge(),
		"annual_rate", result.AnnualInterestRate().String(),
		"monthly_payment", result.MonthlyPayment().String(),
	)

	return resp, nil
}

func simulationOutcome(err error) string {
	var violation *model.BusinessRuleViolation
	switch {
	case err == nil:
		return port.OutcomeSuccess
	case errors.As(err, &violation):
		return port.OutcomeViolation
	default:
		return port.OutcomeError
	}
}
