package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/domain/event"
	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/service"
)

// SimulateBatchUseCase validates a batch, dispatches it and records its
// status. Deferred batches are handed to the batch queue.
type SimulateBatchUseCase struct {
	dispatcher *service.BatchDispatcher
	queue      port.BatchQueue
	statuses   port.BatchStatusRepository
	metrics    port.MetricsRecorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewSimulateBatchUseCase wires dependencies. A nil metrics recorder disables
// metrics; a nil clock defaults to time.Now.
func NewSimulateBatchUseCase(
	dispatcher *service.BatchDispatcher,
	queue port.BatchQueue,
	statuses port.BatchStatusRepository,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
	now func() time.Time,
) *SimulateBatchUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &SimulateBatchUseCase{
		dispatcher: dispatcher,
		queue:      queue,
		statuses:   statuses,
		metrics:    metrics,
		logger:     logger,
		now:        now,
	}
}

// Execute returns the ordered results of a small batch, or the acceptance
// of a large one after it has been queued. A queue failure fails the request.
// A status store failure is logged only.
func (uc *SimulateBatchUseCase) Execute(
	ctx context.Context,
	req dto.BatchSimulationRequest,
) (dto.BatchSimulationResponse, error) {
	ctx, span := tracer.Start(ctx, "SimulateBatchUseCase.Execute")
	defer span.End()

	// 1. Structural validation.
	if err := req.Validate(uc.now()); err != nil {
		return dto.BatchSimulationResponse{}, fail(span, err)
	}

	// 2. Build the batch.
	inputs := make([]model.SimulationInput, 0, len(req.Simulations))
	for i, s := range req.Simulations {
		in, err := toSimulationInput(s)
		if err != nil {
			return dto.BatchSimulationResponse{}, fail(span, fmt.Errorf("build input %d: %w", i, err))
		}
		inputs = append(inputs, in)
	}

	batch, err := model.NewBatchInput(req.BatchID, inputs)
	if err != nil {
		return dto.BatchSimulationResponse{}, fail(span, fmt.Errorf("build batch: %w", err))
	}

	span.SetAttributes(
		attribute.String("batch.id", batch.ID()),
		attribute.Int("batch.size", batch.Len()),
		attribute.Bool("batch.deferred", batch.RequiresOutOfBandProcessing()),
	)
	uc.logger.InfoContext(ctx, "batch received",
		"batch_id", batch.ID(),
		"total_simulations", batch.Len(),
	)

	// 3. Dispatch. Synchronous batches are visible as computing while they run.
	status := model.ReceivedBatchStatus(batch, uc.now())
	if !batch.RequiresOutOfBandProcessing() {
		next, moveErr := status.Computing(uc.now())
		status = uc.recordStatus(ctx, status, next, moveErr)
	}

	start := time.Now()
	outcome, err := uc.dispatcher.Dispatch(batch)
	if err != nil {
		next, moveErr := status.Failed(failureReason(err), uc.now())
		uc.recordStatus(ctx, status, next, moveErr)
		uc.metrics.ObserveBatch(port.BatchModeFailed, batch.Len())
		return dto.BatchSimulationResponse{}, fail(span, fmt.Errorf("dispatch batch %s: %w", batch.ID(), err))
	}

	// 4a. Deferred: hand off, then acknowledge.
	if rec, ok := outcome.Acceptance(); ok {
		if err := uc.queue.Enqueue(ctx, event.NewBatchAccepted(batch, rec)); err != nil {
			return dto.BatchSimulationResponse{}, fail(span, fmt.Errorf("enqueue batch %s: %w", batch.ID(), err))
		}
		next, moveErr := status.Accepted(rec)
		uc.recordStatus(ctx, status, next, moveErr)
		uc.metrics.ObserveBatch(port.BatchModeDeferred, batch.Len())

		uc.logger.InfoContext(ctx, "batch accepted for out-of-band processing",
			"batch_id", rec.BatchID,
			"total_simulations", rec.TotalSimulations,
		)
		return dto.BatchSimulationResponse{BatchID: rec.BatchID, Accepted: toAcceptedResponse(rec)}, nil
	}

	// 4b. Synchronous: return results in input order.
	results := outcome.Results()
	perEntry := time.Since(start) / time.Duration(len(results))
	resp := dto.BatchSimulationResponse{
		BatchID: batch.ID(),
		Results: make([]dto.SimulationResponse, 0, len(results)),
	}
	for _, r := range results {
		uc.metrics.ObserveSimulation(port.OutcomeSuccess, perEntry)
		resp.Results = append(resp.Results, toSimulationResponse(r))
	}

	next, moveErr := status.Completed(uc.now())
	uc.recordStatus(ctx, status, next, moveErr)
	uc.metrics.ObserveBatch(port.BatchModeSync, batch.Len())

	uc.logger.InfoContext(ctx, "batch processed synchronously",
		"batch_id", batch.ID(),
		"total_simulations", batch.Len(),
	)
	return resp, nil
}

// recordStatus stores next when the transition from prev was legal and
// returns the status now in effect. Neither a rejected transition nor a store
// failure fails the request.
func (uc *SimulateBatchUseCase) recordStatus(
	ctx context.Context,
	prev model.BatchStatus,
	next model.BatchStatus,
	err error,
) model.BatchStatus {
	if err != nil {
		uc.logger.WarnContext(ctx, "rejected batch status transition",
			"batch_id", prev.BatchID,
			"error", err,
		)
		return prev
	}
	uc.saveStatus(ctx, next)
	return next
}

// failureReason is the status message for a failed batch. Only business rule
// violations are safe to expose.
func failureReason(err error) string {
	var violation *model.BusinessRuleViolation
	if errors.As(err, &violation) {
		return "batch rejected: " + violation.Error()
	}
	return "batch processing failed"
}

func (uc *SimulateBatchUseCase) saveStatus(ctx context.Context, status model.BatchStatus) {
	if err := uc.statuses.Save(ctx, status); err != nil {
		uc.logger.WarnContext(ctx, "failed to record batch status",
			"batch_id", status.BatchID,
			"error", err,
		)
	}
}
