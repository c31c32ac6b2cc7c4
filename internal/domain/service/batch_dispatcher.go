package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
)

// ---------------------------------------------------------------------------
// BatchDispatcher – sync fan-out or deferred hand-off
// ---------------------------------------------------------------------------

// BatchDispatcher computes small batches on a shared executor and
// acknowledges large ones for out-of-band processing.
type BatchDispatcher struct {
	engine   *SimulationEngine
	executor port.Executor
	now      func() time.Time
}

// NewBatchDispatcher creates a dispatcher. The executor is owned by the caller
// and shared across dispatches. A nil clock defaults to time.Now.
func NewBatchDispatcher(engine *SimulationEngine, executor port.Executor, now func() time.Time) *BatchDispatcher {
	if now == nil {
		now = time.Now
	}
	return &BatchDispatcher{engine: engine, executor: executor, now: now}
}

// Dispatch returns the ordered results for batches of up to
// model.OutOfBandThreshold entries, and an acceptance record without
// computing anything for larger ones.
//
// Every entry of a synchronous batch runs to completion. If any entry fails,
// the failure of the lowest input index is returned and no results are.
func (d *BatchDispatcher) Dispatch(batch model.BatchInput) (model.BatchOutcome, error) {
	if batch.RequiresOutOfBandProcessing() {
		return model.AcceptedOutcome(model.NewAcceptanceRecord(batch, d.now())), nil
	}

	n := batch.Len()
	results := make([]model.SimulationResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		input := batch.At(i)
		wg.Add(1)

		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("simulation panicked: %v", r)
				}
			}()
			results[i], errs[i] = d.engine.Simulate(input)
		}

		if err := d.executor.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit: %w", err)
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return model.BatchOutcome{}, fmt.Errorf("simulation %d: %w", i, err)
		}
	}
	return model.CompletedOutcome(results), nil
}
