package service_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/service"
	"github.com/bibbank/credit-simulator/internal/domain/valueobject"
)

// --- Executor doubles ---

// reverseExecutor queues every task and runs them in reverse submission order
// on separate goroutines once flush is called, so results complete out of
// order.
type reverseExecutor struct {
	mu    sync.Mutex
	tasks []func()
	calls atomic.Int64
}

func (e *reverseExecutor) Submit(task func()) error {
	e.calls.Add(1)
	e.mu.Lock()
	e.tasks = append(e.tasks, task)
	e.mu.Unlock()
	return nil
}

func (e *reverseExecutor) run() {
	e.mu.Lock()
	tasks := e.tasks
	e.tasks = nil
	e.mu.Unlock()

	for i := len(tasks) - 1; i >= 0; i-- {
		go tasks[i]()
		time.Sleep(time.Millisecond)
	}
}

// goExecutor runs each task on its own goroutine.
type goExecutor struct {
	calls atomic.Int64
}

func (e *goExecutor) Submit(task func()) error {
	e.calls.Add(1)
	go task()
	return nil
}

type failingExecutor struct{}

func (failingExecutor) Submit(func()) error { return errors.New("executor closed") }

// --- Helpers ---

func batchOf(t *testing.T, n int) model.BatchInput {
	t.Helper()
	sims := make([]model.SimulationInput, n)
	for i := range sims {
		sims[i] = mustInput(t, "10000.00", today.AddDate(-30, 0, 0), 12)
	}
	b, err := model.NewBatchInput("", sims)
	require.NoError(t, err)
	return b
}

// --- Tests ---

func TestBatchDispatcher_SyncPreservesOrder(t *testing.T) {
	young := mustInput(t, "10000.00", today.AddDate(-22, 0, 0), 12)
	senior := mustInput(t, "50000.00", today.AddDate(-70, 0, 0), 24)
	middle := mustInput(t, "25000.00", today.AddDate(-45, 0, 0), 60)

	batch, err := model.NewBatchInput("b-1", []model.SimulationInput{young, senior, middle})
	require.NoError(t, err)

	exec := &reverseExecutor{}
	d := service.NewBatchDispatcher(newEngine(), exec, fixedClock)

	done := make(chan struct{})
	var outcome model.BatchOutcome
	var dispatchErr error
	go func() {
		defer close(done)
		outcome, dispatchErr = d.Dispatch(batch)
	}()

	require.Eventually(t, func() bool { return exec.calls.Load() == 3 }, time.Second, time.Millisecond)
	exec.run()
	<-done

	require.NoError(t, dispatchErr)
	require.False(t, outcome.IsAccepted())

	results := outcome.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "5.0", results[0].AnnualInterestRate().String())
	assert.Equal(t, 22, results[0].ClientAge())
	assert.Equal(t, "4.0", results[1].AnnualInterestRate().String())
	assert.Equal(t, 70, results[1].ClientAge())
	assert.Equal(t, "2.0", results[2].AnnualInterestRate().String())
	assert.Equal(t, 45, results[2].ClientAge())
}

func TestBatchDispatcher_TwoEntriesIsIdempotent(t *testing.T) {
	a := mustInput(t, "10000.00", today.AddDate(-22, 0, 0), 12)
	b := mustInput(t, "50000.00", today.AddDate(-35, 0, 0), 24)
	batch, err := model.NewBatchInput("", []model.SimulationInput{a, b})
	require.NoError(t, err)

	d := service.NewBatchDispatcher(newEngine(), &goExecutor{}, fixedClock)

	first, err := d.Dispatch(batch)
	require.NoError(t, err)
	second, err := d.Dispatch(batch)
	require.NoError(t, err)

	require.Len(t, first.Results(), 2)
	assert.Equal(t, "5.0", first.Results()[0].AnnualInterestRate().String())
	assert.Equal(t, "3.0", first.Results()[1].AnnualInterestRate().String())
	assert.Equal(t, first.Results(), second.Results())
}

func TestBatchDispatcher_ThresholdBatchIsSync(t *testing.T) {
	exec := &goExecutor{}
	d := service.NewBatchDispatcher(newEngine(), exec, fixedClock)

	outcome, err := d.Dispatch(batchOf(t, model.OutOfBandThreshold))
	require.NoError(t, err)

	assert.False(t, outcome.IsAccepted())
	assert.Len(t, outcome.Results(), model.OutOfBandThreshold)
	assert.EqualValues(t, model.OutOfBandThreshold, exec.calls.Load())
}

func TestBatchDispatcher_LargeBatchIsAccepted(t *testing.T) {
	exec := &goExecutor{}
	d := service.NewBatchDispatcher(newEngine(), exec, fixedClock)

	batch := batchOf(t, 150)
	outcome, err := d.Dispatch(batch)
	require.NoError(t, err)

	require.True(t, outcome.IsAccepted())
	assert.Nil(t, outcome.Results())
	assert.Zero(t, exec.calls.Load(), "no entry may be computed")

	rec, ok := outcome.Acceptance()
	require.True(t, ok)
	assert.Equal(t, batch.ID(), rec.BatchID)
	assert.Equal(t, 150, rec.TotalSimulations)
	assert.Equal(t, valueobject.BatchStateAccepted, rec.Status)
	assert.Equal(t, "accepted", rec.Status.String())
	assert.Equal(t, today, rec.AcceptedAt)
}

func TestBatchDispatcher_PropagatesLowestIndexViolation(t *testing.T) {
	ok := mustInput(t, "10000.00", today.AddDate(-30, 0, 0), 12)
	minor := mustInput(t, "10000.00", today.AddDate(-17, 0, 0), 12)
	ancient := mustInput(t, "10000.00", today.AddDate(-130, 0, 0), 12)

	batch, err := model.NewBatchInput("", []model.SimulationInput{ok, ancient, minor})
	require.NoError(t, err)

	d := service.NewBatchDispatcher(newEngine(), &goExecutor{}, fixedClock)
	outcome, err := d.Dispatch(batch)

	require.Error(t, err)
	assert.Nil(t, outcome.Results())
	assert.False(t, outcome.IsAccepted())

	var v *model.BusinessRuleViolation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, 130, v.RejectedValue)
	assert.Contains(t, err.Error(), "simulation 1")
}

func TestBatchDispatcher_SubmitFailure(t *testing.T) {
	d := service.NewBatchDispatcher(newEngine(), failingExecutor{}, fixedClock)

	_, err := d.Dispatch(batchOf(t, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executor closed")
}
