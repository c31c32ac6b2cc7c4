package usecase_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/event"
	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/service"
	"github.com/bibbank/credit-simulator/pkg/testutil"
)

// --- Mock implementations ---

type mockBatchQueue struct {
	enqueueFunc func(ctx context.Context, evt event.BatchAccepted) error
	enqueued    []event.BatchAccepted
}

func (m *mockBatchQueue) Enqueue(ctx context.Context, evt event.BatchAccepted) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, evt)
	}
	m.enqueued = append(m.enqueued, evt)
	return nil
}

type mockStatusRepository struct {
	saveFunc     func(ctx context.Context, status model.BatchStatus) error
	findByIDFunc func(ctx context.Context, batchID string) (model.BatchStatus, error)
	saved        []model.BatchStatus
}

func (m *mockStatusRepository) Save(ctx context.Context, status model.BatchStatus) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, status)
	}
	m.saved = append(m.saved, status)
	return nil
}

func (m *mockStatusRepository) FindByID(ctx context.Context, batchID string) (model.BatchStatus, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, batchID)
	}
	return model.BatchStatus{}, port.ErrBatchNotFound
}

type mockMetrics struct {
	mu          sync.Mutex
	simulations map[string]int
	batches     map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{simulations: map[string]int{}, batches: map[string]int{}}
}

func (m *mockMetrics) ObserveSimulation(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulations[outcome]++
}

func (m *mockMetrics) ObserveBatch(mode string, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[mode] += size
}

// inlineExecutor runs every task on the submitting goroutine.
type inlineExecutor struct{}

func (inlineExecutor) Submit(task func()) error {
	task()
	return nil
}

// closedExecutor rejects every task, like a pool after shutdown.
type closedExecutor struct{}

func (closedExecutor) Submit(func()) error { return errors.New("executor closed") }

// --- Fixtures ---

func newEngine() *service.SimulationEngine {
	return service.NewSimulationEngine(service.NewAgePolicy(), service.NewInterestRatePolicy(), testutil.FixedClock)
}

func newDispatcher() *service.BatchDispatcher {
	return service.NewBatchDispatcher(newEngine(), inlineExecutor{}, testutil.FixedClock)
}
