// Package memory holds the in-process batch status store used when no
// external store is configured.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
)

type entry struct {
	status    model.BatchStatus
	expiresAt time.Time
}

// BatchStatusRepo implements port.BatchStatusRepository in memory. Entries
// expire ttl after their last Save; expired entries are dropped lazily.
type BatchStatusRepo struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewBatchStatusRepo creates a store. A nil clock means time.Now.
func NewBatchStatusRepo(ttl time.Duration, now func() time.Time) *BatchStatusRepo {
	if now == nil {
		now = time.Now
	}
	return &BatchStatusRepo{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

func (r *BatchStatusRepo) Save(_ context.Context, status model.BatchStatus) error {
	if status.BatchID == "" {
		return errors.New("batch status without batch id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictExpired(now)
	r.entries[status.BatchID] = entry{status: status, expiresAt: now.Add(r.ttl)}
	return nil
}

func (r *BatchStatusRepo) FindByID(_ context.Context, batchID string) (model.BatchStatus, error) {
	r.mu.RLock()
	e, ok := r.entries[batchID]
	r.mu.RUnlock()

	if !ok || !r.now().Before(e.expiresAt) {
		return model.BatchStatus{}, port.ErrBatchNotFound
	}
	return e.status, nil
}

// Len returns the number of stored entries, expired ones included.
func (r *BatchStatusRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *BatchStatusRepo) evictExpired(now time.Time) {
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
		}
	}
}
