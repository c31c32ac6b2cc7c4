// Package redis stores batch status snapshots in Redis so that every replica
// of the service answers status lookups consistently.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/valueobject"
)

const keyPrefix = "credit-simulator:batch-status:"

// Client is the subset of go-redis used by the repository.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// BatchStatusRepo implements port.BatchStatusRepository on Redis strings
// holding JSON, each with a TTL.
type BatchStatusRepo struct {
	client Client
	ttl    time.Duration
}

// NewClient opens a go-redis client for addr.
func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewBatchStatusRepo creates a Redis-backed repository.
func NewBatchStatusRepo(client Client, ttl time.Duration) *BatchStatusRepo {
	return &BatchStatusRepo{client: client, ttl: ttl}
}

type statusRecord struct {
	BatchID              string    `json:"batch_id"`
	State                string    `json:"state"`
	Message              string    `json:"message"`
	Progress             int       `json:"progress"`
	TotalSimulations     int       `json:"total_simulations"`
	ProcessedSimulations int       `json:"processed_simulations"`
	LastUpdate           time.Time `json:"last_update"`
}

func (r *BatchStatusRepo) Save(ctx context.Context, status model.BatchStatus) error {
	payload, err := json.Marshal(statusRecord{
		BatchID:              status.BatchID,
		State:                status.State.String(),
		Message:              status.Message,
		Progress:             status.Progress,
		TotalSimulations:     status.TotalSimulations,
		ProcessedSimulations: status.ProcessedSimulations,
		LastUpdate:           status.LastUpdate.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal batch status %s: %w", status.BatchID, err)
	}

	if err := r.client.Set(ctx, keyPrefix+status.BatchID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set batch status %s: %w", status.BatchID, err)
	}
	return nil
}

func (r *BatchStatusRepo) FindByID(ctx context.Context, batchID string) (model.BatchStatus, error) {
	raw, err := r.client.Get(ctx, keyPrefix+batchID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.BatchStatus{}, port.ErrBatchNotFound
	}
	if err != nil {
		return model.BatchStatus{}, fmt.Errorf("redis get batch status %s: %w", batchID, err)
	}

	var rec statusRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.BatchStatus{}, fmt.Errorf("unmarshal batch status %s: %w", batchID, err)
	}

	state, err := valueobject.NewBatchState(rec.State)
	if err != nil {
		return model.BatchStatus{}, fmt.Errorf("batch status %s: %w", batchID, err)
	}

	return model.BatchStatus{
		BatchID:              rec.BatchID,
		State:                state,
		Message:              rec.Message,
		Progress:             rec.Progress,
		TotalSimulations:     rec.TotalSimulations,
		ProcessedSimulations: rec.ProcessedSimulations,
		LastUpdate:           rec.LastUpdate,
	}, nil
}
