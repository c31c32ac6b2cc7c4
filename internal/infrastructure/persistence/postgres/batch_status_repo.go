package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/credit-simulator/pkg/postgres"
)

// BatchStatusRepo implements port.BatchStatusRepository.
type BatchStatusRepo struct {
	db  pkgpostgres.Querier
	ttl time.Duration
	now func() time.Time
}

// NewBatchStatusRepo creates a PostgreSQL-backed batch status repository.
// Rows are hidden once they are older than ttl and removed by PurgeExpired.
func NewBatchStatusRepo(db pkgpostgres.Querier, ttl time.Duration, now func() time.Time) *BatchStatusRepo {
	if now == nil {
		now = time.Now
	}
	return &BatchStatusRepo{db: db, ttl: ttl, now: now}
}

// Save upserts the latest snapshot for the batch.
func (r *BatchStatusRepo) Save(ctx context.Context, status model.BatchStatus) error {
	query := `
		INSERT INTO batch_statuses (
			batch_id, state, message, progress,
			total_simulations, processed_simulations,
			last_update, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (batch_id) DO UPDATE SET
			state                 = EXCLUDED.state,
			message               = EXCLUDED.message,
			progress              = EXCLUDED.progress,
			total_simulations     = EXCLUDED.total_simulations,
			processed_simulations = EXCLUDED.processed_simulations,
			last_update           = EXCLUDED.last_update,
			expires_at            = EXCLUDED.expires_at
	`
	_, err := r.db.Exec(ctx, query,
		status.BatchID, status.State.String(), status.Message, status.Progress,
		status.TotalSimulations, status.ProcessedSimulations,
		status.LastUpdate, r.now().Add(r.ttl),
	)
	if err != nil {
		return fmt.Errorf("save batch status %s: %w", status.BatchID, err)
	}
	return nil
}

// FindByID returns the snapshot for batchID unless it is missing or expired.
func (r *BatchStatusRepo) FindByID(ctx context.Context, batchID string) (model.BatchStatus, error) {
	query := `
		SELECT batch_id, state, message, progress,
		       total_simulations, processed_simulations, last_update
		FROM batch_statuses
		WHERE batch_id = $1 AND expires_at > $2
	`
	var (
		status model.BatchStatus
		state  string
	)
	err := r.db.QueryRow(ctx, query, batchID, r.now()).Scan(
		&status.BatchID, &state, &status.Message, &status.Progress,
		&status.TotalSimulations, &status.ProcessedSimulations, &status.LastUpdate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BatchStatus{}, port.ErrBatchNotFound
	}
	if err != nil {
		return model.BatchStatus{}, fmt.Errorf("find batch status %s: %w", batchID, err)
	}

	status.State, err = valueobject.NewBatchState(state)
	if err != nil {
		return model.BatchStatus{}, fmt.Errorf("batch status %s: %w", batchID, err)
	}
	return status, nil
}

// PurgeExpired deletes expired rows and reports how many were removed.
func (r *BatchStatusRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM batch_statuses WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("purge batch statuses: %w", err)
	}
	return tag.RowsAffected(), nil
}
