package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/valueobject"
	"github.com/bibbank/credit-simulator/internal/infrastructure/persistence/memory"
)

var _ port.BatchStatusRepository = (*memory.BatchStatusRepo)(nil)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestBatchStatusRepo_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	repo := memory.NewBatchStatusRepo(time.Hour, clk.now)

	status := model.BatchStatus{
		BatchID: "b-1", State: valueobject.BatchStateCompleted, Message: "batch processed synchronously",
		Progress: 100, TotalSimulations: 3, ProcessedSimulations: 3, LastUpdate: clk.t,
	}
	require.NoError(t, repo.Save(ctx, status))

	got, err := repo.FindByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, status, got)
}

func TestBatchStatusRepo_UnknownID(t *testing.T) {
	repo := memory.NewBatchStatusRepo(time.Hour, nil)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, port.ErrBatchNotFound)
}

func TestBatchStatusRepo_Overwrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBatchStatusRepo(time.Hour, nil)

	require.NoError(t, repo.Save(ctx, model.BatchStatus{BatchID: "b-1", Message: "first"}))
	require.NoError(t, repo.Save(ctx, model.BatchStatus{BatchID: "b-1", Message: "second"}))

	got, err := repo.FindByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Message)
	assert.Equal(t, 1, repo.Len())
}

func TestBatchStatusRepo_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	repo := memory.NewBatchStatusRepo(time.Hour, clk.now)

	require.NoError(t, repo.Save(ctx, model.BatchStatus{BatchID: "old"}))

	clk.t = clk.t.Add(time.Hour)
	_, err := repo.FindByID(ctx, "old")
	assert.ErrorIs(t, err, port.ErrBatchNotFound)

	require.NoError(t, repo.Save(ctx, model.BatchStatus{BatchID: "new"}))
	assert.Equal(t, 1, repo.Len())
}

func TestBatchStatusRepo_RejectsEmptyID(t *testing.T) {
	repo := memory.NewBatchStatusRepo(time.Hour, nil)
	assert.Error(t, repo.Save(context.Background(), model.BatchStatus{}))
}
