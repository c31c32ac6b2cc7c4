package model_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/valueobject"
)

func validInput(t *testing.T) model.SimulationInput {
	t.Helper()
	in, err := model.NewSimulationInput(dec("10000.00"), time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)
	return in
}

func inputs(t *testing.T, n int) []model.SimulationInput {
	t.Helper()
	out := make([]model.SimulationInput, n)
	for i := range out {
		out[i] = validInput(t)
	}
	return out
}

func TestNewSimulationInput(t *testing.T) {
	t.Run("normalises birth date and amount", func(t *testing.T) {
		birth := time.Date(1990, 5, 15, 13, 45, 0, 0, time.FixedZone("BRT", -3*3600))
		in, err := model.NewSimulationInput(dec("10000"), birth, 24)
		require.NoError(t, err)

		assert.Equal(t, time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC), in.BirthDate())
		assert.Equal(t, "10000.00", in.LoanAmount().String())
		assert.Equal(t, 24, in.LoanTermMonths())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := model.NewSimulationInput(dec("0.00"), time.Now(), 12)
		assert.Error(t, err)
	})

	t.Run("rejects zero birth date", func(t *testing.T) {
		_, err := model.NewSimulationInput(dec("1000.00"), time.Time{}, 12)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive term", func(t *testing.T) {
		_, err := model.NewSimulationInput(dec("1000.00"), time.Now(), 0)
		assert.Error(t, err)
	})
}

func TestNewSimulationResult_PinsScales(t *testing.T) {
	in := validInput(t)
	r := model.NewSimulationResult(in, 35, dec("3"), model.Amortization{
		MonthlyPayment: dec("856.07"),
		TotalAmount:    dec("10272.84"),
		TotalInterest:  dec("272.84"),
	})

	assert.Equal(t, "3.0", r.AnnualInterestRate().String())
	assert.Equal(t, "856.07", r.MonthlyPayment().String())
	assert.Equal(t, 35, r.ClientAge())
	assert.Equal(t, in, r.Input())
	assert.Equal(t, in.LoanAmount(), r.LoanAmount())
	assert.Equal(t, in.BirthDate(), r.BirthDate())
	assert.Equal(t, in.LoanTermMonths(), r.LoanTermMonths())
}

func TestNewBatchInput(t *testing.T) {
	t.Run("generates id when empty", func(t *testing.T) {
		b, err := model.NewBatchInput("", inputs(t, 2))
		require.NoError(t, err)

		_, parseErr := uuid.Parse(b.ID())
		assert.NoError(t, parseErr)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		b, err := model.NewBatchInput("batch-001", inputs(t, 2))
		require.NoError(t, err)
		assert.Equal(t, "batch-001", b.ID())
	})

	t.Run("derives out-of-band flag from length", func(t *testing.T) {
		tests := []struct {
			n    int
			want bool
		}{
			{1, false},
			{model.OutOfBandThreshold, false},
			{model.OutOfBandThreshold + 1, true},
			{model.MaxBatchSize, true},
		}
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%d entries", tt.n), func(t *testing.T) {
				b, err := model.NewBatchInput("", inputs(t, tt.n))
				require.NoError(t, err)
				assert.Equal(t, tt.want, b.RequiresOutOfBandProcessing())
				assert.Equal(t, tt.n, b.Len())
			})
		}
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := model.NewBatchInput("", nil)
		assert.Error(t, err)
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		_, err := model.NewBatchInput("", inputs(t, model.MaxBatchSize+1))
		assert.Error(t, err)
	})

	t.Run("copies the simulations", func(t *testing.T) {
		src := inputs(t, 2)
		b, err := model.NewBatchInput("", src)
		require.NoError(t, err)

		other, err := model.NewSimulationInput(dec("5000.00"), time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), 6)
		require.NoError(t, err)
		src[0] = other

		assert.Equal(t, "10000.00", b.At(0).LoanAmount().String())

		got := b.Simulations()
		got[1] = other
		assert.Equal(t, "10000.00", b.At(1).LoanAmount().String())
	})
}

func TestBatchOutcome(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	b, err := model.NewBatchInput("big", inputs(t, 150))
	require.NoError(t, err)

	t.Run("accepted", func(t *testing.T) {
		o := model.AcceptedOutcome(model.NewAcceptanceRecord(b, now))
		require.True(t, o.IsAccepted())
		assert.Nil(t, o.Results())

		rec, ok := o.Acceptance()
		require.True(t, ok)
		assert.Equal(t, "big", rec.BatchID)
		assert.Equal(t, 150, rec.TotalSimulations)
		assert.Equal(t, valueobject.BatchStateAccepted, rec.Status)
		assert.Equal(t, now, rec.AcceptedAt)
	})

	t.Run("completed", func(t *testing.T) {
		o := model.CompletedOutcome(nil)
		assert.False(t, o.IsAccepted())
		assert.NotNil(t, o.Results())
		assert.Empty(t, o.Results())

		_, ok := o.Acceptance()
		assert.False(t, ok)
	})
}

func TestBatchStatusLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(time.Second)

	small, err := model.NewBatchInput("b1", inputs(t, 2))
	require.NoError(t, err)

	received := model.ReceivedBatchStatus(small, now)
	assert.Equal(t, valueobject.BatchStateReceived, received.State)
	assert.Equal(t, 2, received.TotalSimulations)
	assert.Zero(t, received.Progress)

	t.Run("computing then completed", func(t *testing.T) {
		computing, err := received.Computing(now)
		require.NoError(t, err)
		assert.Equal(t, valueobject.BatchStateComputing, computing.State)

		done, err := computing.Completed(later)
		require.NoError(t, err)
		assert.Equal(t, valueobject.BatchStateCompleted, done.State)
		assert.Equal(t, 100, done.Progress)
		assert.Equal(t, 2, done.ProcessedSimulations)
		assert.Equal(t, later, done.LastUpdate)
	})

	t.Run("computing then failed", func(t *testing.T) {
		computing, err := received.Computing(now)
		require.NoError(t, err)

		failed, err := computing.Failed("batch rejected", later)
		require.NoError(t, err)
		assert.Equal(t, valueobject.BatchStateFailed, failed.State)
		assert.Equal(t, "batch rejected", failed.Message)
		assert.Equal(t, 2, failed.ProcessedSimulations)
		assert.True(t, failed.State.IsTerminal())
	})

	t.Run("accepted", func(t *testing.T) {
		big, err := model.NewBatchInput("b2", inputs(t, 101))
		require.NoError(t, err)

		acc, err := model.ReceivedBatchStatus(big, now).Accepted(model.NewAcceptanceRecord(big, later))
		require.NoError(t, err)
		assert.Equal(t, valueobject.BatchStateAccepted, acc.State)
		assert.Equal(t, model.AcceptanceMessage, acc.Message)
		assert.Equal(t, 0, acc.Progress)
		assert.Equal(t, 101, acc.TotalSimulations)
		assert.Equal(t, later, acc.LastUpdate)
	})

	t.Run("rejects illegal transitions", func(t *testing.T) {
		_, err := received.Completed(now)
		assert.Error(t, err)

		_, err = received.Failed("x", now)
		assert.Error(t, err)

		computing, err := received.Computing(now)
		require.NoError(t, err)
		_, err = computing.Accepted(model.NewAcceptanceRecord(small, now))
		assert.Error(t, err)

		done, err := computing.Completed(now)
		require.NoError(t, err)
		_, err = done.Failed("late", now)
		assert.ErrorContains(t, err, "already completed")

		unchanged, err := done.Computing(later)
		assert.Error(t, err)
		assert.Equal(t, done, unchanged)
	})
}

func TestBusinessRuleViolation(t *testing.T) {
	var err error = model.MinimumAgeViolation(17, 18)

	var v *model.BusinessRuleViolation
	require.True(t, errors.As(fmt.Errorf("simulate: %w", err), &v))
	assert.Equal(t, "birthDate", v.Field)
	assert.Equal(t, 17, v.RejectedValue)
	assert.Contains(t, v.Message, "at least 18")

	invalid := model.InvalidAgeViolation(121)
	assert.Contains(t, invalid.Message, "invalid age")
	assert.Contains(t, invalid.Error(), "birthDate")

	bare := &model.BusinessRuleViolation{Message: "no field"}
	assert.Equal(t, "no field", bare.Error())
}
