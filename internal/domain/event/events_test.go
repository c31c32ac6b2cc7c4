package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-simulator/internal/domain/event"
	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

func TestNewBatchAccepted(t *testing.T) {
	in, err := model.NewSimulationInput(fixedpoint.MustParse("10000.50"), time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC), 24)
	require.NoError(t, err)

	sims := make([]model.SimulationInput, 101)
	for i := range sims {
		sims[i] = in
	}
	first, err := model.NewSimulationInput(fixedpoint.MustParse("500.00"), time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)
	sims[0] = first
	batch, err := model.NewBatchInput("batch-42", sims)
	require.NoError(t, err)

	acceptedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	evt := event.NewBatchAccepted(batch, model.NewAcceptanceRecord(batch, acceptedAt))

	assert.Equal(t, event.BatchAcceptedType, evt.EventType())
	assert.Equal(t, "batch-42", evt.AggregateID())
	assert.Equal(t, "Batch", evt.AggregateType())
	assert.NotEmpty(t, evt.EventID())
	assert.Equal(t, 101, evt.TotalSimulations)
	require.Len(t, evt.Simulations, 101)
	assert.Equal(t, 12, evt.Simulations[0].LoanTermMonths)
	assert.Equal(t, 24, evt.Simulations[100].LoanTermMonths)

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var parsed struct {
		EventType   string `json:"event_type"`
		BatchID     string `json:"batch_id"`
		Simulations []struct {
			LoanAmount     string `json:"loan_amount"`
			BirthDate      string `json:"birth_date"`
			LoanTermMonths int    `json:"loan_term_months"`
		} `json:"simulations"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, event.BatchAcceptedType, parsed.EventType)
	assert.Equal(t, "batch-42", parsed.BatchID)
	assert.Equal(t, "10000.50", parsed.Simulations[1].LoanAmount)
	assert.Equal(t, "1990-05-15", parsed.Simulations[1].BirthDate)
	assert.Equal(t, 24, parsed.Simulations[1].LoanTermMonths)
}
