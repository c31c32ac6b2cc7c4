package dto_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

var today = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func validRequest() dto.SimulationRequest {
	birth, _ := dto.ParseDate("1990-05-15")
	return dto.SimulationRequest{
		LoanAmount:     ptr(fixedpoint.MustParse("10000.00")),
		BirthDate:      &birth,
		LoanTermMonths: ptr(12),
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr), "expected *dto.ValidationError, got %v", err)
	return verr.Fields
}

func TestSimulationRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validRequest().Validate(today))
	})

	tests := []struct {
		name   string
		mutate func(r *dto.SimulationRequest)
		field  string
		msg    string
	}{
		{"missing amount", func(r *dto.SimulationRequest) { r.LoanAmount = nil }, "loanAmount", "required"},
		{"amount too low", func(r *dto.SimulationRequest) { r.LoanAmount = ptr(fixedpoint.MustParse("999.99")) }, "loanAmount", "minimum"},
		{"amount too high", func(r *dto.SimulationRequest) { r.LoanAmount = ptr(fixedpoint.MustParse("1000000.01")) }, "loanAmount", "maximum"},
		{"too many decimals", func(r *dto.SimulationRequest) { r.LoanAmount = ptr(fixedpoint.MustParse("1500.125")) }, "loanAmount", "decimals"},
		{"missing birth date", func(r *dto.SimulationRequest) { r.BirthDate = nil }, "birthDate", "required"},
		{"birth date today", func(r *dto.SimulationRequest) { d := dto.NewDate(today); r.BirthDate = &d }, "birthDate", "past"},
		{"birth date in future", func(r *dto.SimulationRequest) { d := dto.NewDate(today.AddDate(1, 0, 0)); r.BirthDate = &d }, "birthDate", "past"},
		{"missing term", func(r *dto.SimulationRequest) { r.LoanTermMonths = nil }, "loanTermMonths", "required"},
		{"term too short", func(r *dto.SimulationRequest) { r.LoanTermMonths = ptr(5) }, "loanTermMonths", "minimum"},
		{"term too long", func(r *dto.SimulationRequest) { r.LoanTermMonths = ptr(361) }, "loanTermMonths", "maximum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)

			fields := fieldErrors(t, r.Validate(today))
			require.Contains(t, fields, tt.field)
			assert.Contains(t, fields[tt.field], tt.msg)
			assert.Len(t, fields, 1)
		})
	}
}

func TestSimulationRequest_Validate_Bounds(t *testing.T) {
	r := validRequest()
	r.LoanAmount = ptr(fixedpoint.MustParse("1000.00"))
	r.LoanTermMonths = ptr(dto.MinTermMonths)
	assert.NoError(t, r.Validate(today))

	r.LoanAmount = ptr(fixedpoint.MustParse("1000000.00"))
	r.LoanTermMonths = ptr(dto.MaxTermMonths)
	assert.NoError(t, r.Validate(today))
}

func TestSimulationRequest_Validate_CollectsAllFields(t *testing.T) {
	fields := fieldErrors(t, dto.SimulationRequest{}.Validate(today))
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "loanAmount")
	assert.Contains(t, fields, "birthDate")
	assert.Contains(t, fields, "loanTermMonths")
}

func TestBatchSimulationRequest_Validate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		fields := fieldErrors(t, dto.BatchSimulationRequest{}.Validate(today))
		assert.Contains(t, fields["simulations"], "at least one")
	})

	t.Run("oversized", func(t *testing.T) {
		req := dto.BatchSimulationRequest{Simulations: make([]dto.SimulationRequest, dto.MaxBatchSize+1)}
		fields := fieldErrors(t, req.Validate(today))
		assert.Contains(t, fields["simulations"], "10000")
		assert.Len(t, fields, 1)
	})

	t.Run("indexes entry fields", func(t *testing.T) {
		bad := validRequest()
		bad.LoanTermMonths = ptr(400)
		req := dto.BatchSimulationRequest{Simulations: []dto.SimulationRequest{validRequest(), validRequest(), bad}}

		fields := fieldErrors(t, req.Validate(today))
		assert.Equal(t, map[string]string{"simulations[2].loanTermMonths": "maximum term is 360 months (30 years)"}, fields)
	})

	t.Run("valid", func(t *testing.T) {
		req := dto.BatchSimulationRequest{Simulations: []dto.SimulationRequest{validRequest()}}
		assert.NoError(t, req.Validate(today))
	})
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &dto.ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}

func TestSimulationRequest_JSON(t *testing.T) {
	var req dto.SimulationRequest
	err := json.Unmarshal([]byte(`{"loanAmount": 10000.00, "birthDate": "1990-05-15", "loanTermMonths": 12, "includeSchedule": true}`), &req)
	require.NoError(t, err)

	require.NotNil(t, req.LoanAmount)
	assert.Equal(t, "10000.00", req.LoanAmount.String())
	assert.Equal(t, "1990-05-15", req.BirthDate.String())
	assert.Equal(t, 12, *req.LoanTermMonths)
	assert.True(t, req.IncludeSchedule)

	err = json.Unmarshal([]byte(`{"birthDate": "15/05/1990"}`), &req)
	assert.Error(t, err)
}

func TestSimulationResponse_JSONKeepsScale(t *testing.T) {
	in := dto.SimulationResponse{
		LoanAmount:         fixedpoint.MustParse("10000.00"),
		BirthDate:          dto.NewDate(time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)),
		ClientAge:          35,
		LoanTermMonths:     12,
		AnnualInterestRate: fixedpoint.MustParse("3.0"),
		MonthlyPayment:     fixedpoint.MustParse("846.94"),
		TotalAmount:        fixedpoint.MustParse("10163.28"),
		TotalInterest:      fixedpoint.MustParse("163.28"),
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"loanAmount": "10000.00",
		"birthDate": "1990-05-15",
		"clientAge": 35,
		"loanTermMonths": 12,
		"annualInterestRate": "3.0",
		"monthlyPayment": "846.94",
		"totalAmount": "10163.28",
		"totalInterest": "163.28"
	}`, string(data))

	var out dto.SimulationResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.AnnualInterestRate.Equal(in.AnnualInterestRate))
	assert.True(t, out.TotalInterest.Equal(in.TotalInterest))
	assert.Equal(t, in.BirthDate, out.BirthDate)
}
