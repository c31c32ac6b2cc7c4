package service

import (
	"fmt"
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/model"
)

// ---------------------------------------------------------------------------
// SimulationEngine – computes one loan simulation
// ---------------------------------------------------------------------------

// SimulationEngine combines the age and rate policies with the amortization
// formula. It holds no mutable state and is safe for concurrent use.
type SimulationEngine struct {
	ages  *AgePolicy
	rates *InterestRatePolicy
	now   func() time.Time
}

// NewSimulationEngine creates an engine. A nil clock defaults to time.Now.
func NewSimulationEngine(ages *AgePolicy, rates *InterestRatePolicy, now func() time.Time) *SimulationEngine {
	if now == nil {
		now = time.Now
	}
	return &SimulationEngine{ages: ages, rates: rates, now: now}
}

// Simulate validates the client's age and computes the installment and
// totals. Age rule failures are returned as *model.BusinessRuleViolation.
func (e *SimulationEngine) Simulate(input model.SimulationInput) (model.SimulationResult, error) {
	age := e.ages.Age(input.BirthDate(), e.now())
	if err := e.ages.Validate(age); err != nil {
		return model.SimulationResult{}, err
	}

	rate := e.rates.RateForAge(age)

	amortization, err := model.Amortize(input.LoanAmount(), rate, input.LoanTermMonths())
	if err != nil {
		return model.SimulationResult{}, fmt.Errorf("amortize: %w", err)
	}

	return model.NewSimulationResult(input, age, rate, amortization), nil
}

// Schedule breaks a computed simulation down per month, starting from today.
func (e *SimulationEngine) Schedule(result model.SimulationResult) ([]model.AmortizationEntry, error) {
	return model.GenerateAmortizationSchedule(
		result.LoanAmount(),
		result.AnnualInterestRate(),
		result.LoanTermMonths(),
		model.CalendarDate(e.now()),
	)
}
