package model

import (
	"errors"
	"time"

	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

// RateScale is the number of fractional digits of an annual interest rate.
const RateScale int32 = 1

// ---------------------------------------------------------------------------
// SimulationInput value object
// ---------------------------------------------------------------------------

// SimulationInput is one loan simulation request. It is immutable; range and
// format checks happen at the transport edge before construction.
type SimulationInput struct {
	loanAmount     fixedpoint.Decimal
	birthDate      time.Time
	loanTermMonths int
}

// NewSimulationInput builds an input, normalising the birth date to a
// calendar date (midnight UTC) and the amount to cents.
func NewSimulationInput(loanAmount fixedpoint.Decimal, birthDate time.Time, loanTermMonths int) (SimulationInput, error) {
	if !loanAmount.IsPositive() {
		return SimulationInput{}, errors.New("loan amount must be positive")
	}
	if birthDate.IsZero() {
		return SimulationInput{}, errors.New("birth date is required")
	}
	if loanTermMonths <= 0 {
		return SimulationInput{}, errors.New("loan term must be positive")
	}
	return SimulationInput{
		loanAmount:     loanAmount.Rescale(MoneyScale, fixedpoint.RoundHalfUp),
		birthDate:      CalendarDate(birthDate),
		loanTermMonths: loanTermMonths,
	}, nil
}

func (s SimulationInput) LoanAmount() fixedpoint.Decimal { return s.loanAmount }
func (s SimulationInput) BirthDate() time.Time           { return s.birthDate }
func (s SimulationInput) LoanTermMonths() int            { return s.loanTermMonths }

// CalendarDate drops the clock part of t, keeping its year, month and day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// SimulationResult value object
// ---------------------------------------------------------------------------

// SimulationResult echoes the input and carries the derived figures. Money
// values have scale 2 and the rate has scale 1.
type SimulationResult struct {
	input              SimulationInput
	clientAge          int
	annualInterestRate fixedpoint.Decimal
	monthlyPayment     fixedpoint.Decimal
	totalAmount        fixedpoint.Decimal
	totalInterest      fixedpoint.Decimal
}

// NewSimulationResult assembles a result, pinning every decimal to its
// published scale.
func NewSimulationResult(input SimulationInput, clientAge int, annualRate fixedpoint.Decimal, a Amortization) SimulationResult {
	return SimulationResult{
		input:              input,
		clientAge:          clientAge,
		annualInterestRate: annualRate.Rescale(RateScale, fixedpoint.RoundHalfUp),
		monthlyPayment:     a.MonthlyPayment.Rescale(MoneyScale, fixedpoint.RoundHalfUp),
		totalAmount:        a.TotalAmount.Rescale(MoneyScale, fixedpoint.RoundHalfUp),
		totalInterest:      a.TotalInterest.Rescale(MoneyScale, fixedpoint.RoundHalfUp),
	}
}

func (r SimulationResult) Input() SimulationInput                 { return r.input }
func (r SimulationResult) LoanAmount() fixedpoint.Decimal         { return r.input.loanAmount }
func (r SimulationResult) BirthDate() time.Time                   { return r.input.birthDate }
func (r SimulationResult) LoanTermMonths() int                    { return r.input.loanTermMonths }
func (r SimulationResult) ClientAge() int                         { return r.clientAge }
func (r SimulationResult) AnnualInterestRate() fixedpoint.Decimal { return r.annualInterestRate }
func (r SimulationResult) MonthlyPayment() fixedpoint.Decimal     { return r.monthlyPayment }
func (r SimulationResult) TotalAmount() fixedpoint.Decimal        { return r.totalAmount }
func (r SimulationResult) TotalInterest() fixedpoint.Decimal      { return r.totalInterest }
