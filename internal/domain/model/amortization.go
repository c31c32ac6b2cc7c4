package model

import (
	"fmt"
	"time"

	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

const (
	// CalculationScale is the precision of every intermediate rate and factor.
	CalculationScale int32 = 10
	// MoneyScale is the precision of every monetary result (cents).
	MoneyScale int32 = 2
)

// monthsPerYearPercent converts an annual percentage into a monthly fraction.
var monthsPerYearPercent = fixedpoint.NewFromInt(1200)

// Amortization holds the figures of a fixed-installment ("Price system") loan.
type Amortization struct {
	MonthlyPayment fixedpoint.Decimal
	TotalAmount    fixedpoint.Decimal
	TotalInterest  fixedpoint.Decimal
}

// MonthlyRate converts an annual percentage rate into a monthly fraction at
// CalculationScale: 5.0 -> 5.0/1200 = 0.0041666667.
func MonthlyRate(annualRate fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	return annualRate.Div(monthsPerYearPercent, CalculationScale, fixedpoint.RoundHalfUp)
}

// MonthlyPayment computes the fixed installment
//
//	r       = annualRate / 1200
//	f       = (1 + r)^n            (rounded at every step)
//	payment = P * r * f / (f - 1)
//
// A zero rate splits the principal evenly. Principal, rate and term are
// expected to be validated by the caller.
func MonthlyPayment(principal, annualRate fixedpoint.Decimal, termMonths int) (fixedpoint.Decimal, error) {
	term := fixedpoint.NewFromInt(int64(termMonths))

	if annualRate.IsZero() {
		return principal.Div(term, MoneyScale, fixedpoint.RoundHalfUp)
	}

	monthlyRate, err := MonthlyRate(annualRate)
	if err != nil {
		return fixedpoint.Decimal{}, fmt.Errorf("monthly rate: %w", err)
	}

	factor, err := fixedpoint.IntegerPower(fixedpoint.One.Add(monthlyRate), termMonths, CalculationScale)
	if err != nil {
		return fixedpoint.Decimal{}, fmt.Errorf("compound factor: %w", err)
	}

	numerator := principal.Mul(monthlyRate).Mul(factor)
	denominator := factor.Sub(fixedpoint.One)

	payment, err := numerator.Div(denominator, MoneyScale, fixedpoint.RoundHalfUp)
	if err != nil {
		// f - 1 is zero only for a zero rate, which is handled above.
		return fixedpoint.Decimal{}, fmt.Errorf("monthly payment: %w", err)
	}
	return payment, nil
}

// TotalAmount is monthlyPayment * termMonths at MoneyScale.
func TotalAmount(monthlyPayment fixedpoint.Decimal, termMonths int) fixedpoint.Decimal {
	return monthlyPayment.Mul(fixedpoint.NewFromInt(int64(termMonths))).
		Rescale(MoneyScale, fixedpoint.RoundHalfUp)
}

// TotalInterest is totalAmount - principal at MoneyScale.
func TotalInterest(totalAmount, principal fixedpoint.Decimal) fixedpoint.Decimal {
	return totalAmount.Sub(principal).Rescale(MoneyScale, fixedpoint.RoundHalfUp)
}

// Amortize computes the installment and the derived totals in one call.
func Amortize(principal, annualRate fixedpoint.Decimal, termMonths int) (Amortization, error) {
	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return Amortization{}, err
	}
	total := TotalAmount(payment, termMonths)
	return Amortization{
		MonthlyPayment: payment,
		TotalAmount:    total,
		TotalInterest:  TotalInterest(total, principal),
	}, nil
}

// AmortizationEntry is one period of an amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        fixedpoint.Decimal
	Interest         fixedpoint.Decimal
	Total            fixedpoint.Decimal
	RemainingBalance fixedpoint.Decimal
	Period           int
}

// GenerateAmortizationSchedule breaks a fixed-installment loan down per
// period. Interest for a period is the open balance times the monthly rate,
// rounded half-up to cents; the last period takes whatever balance is left so
// the schedule always closes at exactly 0.00.
func GenerateAmortizationSchedule(
	principal, annualRate fixedpoint.Decimal,
	termMonths int,
	startDate time.Time,
) ([]AmortizationEntry, error) {
	if termMonths <= 0 || !principal.IsPositive() {
		return nil, nil
	}

	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return nil, err
	}

	monthlyRate := fixedpoint.Zero
	if !annualRate.IsZero() {
		if monthlyRate, err = MonthlyRate(annualRate); err != nil {
			return nil, err
		}
	}

	zero := fixedpoint.Zero.Rescale(MoneyScale, fixedpoint.RoundHalfUp)
	remaining := principal.Rescale(MoneyScale, fixedpoint.RoundHalfUp)
	schedule := make([]AmortizationEntry, 0, termMonths)

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRate).Rescale(MoneyScale, fixedpoint.RoundHalfUp)
		principalPart := payment.Sub(interest)

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = zero
		}

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
	}

	return schedule, nil
}
