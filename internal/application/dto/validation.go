package dto

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

// Structural limits for incoming requests.
const (
	MinTermMonths = 6
	MaxTermMonths = 360
	MaxBatchSize  = 10_000
	maxIntDigits  = 8
	maxFracDigits = 2
)

var (
	minLoanAmount = fixedpoint.MustParse("1000.00")
	maxLoanAmount = fixedpoint.MustParse("1000000.00")
)

// ValidationError collects every malformed or out-of-range field of a
// request, keyed by field path (for example "simulations[3].loanAmount").
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks the request against the structural limits. today is the
// reference for the past-date rule.
func (r SimulationRequest) Validate(today time.Time) error {
	var verr ValidationError
	r.validateInto(&verr, "", today)
	return verr.orNil()
}

func (r SimulationRequest) validateInto(verr *ValidationError, prefix string, today time.Time) {
	field := func(name string) string { return prefix + name }

	switch {
	case r.LoanAmount == nil:
		verr.add(field("loanAmount"), "loan amount is required")
	case r.LoanAmount.LessThan(minLoanAmount):
		verr.add(field("loanAmount"), "minimum loan amount is 1000.00")
	case r.LoanAmount.GreaterThan(maxLoanAmount):
		verr.add(field("loanAmount"), "maximum loan amount is 1000000.00")
	case !withinDigits(*r.LoanAmount):
		verr.add(field("loanAmount"),
			fmt.Sprintf("amount must have at most %d integer digits and %d decimals", maxIntDigits, maxFracDigits))
	}

	switch {
	case r.BirthDate == nil || r.BirthDate.IsZero():
		verr.add(field("birthDate"), "birth date is required")
	case !r.BirthDate.Time().Before(NewDate(today).Time()):
		verr.add(field("birthDate"), "birth date must be in the past")
	}

	switch {
	case r.LoanTermMonths == nil:
		verr.add(field("loanTermMonths"), "loan term is required")
	case *r.LoanTermMonths < MinTermMonths:
		verr.add(field("loanTermMonths"), fmt.Sprintf("minimum term is %d months", MinTermMonths))
	case *r.LoanTermMonths > MaxTermMonths:
		verr.add(field("loanTermMonths"), fmt.Sprintf("maximum term is %d months (30 years)", MaxTermMonths))
	}
}

// Validate checks the batch size and every entry, reporting entry fields
// with their index.
func (r BatchSimulationRequest) Validate(today time.Time) error {
	var verr ValidationError
	switch n := len(r.Simulations); {
	case n == 0:
		verr.add("simulations", "batch must contain at least one simulation")
	case n > MaxBatchSize:
		verr.add("simulations", "batch must not contain more than 10000 simulations")
	default:
		for i, s := range r.Simulations {
			s.validateInto(&verr, fmt.Sprintf("simulations[%d].", i), today)
		}
	}
	return verr.orNil()
}

func withinDigits(d fixedpoint.Decimal) bool {
	if d.Scale() > maxFracDigits {
		return false
	}
	intPart := strings.TrimPrefix(d.Rescale(0, fixedpoint.RoundDown).String(), "-")
	return len(intPart) <= maxIntDigits
}
