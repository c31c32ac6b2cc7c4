package service

import "github.com/bibbank/credit-simulator/pkg/fixedpoint"

// ---------------------------------------------------------------------------
// InterestRatePolicy – domain service mapping age to annual rate
// ---------------------------------------------------------------------------

type rateBand struct {
	rate   fixedpoint.Decimal
	maxAge int
}

// InterestRatePolicy maps a client age to an annual percentage rate.
//
// Bands (upper bound inclusive):
//
//	age <= 25  -> 5.0%
//	age <= 40  -> 3.0%
//	age <= 60  -> 2.0%
//	age >  60  -> 4.0%
type InterestRatePolicy struct {
	bands    []rateBand
	fallback fixedpoint.Decimal
}

// NewInterestRatePolicy returns the standard age-band policy.
func NewInterestRatePolicy() *InterestRatePolicy {
	return &InterestRatePolicy{
		bands: []rateBand{
			{maxAge: 25, rate: fixedpoint.MustParse("5.0")},
			{maxAge: 40, rate: fixedpoint.MustParse("3.0")},
			{maxAge: 60, rate: fixedpoint.MustParse("2.0")},
		},
		fallback: fixedpoint.MustParse("4.0"),
	}
}

// RateForAge returns the annual rate for age. It is defined for every age.
func (p *InterestRatePolicy) RateForAge(age int) fixedpoint.Decimal {
	for _, b := range p.bands {
		if age <= b.maxAge {
			return b.rate
		}
	}
	return p.fallback
}
