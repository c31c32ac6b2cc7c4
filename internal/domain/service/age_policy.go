package service

import (
	"time"

	"github.com/bibbank/credit-simulator/internal/domain/model"
)

const (
	// MinimumAge is the youngest client allowed to simulate a loan.
	MinimumAge = 18
	// MaximumAge is the oldest plausible client age.
	MaximumAge = 120
)

// ---------------------------------------------------------------------------
// AgePolicy – domain service for client age rules
// ---------------------------------------------------------------------------

// AgePolicy derives a client's age and enforces the age limits.
type AgePolicy struct{}

// NewAgePolicy returns a new policy instance.
func NewAgePolicy() *AgePolicy {
	return &AgePolicy{}
}

// Age returns the whole years elapsed between birthDate and today. A client
// whose birthday falls today has already turned that age; one whose birthday
// is tomorrow has not.
func (p *AgePolicy) Age(birthDate, today time.Time) int {
	by, bm, bd := birthDate.Date()
	ty, tm, td := today.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}

// Validate rejects ages below MinimumAge and above MaximumAge with a
// *model.BusinessRuleViolation on the birthDate field.
func (p *AgePolicy) Validate(age int) error {
	switch {
	case age < MinimumAge:
		return model.MinimumAgeViolation(age, MinimumAge)
	case age > MaximumAge:
		return model.InvalidAgeViolation(age)
	default:
		return nil
	}
}
