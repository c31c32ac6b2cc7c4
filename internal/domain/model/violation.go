package model

import "fmt"

// BusinessRuleViolation is a rejected business rule. Field and RejectedValue
// are optional: a violation that is not tied to a single input leaves Field
// empty.
type BusinessRuleViolation struct {
	Field         string
	RejectedValue any
	Message       string
}

// NewBusinessRuleViolation creates a violation tied to a field.
func NewBusinessRuleViolation(field string, rejected any, message string) *BusinessRuleViolation {
	return &BusinessRuleViolation{Field: field, RejectedValue: rejected, Message: message}
}

func (v *BusinessRuleViolation) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s (rejected value: %v)", v.Field, v.Message, v.RejectedValue)
}

// MinimumAgeViolation rejects a client younger than minAge.
func MinimumAgeViolation(age, minAge int) *BusinessRuleViolation {
	return NewBusinessRuleViolation("birthDate", age,
		fmt.Sprintf("client must be at least %d years old, current age: %d", minAge, age))
}

// InvalidAgeViolation rejects an implausible age.
func InvalidAgeViolation(age int) *BusinessRuleViolation {
	return NewBusinessRuleViolation("birthDate", age,
		"invalid age, please check the birth date")
}
