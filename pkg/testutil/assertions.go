package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertDecimal compares a decimal by its canonical string, so scale counts:
// "3.0" and "3.00" differ.
func AssertDecimal(t *testing.T, expected string, actual fixedpoint.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, actual.String(), msgAndArgs...)
}
