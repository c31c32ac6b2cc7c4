// Package fixedpoint provides an exact base-10 fixed-point number with an
// explicit scale. Values never pass through binary floating point.
package fixedpoint

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	// ErrNegativeExponent is returned by IntegerPower for exponents below zero.
	ErrNegativeExponent = errors.New("fixedpoint: negative exponent")
	// ErrNegativeScale is returned when a negative target scale is requested.
	ErrNegativeScale = errors.New("fixedpoint: negative scale")
)

// RoundingMode selects how digits beyond the target scale are discarded.
type RoundingMode int

const (
	// RoundHalfUp rounds ties away from zero (1.005 -> 1.01, -1.005 -> -1.01).
	RoundHalfUp RoundingMode = iota
	// RoundDown truncates toward zero.
	RoundDown
)

func (m RoundingMode) String() string {
	switch m {
	case RoundHalfUp:
		return "HALF_UP"
	case RoundDown:
		return "DOWN"
	default:
		return fmt.Sprintf("RoundingMode(%d)", int(m))
	}
}

// Decimal is an immutable fixed-point number: an exact magnitude plus the
// number of fractional digits it carries. The zero value is 0 at scale 0.
type Decimal struct {
	value decimal.Decimal
	scale int32
}

// Common values.
var (
	Zero = Decimal{value: decimal.Zero}
	One  = Decimal{value: decimal.NewFromInt(1)}
)

// New creates a Decimal from an unscaled integer and a scale, so that
// New(85607, 2) is 856.07.
func New(unscaled int64, scale int32) Decimal {
	if scale < 0 {
		return Decimal{value: decimal.New(unscaled, -scale)}
	}
	return Decimal{value: decimal.New(unscaled, -scale), scale: scale}
}

// NewFromInt creates a Decimal with scale 0.
func NewFromInt(i int64) Decimal {
	return Decimal{value: decimal.NewFromInt(i)}
}

// NewFromString parses a plain or exponent-notation decimal. The scale is the
// number of fractional digits as written: "5.0" has scale 1, "1000.00" scale 2.
func NewFromString(s string) (Decimal, error) {
	if s == "" {
		return Decimal{}, errors.New("fixedpoint: empty string")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("fixedpoint: parse %q: %w", s, err)
	}
	return fromShopspring(d), nil
}

// MustParse is NewFromString that panics on error. Intended for constants and
// package-level variables.
func MustParse(s string) Decimal {
	d, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fromShopspring(d decimal.Decimal) Decimal {
	var scale int32
	if exp := d.Exponent(); exp < 0 {
		scale = -exp
	}
	return Decimal{value: d, scale: scale}
}

// Scale returns the number of fractional digits.
func (d Decimal) Scale() int32 { return d.scale }

// Sign returns -1, 0 or 1.
func (d Decimal) Sign() int { return d.value.Sign() }

// IsZero reports whether the value is numerically zero.
func (d Decimal) IsZero() bool { return d.value.IsZero() }

// IsPositive reports whether the value is strictly greater than zero.
func (d Decimal) IsPositive() bool { return d.value.IsPositive() }

// IsNegative reports whether the value is strictly less than zero.
func (d Decimal) IsNegative() bool { return d.value.IsNegative() }

// Cmp compares numerically, ignoring scale: 1.0 and 1.00 compare equal.
func (d Decimal) Cmp(o Decimal) int { return d.value.Cmp(o.value) }

// Equal reports numeric and scale equality, so 1.0 and 1.00 are not Equal.
func (d Decimal) Equal(o Decimal) bool {
	return d.scale == o.scale && d.value.Equal(o.value)
}

// GreaterThan is a numeric comparison.
func (d Decimal) GreaterThan(o Decimal) bool { return d.value.GreaterThan(o.value) }

// LessThan is a numeric comparison.
func (d Decimal) LessThan(o Decimal) bool { return d.value.LessThan(o.value) }

// Add returns d + o at scale max(d.scale, o.scale).
func (d Decimal) Add(o Decimal) Decimal {
	return Decimal{value: d.value.Add(o.value), scale: max(d.scale, o.scale)}
}

// Sub returns d - o at scale max(d.scale, o.scale).
func (d Decimal) Sub(o Decimal) Decimal {
	return Decimal{value: d.value.Sub(o.value), scale: max(d.scale, o.scale)}
}

// Mul returns the exact product at scale d.scale + o.scale. It never rounds;
// callers Rescale explicitly.
func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{value: d.value.Mul(o.value), scale: d.scale + o.scale}
}

// Div returns d / o rounded to scale fractional digits.
func (d Decimal) Div(o Decimal, scale int32, mode RoundingMode) (Decimal, error) {
	if o.IsZero() {
		return Decimal{}, ErrDivisionByZero
	}
	if scale < 0 {
		return Decimal{}, ErrNegativeScale
	}
	var q decimal.Decimal
	switch mode {
	case RoundDown:
		q, _ = d.value.QuoRem(o.value, scale)
	default:
		q = d.value.DivRound(o.value, scale)
	}
	return Decimal{value: q, scale: scale}, nil
}

// Rescale returns d with exactly scale fractional digits, rounding when digits
// are dropped and padding with zeros otherwise. A negative scale is treated
// as zero.
func (d Decimal) Rescale(scale int32, mode RoundingMode) Decimal {
	if scale < 0 {
		scale = 0
	}
	if scale >= d.scale {
		return Decimal{value: d.value, scale: scale}
	}
	switch mode {
	case RoundDown:
		return Decimal{value: d.value.Truncate(scale), scale: scale}
	default:
		return Decimal{value: d.value.Round(scale), scale: scale}
	}
}

// Neg returns -d at the same scale.
func (d Decimal) Neg() Decimal {
	return Decimal{value: d.value.Neg(), scale: d.scale}
}

// Unscaled returns the integer magnitude such that d == Unscaled * 10^-Scale.
func (d Decimal) Unscaled() string {
	return d.value.Shift(d.scale).Truncate(0).String()
}

// String renders the value with exactly Scale fractional digits.
func (d Decimal) String() string {
	return d.value.StringFixed(d.scale)
}

// IntegerPower computes base^exponent by repeated multiplication, rescaling
// to scale with half-up rounding after every step. The per-step rounding is
// part of the result: deferring it to the end yields different last digits on
// long terms. An exponent of 0 returns exactly 1 for every base, including 0.
func IntegerPower(base Decimal, exponent int, scale int32) (Decimal, error) {
	if exponent < 0 {
		return Decimal{}, ErrNegativeExponent
	}
	if scale < 0 {
		return Decimal{}, ErrNegativeScale
	}
	if exponent == 0 {
		return One, nil
	}

	result := One
	for i := 0; i < exponent; i++ {
		result = result.Mul(base).Rescale(scale, RoundHalfUp)
	}
	return result, nil
}

// MarshalJSON encodes the value as a quoted string with its full scale.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted string or a bare JSON number and keeps the
// scale exactly as written.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	str := string(bytes.Trim(data, `"`))
	parsed, err := NewFromString(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(text []byte) error {
	parsed, err := NewFromString(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
