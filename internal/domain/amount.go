package domain

import (
	"bytes"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value held as an integer number of cents.
type Amount int64

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

const (
	// MinAmount is the smallest amount the factory produces (1.00).
	MinAmount Amount = 1_00
	// MaxAmount is the largest amount the factory produces (10000.00).
	MaxAmount Amount = 10_000_00
)

// AmountFromDecimal converts d to cents. Values with more than two fractional
// digits are rejected rather than rounded, as are values whose cents do not
// fit in an int64.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two fractional digits", d.String())
	}
	if cents.LessThan(minCents) || cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return Amount(cents.IntPart()), nil
}

// ParseAmount parses decimal text such as "899.99".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return AmountFromDecimal(d)
}

// Cents returns the raw integer value.
func (a Amount) Cents() int64 { return int64(a) }

// Decimal returns the amount in currency units.
func (a Amount) Decimal() decimal.Decimal { return decimal.New(int64(a), -2) }

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string { return a.Decimal().StringFixed(2) }

// MarshalJSON writes the amount as a bare JSON number, e.g. 900.00.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}
	v, err := AmountFromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
