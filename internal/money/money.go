// Package money provides the fixed-point monetary value used by every snapshot field.
// Values are backed by shopspring/decimal so repeated accumulation never drifts the way
// binary floating point would.
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is an exact monetary amount. The zero value is a valid zero amount.
type Money struct {
	amount decimal.Decimal
}

// New wraps a raw decimal amount.
func New(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// FromInt creates Money from a whole amount.
func FromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// FromString parses a decimal string such as "1234.56".
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid monetary amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParse is FromString for constants and tests. It panics on malformed input.
func MustParse(s string) Money {
	return Money{amount: decimal.RequireFromString(s)}
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// Amount returns the underlying raw value.
func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Add(n Money) Money                { return Money{amount: m.amount.Add(n.amount)} }
func (m Money) Sub(n Money) Money                { return Money{amount: m.amount.Sub(n.amount)} }
func (m Money) Mul(factor decimal.Decimal) Money { return Money{amount: m.amount.Mul(factor)} }
func (m Money) Abs() Money                       { return Money{amount: m.amount.Abs()} }
func (m Money) Neg() Money                       { return Money{amount: m.amount.Neg()} }

func (m Money) IsZero() bool                 { return m.amount.IsZero() }
func (m Money) IsPositive() bool             { return m.amount.IsPositive() }
func (m Money) IsNegative() bool             { return m.amount.IsNegative() }
func (m Money) Equal(n Money) bool           { return m.amount.Equal(n.amount) }
func (m Money) GreaterThan(n Money) bool     { return m.amount.GreaterThan(n.amount) }
func (m Money) LessThanOrEqual(n Money) bool { return m.amount.LessThanOrEqual(n.amount) }

// PercentageOf returns (m / base) * 100, or zero when base is not strictly positive.
func (m Money) PercentageOf(base Money) Money {
	if !base.IsPositive() {
		return Zero()
	}
	return Money{amount: m.amount.Div(base.amount).Mul(hundred)}
}

// Sum adds all amounts. An empty list sums to zero.
func Sum(amounts ...Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// String returns the exact decimal representation.
func (m Money) String() string {
	return m.amount.String()
}

// StringFixed returns the amount rounded to the given number of places, for display.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Value stores the amount as an exact decimal string.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan reads a decimal string (or numeric) column.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}
	if err := m.amount.Scan(value); err != nil {
		return fmt.Errorf("failed to scan monetary amount: %w", err)
	}
	return nil
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

// UnmarshalJSON accepts both quoted strings and bare numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
