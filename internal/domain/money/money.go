// Package money provides the exact decimal amount type used for all
// monetary computation and comparison in the billing core.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid monetary amount")

// Money is an exact decimal amount. The zero value is 0.00 and ready to use.
type Money struct {
	d decimal.Decimal
}

// Zero returns a zero amount
func Zero() Money {
	return Money{}
}

// Parse converts a decimal string such as "100.00" into a Money value
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{d: d}, nil
}

// MustParse is Parse for trusted literals; it panics on malformed input
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal wraps a decimal value as Money
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// FromInt converts whole currency units into Money
func FromInt(n int64) Money {
	return Money{d: decimal.NewFromInt(n)}
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

func (m Money) Sub(o Money) Money {
	return Money{d: m.d.Sub(o.d)}
}

// MulInt scales the amount by a whole number (e.g. price per day x days)
func (m Money) MulInt(n int64) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(n))}
}

// MulFactor scales the amount by an arbitrary decimal factor
func (m Money) MulFactor(f decimal.Decimal) Money {
	return Money{d: m.d.Mul(f)}
}

// Round returns the amount rounded to two decimal places
func (m Money) Round() Money {
	return Money{d: m.d.Round(2)}
}

// Cmp compares two amounts: -1 if m < o, 0 if equal, 1 if m > o
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// Decimal exposes the underlying decimal for pricing-factor arithmetic
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount with two decimal places, e.g. "125.00"
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// MarshalJSON renders the amount as a JSON string to avoid float rounding
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner so NUMERIC columns scan directly into Money
func (m *Money) Scan(src interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	m.d = d
	return nil
}

// Value implements driver.Valuer for writing Money into NUMERIC columns
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
