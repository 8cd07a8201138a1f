package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// EUR is the only currency the café operates in. Keeping the currency code on
// the value object still guards against accidental cross-currency arithmetic
// if a second currency ever shows up.
const EUR = "EUR"

var (
	ErrCurrencyMismatch = errors.New("cannot combine money with different currencies")
	ErrAmountOverflow   = errors.New("money amount overflow")
	ErrInvalidAmount    = errors.New("invalid money amount")
)

// Money is an immutable value object storing an amount in minor currency
// units (cents). All monetary arithmetic in the module goes through it so
// subtotal/total computations never touch floating point.
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates Money from an amount in cents.
func NewMoney(cents int64, currency string) Money {
	return Money{amount: cents, currency: currency}
}

// ParseMoney converts a decimal string such as "4.50" into Money.
// Amounts with more than two fraction digits are rejected rather than
// rounded; catalog prices are two-decimal by contract.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return Money{}, ErrInvalidAmount
	}
	if !cents.BigInt().IsInt64() {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: cents.IntPart(), currency: currency}, nil
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// MulInt scales the amount by an integer quantity with overflow detection.
func (m Money) MulInt(n int) (Money, error) {
	if n == 0 || m.amount == 0 {
		return Money{amount: 0, currency: m.currency}, nil
	}
	product := m.amount * int64(n)
	if product/int64(n) != m.amount {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: product, currency: m.currency}, nil
}

// WholeUnits returns the amount truncated to whole currency units
// (floor for the non-negative amounts this domain produces). Loyalty point
// accrual is defined on whole euros, not on cents.
func (m Money) WholeUnits() int64 {
	return m.amount / 100
}

func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsNegative() bool { return m.amount < 0 }

func (m Money) IsGreaterThan(other Money) bool        { return m.amount > other.amount }
func (m Money) IsGreaterThanOrEqual(other Money) bool { return m.amount >= other.amount }

func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// Decimal exposes the amount as an exact two-decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -2)
}

// String renders the amount with two fraction digits, e.g. "9.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
