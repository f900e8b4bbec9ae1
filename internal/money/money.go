// Package money implements fixed-point currency amounts in integer minor units.
//
// Amounts are never represented as floating point. All arithmetic that can
// exceed int64 (rational multiplication, proportional distribution) is carried
// out with math/big and checked before narrowing back to int64.
package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"golang.org/x/text/currency"
)

var (
	// ErrCurrencyMismatch is returned when two amounts of different currencies are combined.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidWeights is returned by Distribute for empty, negative or zero-sum weights.
	ErrInvalidWeights = errors.New("invalid split weights")

	// ErrOverflow is returned when a result does not fit in int64 minor units.
	ErrOverflow = errors.New("amount overflows int64 minor units")

	// ErrInvalidCurrency is returned for codes that are not ISO 4217.
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Money is an amount in minor units (e.g. cents) of a single currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New returns an amount of the given minor units.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns the zero amount in currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// ParseCurrency validates an ISO 4217 code and returns its canonical form.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return unit.String(), nil
}

func (m Money) IsZero() bool     { return m.Amount == 0 }
func (m Money) IsPositive() bool { return m.Amount > 0 }
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Abs returns the magnitude of m. The most negative int64 has no positive
// counterpart and yields ErrOverflow.
func (m Money) Abs() (Money, error) {
	if m.Amount < 0 {
		return m.Neg()
	}
	return m, nil
}

// Neg returns -m, or ErrOverflow for the most negative int64.
func (m Money) Neg() (Money, error) {
	if m.Amount == math.MinInt64 {
		return Money{}, ErrOverflow
	}
	return Money{Amount: -m.Amount, Currency: m.Currency}, nil
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	sum := m.Amount + o.Amount
	if (o.Amount > 0 && sum < m.Amount) || (o.Amount < 0 && sum > m.Amount) {
		return Money{}, ErrOverflow
	}
	return Money{Amount: sum, Currency: m.Currency}, nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	diff := m.Amount - o.Amount
	if (o.Amount > 0 && diff > m.Amount) || (o.Amount < 0 && diff < m.Amount) {
		return Money{}, ErrOverflow
	}
	return Money{Amount: diff, Currency: m.Currency}, nil
}

// Cmp compares m and o and returns -1, 0 or +1.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	switch {
	case m.Amount < o.Amount:
		return -1, nil
	case m.Amount > o.Amount:
		return 1, nil
	}
	return 0, nil
}

// MulRat returns m * num / den truncated toward zero.
func (m Money) MulRat(num, den int64) (Money, error) {
	if den == 0 {
		return Money{}, fmt.Errorf("%w: zero denominator", ErrInvalidWeights)
	}
	p := new(big.Int).Mul(big.NewInt(m.Amount), big.NewInt(num))
	p.Quo(p, big.NewInt(den))
	if !p.IsInt64() {
		return Money{}, ErrOverflow
	}
	return Money{Amount: p.Int64(), Currency: m.Currency}, nil
}

// String renders m as a decimal with two fraction digits, for logs.
func (m Money) String() string {
	sign := ""
	a := new(big.Int).SetInt64(m.Amount)
	if a.Sign() < 0 {
		sign = "-"
		a.Neg(a)
	}
	q, r := new(big.Int).QuoRem(a, big.NewInt(100), new(big.Int))
	s := fmt.Sprintf("%s%s.%02d", sign, q.String(), r.Int64())
	if m.Currency != "" {
		s += " " + m.Currency
	}
	return s
}

func (m Money) sameCurrency(o Money) error {
	if m.Currency != o.Currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return nil
}

// Sum adds up amounts, all of which must be in currency.
func Sum(currency string, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
