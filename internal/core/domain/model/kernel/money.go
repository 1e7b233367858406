package kernel

import (
	"fmt"

	"courierpos/internal/pkg/errs"
)

// basisPointDenominator is the scale for fractional rates: 10000 bp = 100%.
const basisPointDenominator = 10000

// Money is an immutable monetary amount held in integer minor units (cents)
// with an ISO 4217 currency code. All pricing arithmetic stays in integers so
// two computations of the same quote are byte-identical.
//
// Amounts are never negative: quotes, fees and payments in the POS core are
// magnitudes, and reversals are separate operations, not negative amounts.
//
// Example:
//
//	base, _ := kernel.NewMoney(1000, "USD") // 10.00 USD
//	tax := base.ApplyBasisPoints(1000)      // 1.00 USD at 10%
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value. Amount is in minor units and must not be
// negative; currency must be a three-letter code.
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter currency code", currency))
	}
	return Money{amount: amount, currency: currency}, nil
}

// ZeroMoney creates a zero amount in the given currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(0, currency)
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// Validate returns an error for the zero value, which carries no currency.
func (m Money) Validate() error {
	if m.currency == "" {
		return errs.NewValueIsRequiredError("money must be created via NewMoney")
	}
	return nil
}

// Add returns the sum of two amounts. Fails on currency mismatch.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("cannot add %s to %s", other.currency, m.currency))
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Sub returns m minus other, failing on currency mismatch or a negative result.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("cannot subtract %s from %s", other.currency, m.currency))
	}
	return NewMoney(m.amount-other.amount, m.currency)
}

// ApplyBasisPoints scales the amount by a fractional rate expressed in basis
// points (10000 bp = 100%), rounding half up. Used for tax, fuel index and
// insurance tier rates.
func (m Money) ApplyBasisPoints(bp int64) Money {
	scaled := (m.amount*bp + basisPointDenominator/2) / basisPointDenominator
	return Money{amount: scaled, currency: m.currency}
}

// PerWeight treats the amount as a per-kilogram rate and scales it to the
// given weight, rounding half up at gram precision.
func (m Money) PerWeight(w Weight) Money {
	scaled := (m.amount*w.Grams() + gramsPerKilogram/2) / gramsPerKilogram
	return Money{amount: scaled, currency: m.currency}
}

// IsEqual reports whether amount and currency both match.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// IsLessThan reports whether m is strictly smaller than other.
// Comparison across currencies is meaningless and reports false.
func (m Money) IsLessThan(other Money) bool {
	return m.currency == other.currency && m.amount < other.amount
}

// IsGreaterThan reports whether m is strictly larger than other.
func (m Money) IsGreaterThan(other Money) bool {
	return m.currency == other.currency && m.amount > other.amount
}

// String formats the amount with two decimal places, e.g. "12.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amount/100, m.amount%100, m.currency)
}
