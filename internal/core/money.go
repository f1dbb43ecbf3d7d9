// Package core holds the expense record model, the category catalog, the
// aggregation windows and money parsing.
package core

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₹"

var amountPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// maxAmount keeps amount*100 inside int64.
var maxAmount = decimal.New(math.MaxInt64/100, 0)

// ParseDecimalToCents reads a positive amount typed by a user, accepting
// either a dot or a comma as the decimal separator. Digits past the second
// decimal place round half up, so "1.005" is 101 cents. Signs, grouping
// separators, zero and amounts that round to zero are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if !amountPattern.MatchString(s) {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil || d.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Decimal returns the amount as an exact decimal in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in currency units for display and JSON output.
// Use Cents for arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimals, e.g. ₹12.34.
func (m Money) String() string {
	return CurrencySymbol + m.Decimal().StringFixed(2)
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}
