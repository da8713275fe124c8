// Package core holds the domain entities and the pure computations over
// them: expense totals, per-unit allocations, and index-adjusted rent
// schedules. Nothing here touches storage or the network.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount parses a positive monetary amount. It accepts both dot
// (12.34) and comma (12,34) decimal separators and rounds half-up to
// two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParsePercentage parses a percentage in [0, 100].
func ParsePercentage(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPercentage
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidPercentage
	}
	return d, nil
}

// SumAmounts totals a list of expense amounts. An empty list sums to
// zero, so a summary whose last expense was deleted reads 0, not null.
func SumAmounts(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
