// internal/pkg/money/money.go
package money

import "github.com/shopspring/decimal"

// Monetary amounts are stored as int64 cents everywhere in this codebase.
// This package owns the one rounding rule every price computation uses:
// two fractional digits, half away from zero.

// FromCents converts a cent amount to a decimal value in currency units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// Round2 rounds an amount in currency units to exactly two fractional digits,
// half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2Cents rounds an amount in currency units to two fractional digits,
// half away from zero, and returns it as cents.
func Round2Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// Format renders a cent amount as a fixed-point string with two decimals.
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
