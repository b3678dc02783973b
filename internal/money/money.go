// Package money is the single rounding authority for all monetary
// arithmetic. Every multiplicative step (percentage application, per-unit
// derivation) must pass its result through Round before it is used again,
// so repeated cart recalculation cannot accumulate drift.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds to 2 decimal places, half-up on the cent boundary.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent applies pct (0-100) to base and rounds the result.
func Percent(base decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Cap returns d limited to at most max (and never below zero).
func Cap(d, max decimal.Decimal) decimal.Decimal {
	if d.GreaterThan(max) {
		d = max
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Parse accepts a 2-decimal numeric string as sent over the wire or
// scanned from a numeric column.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Format renders d as a plain numeric(18,2) string.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatRupiah renders d for user-facing messages, e.g. "Rp50.000".
// Fractional cents are dropped; rupiah amounts are whole in practice.
func FormatRupiah(d decimal.Decimal) string {
	whole := d.Round(0).String()
	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var b strings.Builder
	pre := len(whole) % 3
	if pre > 0 {
		b.WriteString(whole[:pre])
	}
	for i := pre; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(whole[i : i+3])
	}

	out := "Rp" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
