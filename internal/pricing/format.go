package pricing

import "github.com/shopspring/decimal"

// Round2 rounds d to two fractional digits. Use only at display and payload boundaries.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Float returns d rounded to two fractional digits as a float64.
func Float(d decimal.Decimal) float64 {
	f, _ := Round2(d).Float64()
	return f
}

// Format renders d as a currency amount with two decimals, e.g. ₹360.00.
func Format(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}

// FormatWhole renders d rounded to whole currency units, e.g. ₹300.
func FormatWhole(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(0)
}
