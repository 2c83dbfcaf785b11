package amount

import "github.com/shopspring/decimal"

// ToCurrencyString renders d with exactly two decimals, no thousands
// separators and no symbol: 9100 -> "9100.00". The symbol belongs to the
// document template.
func ToCurrencyString(d decimal.Decimal) string {
	return d.StringFixed(2)
}
