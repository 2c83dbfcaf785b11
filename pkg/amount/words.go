// Package amount formats monetary totals for printed invoices: the
// "total in words" phrase and the fixed two-decimal currency string.
package amount

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var smallNumbers = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// short scale, one entry per group of three digits.
var scales = [...]string{
	"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion",
	"sextillion", "septillion", "octillion", "nonillion", "decillion",
}

// ToWords spells n as an English cardinal phrase with the first letter capitalised.
//
//	0    -> "Zero"
//	101  -> "One hundred and one"
//	1250 -> "One thousand, two hundred and fifty"
//	1005 -> "One thousand and five"
func ToWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	var prefix string
	u := uint64(n)
	if n < 0 {
		prefix = "minus "
		u = uint64(-(n + 1)) + 1 // math.MinInt64 safe
	}
	return capitalize(prefix + spell(groupsOf(u)))
}

// DecimalToWords truncates d to whole currency units and spells the result.
// The fractional part is dropped on purpose. Values past int64 are spelled
// exactly; past the decillions the digits are printed instead.
func DecimalToWords(d decimal.Decimal) string {
	n := d.Truncate(0).BigInt()
	if n.IsInt64() {
		return ToWords(n.Int64())
	}
	var prefix string
	if n.Sign() < 0 {
		prefix = "minus "
		n.Neg(n)
	}
	groups := bigGroupsOf(n)
	if len(groups) > len(scales) {
		return capitalize(prefix + n.String())
	}
	return capitalize(prefix + spell(groups))
}

// groupsOf splits n into groups of three digits, least significant first.
func groupsOf(n uint64) []uint64 {
	var groups []uint64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}
	return groups
}

func bigGroupsOf(n *big.Int) []uint64 {
	thousand := big.NewInt(1000)
	rest := new(big.Int).Set(n)
	g := new(big.Int)
	var groups []uint64
	for rest.Sign() > 0 {
		rest.DivMod(rest, thousand, g)
		groups = append(groups, g.Uint64())
	}
	return groups
}

func spell(groups []uint64) string {
	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		words := spellGroup(g)
		if scales[i] != "" {
			words += " " + scales[i]
		}
		parts = append(parts, words)
	}

	// a trailing group below one hundred joins with "and" instead of a comma
	last := groups[0]
	if len(parts) > 1 && last > 0 && last < 100 {
		head := strings.Join(parts[:len(parts)-1], ", ")
		return head + " and " + parts[len(parts)-1]
	}
	return strings.Join(parts, ", ")
}

// spellGroup spells 1..999.
func spellGroup(n uint64) string {
	hundreds, rest := n/100, n%100
	var b strings.Builder
	if hundreds > 0 {
		b.WriteString(smallNumbers[hundreds])
		b.WriteString(" hundred")
		if rest > 0 {
			b.WriteString(" and ")
		}
	}
	if rest > 0 {
		b.WriteString(spellTens(rest))
	}
	return b.String()
}

func spellTens(n uint64) string {
	if n < 20 {
		return smallNumbers[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + "-" + smallNumbers[n%10]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
