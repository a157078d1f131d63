// Package pricing holds the pure money arithmetic behind pre-sales: line and
// order totals, discount conversion and margin/markup analysis. Nothing in
// this package performs I/O or logs.
package pricing

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Money is rendered as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	hundred   = decimal.NewFromInt(100)
	one       = decimal.NewFromInt(1)
	bpsFactor = decimal.NewFromInt(10000)
)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func minDec(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
