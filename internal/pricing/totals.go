package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Totals aggregates the computed lines and the global discount.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	ItemDetails    []Line          `json:"itemDetails"`
}

// ComputeTotals prices every item, sums the discounted lines and applies the
// global discount. total is max(0, subtotal - discountAmount) and the discount
// never exceeds the subtotal.
func ComputeTotals(items []Item, discount DiscountSpec) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, common.InvalidInput("at least one item is required")
	}
	details := make([]Line, 0, len(items))
	subtotal := decimal.Zero
	for _, it := range items {
		line, err := it.Compute()
		if err != nil {
			return Totals{}, err
		}
		details = append(details, line)
		subtotal = subtotal.Add(line.LineTotalWithDiscount)
	}
	amount, err := discount.Amount(subtotal)
	if err != nil {
		return Totals{}, err
	}
	total := Round2(maxZero(subtotal.Sub(amount)))
	return Totals{
		Subtotal:       Round2(subtotal),
		DiscountAmount: amount,
		Total:          total,
		TaxAmount:      decimal.Zero,
		GrandTotal:     total,
		ItemDetails:    details,
	}, nil
}

// ApplyTax adds a flat tax, given in basis points, on the discounted total.
func (t Totals) ApplyTax(taxBps int64) Totals {
	if taxBps <= 0 {
		return t
	}
	t.TaxAmount = Round2(t.Total.Mul(decimal.NewFromInt(taxBps)).Div(bpsFactor))
	t.GrandTotal = t.Total.Add(t.TaxAmount)
	return t
}
