package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
)

// MarginResult is profit expressed against the selling price.
type MarginResult struct {
	Profit    decimal.Decimal `json:"profit"`
	MarginPct decimal.Decimal `json:"marginPercentage"`
}

// MarkupResult is profit expressed against the cost.
type MarkupResult struct {
	Profit    decimal.Decimal `json:"profit"`
	MarkupPct decimal.Decimal `json:"markupPercentage"`
}

// Margin computes profit and margin percentage for a cost and selling price.
// The price must cover the cost.
func Margin(cost, price decimal.Decimal) (MarginResult, error) {
	if !cost.IsPositive() {
		return MarginResult{}, common.InvalidInput("cost must be greater than zero")
	}
	if !price.IsPositive() {
		return MarginResult{}, common.InvalidInput("price must be greater than zero")
	}
	if price.LessThan(cost) {
		return MarginResult{}, common.InvalidInput("price must not be lower than cost")
	}
	profit := price.Sub(cost)
	return MarginResult{
		Profit:    Round2(profit),
		MarginPct: Round2(profit.Div(price).Mul(hundred)),
	}, nil
}

// Markup computes profit and markup percentage. Selling at a loss yields a
// negative markup.
func Markup(cost, price decimal.Decimal) (MarkupResult, error) {
	if !cost.IsPositive() {
		return MarkupResult{}, common.InvalidInput("cost must be greater than zero")
	}
	if !price.IsPositive() {
		return MarkupResult{}, common.InvalidInput("price must be greater than zero")
	}
	profit := price.Sub(cost)
	return MarkupResult{
		Profit:    Round2(profit),
		MarkupPct: Round2(profit.Div(cost).Mul(hundred)),
	}, nil
}

// PriceForMargin returns the selling price that yields marginPct over cost.
// marginPct must be in [0, 100).
func PriceForMargin(cost, marginPct decimal.Decimal) (decimal.Decimal, error) {
	if !cost.IsPositive() {
		return decimal.Zero, common.InvalidInput("cost must be greater than zero")
	}
	if marginPct.IsNegative() || marginPct.GreaterThanOrEqual(hundred) {
		return decimal.Zero, common.InvalidInput("margin percentage must be between 0 and 100 (exclusive)")
	}
	return Round2(cost.Div(one.Sub(marginPct.Div(hundred)))), nil
}

// PriceForMarkup returns the selling price that yields markupPct over cost.
func PriceForMarkup(cost, markupPct decimal.Decimal) (decimal.Decimal, error) {
	if !cost.IsPositive() {
		return decimal.Zero, common.InvalidInput("cost must be greater than zero")
	}
	if markupPct.IsNegative() {
		return decimal.Zero, common.InvalidInput("markup percentage must not be negative")
	}
	return Round2(cost.Mul(one.Add(markupPct.Div(hundred)))), nil
}

// MarginToMarkup converts a margin percentage to the equivalent markup.
func MarginToMarkup(marginPct decimal.Decimal) (decimal.Decimal, error) {
	if marginPct.IsNegative() || marginPct.GreaterThanOrEqual(hundred) {
		return decimal.Zero, common.InvalidInput("margin percentage must be between 0 and 100 (exclusive)")
	}
	if marginPct.IsZero() {
		return decimal.Zero, nil
	}
	return Round2(marginPct.Div(hundred.Sub(marginPct)).Mul(hundred)), nil
}

// MarkupToMargin converts a markup percentage to the equivalent margin.
func MarkupToMargin(markupPct decimal.Decimal) (decimal.Decimal, error) {
	if markupPct.IsNegative() {
		return decimal.Zero, common.InvalidInput("markup percentage must not be negative")
	}
	if markupPct.IsZero() {
		return decimal.Zero, nil
	}
	return Round2(markupPct.Div(hundred.Add(markupPct)).Mul(hundred)), nil
}
