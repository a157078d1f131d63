package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Item is a raw pre-sale line as received from the caller.
type Item struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Line is the computed form of an item. All money fields are rounded.
type Line struct {
	ProductID             uuid.UUID       `json:"productId"`
	Quantity              int64           `json:"quantity"`
	UnitPrice             decimal.Decimal `json:"unitPrice"`
	Discount              decimal.Decimal `json:"discount"`
	LineTotal             decimal.Decimal `json:"lineTotal"`
	LineTotalWithDiscount decimal.Decimal `json:"lineTotalWithDiscount"`
}

// ComputeLine multiplies quantity by unit price and subtracts the fixed line
// discount. Oversized discounts are capped so the line never goes negative.
// Zero quantity is accepted; callers enforce a positive quantity when needed.
func ComputeLine(quantity int64, unitPrice, discount decimal.Decimal) (Line, error) {
	if quantity < 0 {
		return Line{}, common.InvalidInput("quantity must not be negative")
	}
	if unitPrice.IsNegative() {
		return Line{}, common.InvalidInput("unit price must not be negative")
	}
	if discount.IsNegative() {
		return Line{}, common.InvalidInput("discount must not be negative")
	}
	total := decimal.NewFromInt(quantity).Mul(unitPrice)
	return Line{
		Quantity:              quantity,
		UnitPrice:             Round2(unitPrice),
		Discount:              Round2(discount),
		LineTotal:             Round2(total),
		LineTotalWithDiscount: Round2(maxZero(total.Sub(discount))),
	}, nil
}

// Compute is ComputeLine applied to the item, carrying its product id.
func (it Item) Compute() (Line, error) {
	line, err := ComputeLine(it.Quantity, it.UnitPrice, it.Discount)
	if err != nil {
		return Line{}, err
	}
	line.ProductID = it.ProductID
	return line, nil
}
