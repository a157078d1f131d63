package presale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/stock"
)

// PreSale is a quote that may later convert into a sale.
type PreSale struct {
	ID             uuid.UUID            `json:"id"`
	CustomerID     uuid.UUID            `json:"customerId"`
	Status         Status               `json:"status"`
	Discount       decimal.Decimal      `json:"discount"`
	DiscountType   pricing.DiscountType `json:"discountType"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	Total          decimal.Decimal      `json:"total"`
	TaxAmount      decimal.Decimal      `json:"taxAmount"`
	GrandTotal     decimal.Decimal      `json:"grandTotal"`
	Items          []pricing.Line       `json:"items,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	CreatedBy      string               `json:"createdBy,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// ApplyTotals copies computed totals and lines onto the pre-sale.
func (p *PreSale) ApplyTotals(t pricing.Totals) {
	p.Subtotal = t.Subtotal
	p.DiscountAmount = t.DiscountAmount
	p.Total = t.Total
	p.TaxAmount = t.TaxAmount
	p.GrandTotal = t.GrandTotal
	p.Items = t.ItemDetails
}

// PricingItems returns the stored lines as raw pricing input.
func (p PreSale) PricingItems() []pricing.Item {
	items := make([]pricing.Item, 0, len(p.Items))
	for _, l := range p.Items {
		items = append(items, pricing.Item{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
		})
	}
	return items
}

// StockItems returns the requested quantities of the stored lines.
func (p PreSale) StockItems() []stock.Item {
	return stockItems(p.PricingItems())
}

// stockItems sums quantities per product so repeated lines are checked and
// consumed against the combined request. First-seen order is kept.
func stockItems(items []pricing.Item) []stock.Item {
	out := make([]stock.Item, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, stock.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// StatusChange is one entry of a pre-sale's status history.
type StatusChange struct {
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Actor     string    `json:"actor,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

// ListParams filters and paginates pre-sale listings.
type ListParams struct {
	Status     *Status
	CustomerID *uuid.UUID
	Page       int
	Limit      int
}

// ListResult is a page of pre-sales.
type ListResult struct {
	Items []PreSale
	Total int64
	Page  int
	Limit int
}
