package pricing

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Handler exposes the pricing calculators over HTTP.
type Handler struct {
	taxBps int64
}

// HandlerConfig configures the Handler.
type HandlerConfig struct {
	TaxBps int64
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{taxBps: cfg.TaxBps}
}

type suggestRequest struct {
	Cost         *decimal.Decimal `json:"cost" validate:"required"`
	TargetMargin *decimal.Decimal `json:"targetMargin"`
	TargetMarkup *decimal.Decimal `json:"targetMarkup"`
}

// Suggest handles POST /api/v1/pricing/suggest.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := SuggestPrice(SuggestRequest{Cost: *req.Cost, TargetMargin: req.TargetMargin, TargetMarkup: req.TargetMarkup})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

type analyzeRequest struct {
	Cost  *decimal.Decimal `json:"cost" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// Analyze handles POST /api/v1/pricing/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := Analyze(*req.Cost, *req.Price)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

type batchAnalyzeRequest struct {
	Items []struct {
		ProductID uuid.UUID        `json:"productId" validate:"required"`
		Cost      *decimal.Decimal `json:"cost" validate:"required"`
		Price     *decimal.Decimal `json:"price" validate:"required"`
	} `json:"items" validate:"required,min=1,dive"`
}

// BatchAnalyze handles POST /api/v1/pricing/batch-analyze.
func (h *Handler) BatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req batchAnalyzeRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	items := make([]BatchItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, BatchItem{ProductID: it.ProductID, Cost: *it.Cost, Price: *it.Price})
	}
	out, err := BatchAnalyze(items)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

// ItemRequest is the wire form of a pre-sale line item.
type ItemRequest struct {
	ProductID uuid.UUID        `json:"productId" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice" validate:"required"`
	Discount  *decimal.Decimal `json:"discount"`
}

// ToItem converts the request into a pricing Item.
func (r ItemRequest) ToItem() Item {
	it := Item{ProductID: r.ProductID, Quantity: r.Quantity}
	if r.UnitPrice != nil {
		it.UnitPrice = *r.UnitPrice
	}
	if r.Discount != nil {
		it.Discount = *r.Discount
	}
	return it
}

// ToItems converts a slice of requests.
func ToItems(reqs []ItemRequest) []Item {
	items := make([]Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, r.ToItem())
	}
	return items
}

type totalsRequest struct {
	Items        []ItemRequest    `json:"items" validate:"required,min=1,dive"`
	Discount     *decimal.Decimal `json:"discount"`
	DiscountType string           `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
}

// CalculateTotals handles POST /api/v1/pricing/calculate-totals.
func (h *Handler) CalculateTotals(w http.ResponseWriter, r *http.Request) {
	var req totalsRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	spec, err := SpecFrom(req.Discount, req.DiscountType)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	totals, err := ComputeTotals(ToItems(req.Items), spec)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, totals.ApplyTax(h.taxBps))
}

// SpecFrom builds a DiscountSpec from optional wire fields.
func SpecFrom(value *decimal.Decimal, rawType string) (DiscountSpec, error) {
	typ, err := ParseDiscountType(rawType)
	if err != nil {
		return DiscountSpec{}, err
	}
	spec := DiscountSpec{Type: typ, Value: decimal.Zero}
	if value != nil {
		spec.Value = *value
	}
	return spec, nil
}

type convertDiscountRequest struct {
	Subtotal     *decimal.Decimal `json:"subtotal" validate:"required"`
	Value        *decimal.Decimal `json:"value" validate:"required"`
	DiscountType string           `json:"discountType" validate:"required,oneof=fixed percentage"`
}

// ConvertDiscount handles POST /api/v1/pricing/convert-discount.
func (h *Handler) ConvertDiscount(w http.ResponseWriter, r *http.Request) {
	var req convertDiscountRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := ConvertDiscount(*req.Subtotal, *req.Value, DiscountType(req.DiscountType))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

type convertPercentageRequest struct {
	Value *decimal.Decimal `json:"value" validate:"required"`
	From  string           `json:"from" validate:"required,oneof=margin markup"`
}

// ConvertPercentage handles POST /api/v1/pricing/convert-percentage.
func (h *Handler) ConvertPercentage(w http.ResponseWriter, r *http.Request) {
	var req convertPercentageRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	var (
		margin, markup decimal.Decimal
		err            error
	)
	if req.From == "margin" {
		margin = Round2(*req.Value)
		markup, err = MarginToMarkup(*req.Value)
	} else {
		markup = Round2(*req.Value)
		margin, err = MarkupToMargin(*req.Value)
	}
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, map[string]decimal.Decimal{"margin": margin, "markup": markup})
}
