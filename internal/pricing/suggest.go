package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Advisory messages appended by Analyze, in the order they are evaluated.
const (
	RecommendLowMargin     = "low margin: below 10%, consider raising the price"
	RecommendHighMargin    = "very high margin: above 70%, check competitiveness"
	RecommendLowMarkup     = "low markup: below 20%, ensure costs are covered"
	RecommendVeryLowProfit = "very low profit: under 1.00 per unit, review pricing"
)

var (
	lowMarginThreshold  = decimal.NewFromInt(10)
	highMarginThreshold = decimal.NewFromInt(70)
	lowMarkupThreshold  = decimal.NewFromInt(20)
	lowProfitThreshold  = decimal.NewFromInt(1)
)

// Suggestion is a suggested selling price with both margin and markup framings.
type Suggestion struct {
	Cost            decimal.Decimal `json:"cost"`
	Basis           string          `json:"basis"`
	Target          decimal.Decimal `json:"target"`
	SuggestedPrice  decimal.Decimal `json:"suggestedPrice"`
	Profit          decimal.Decimal `json:"profit"`
	ProjectedMargin decimal.Decimal `json:"projectedMargin"`
	ProjectedMarkup decimal.Decimal `json:"projectedMarkup"`
}

// SuggestByMargin prices cost to hit the target margin.
func SuggestByMargin(cost, targetMargin decimal.Decimal) (Suggestion, error) {
	price, err := PriceForMargin(cost, targetMargin)
	if err != nil {
		return Suggestion{}, err
	}
	return project(cost, price, "margin", targetMargin)
}

// SuggestByMarkup prices cost to hit the target markup.
func SuggestByMarkup(cost, targetMarkup decimal.Decimal) (Suggestion, error) {
	price, err := PriceForMarkup(cost, targetMarkup)
	if err != nil {
		return Suggestion{}, err
	}
	return project(cost, price, "markup", targetMarkup)
}

func project(cost, price decimal.Decimal, basis string, target decimal.Decimal) (Suggestion, error) {
	margin, err := Margin(cost, price)
	if err != nil {
		return Suggestion{}, err
	}
	markup, err := Markup(cost, price)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{
		Cost:            Round2(cost),
		Basis:           basis,
		Target:          Round2(target),
		SuggestedPrice:  price,
		Profit:          margin.Profit,
		ProjectedMargin: margin.MarginPct,
		ProjectedMarkup: markup.MarkupPct,
	}, nil
}

// SuggestRequest carries a cost and exactly one target.
type SuggestRequest struct {
	Cost         decimal.Decimal
	TargetMargin *decimal.Decimal
	TargetMarkup *decimal.Decimal
}

// SuggestPrice dispatches to the margin or markup suggestion.
func SuggestPrice(req SuggestRequest) (Suggestion, error) {
	switch {
	case req.TargetMargin != nil && req.TargetMarkup != nil:
		return Suggestion{}, common.InvalidInput("provide either targetMargin or targetMarkup, not both")
	case req.TargetMargin != nil:
		return SuggestByMargin(req.Cost, *req.TargetMargin)
	case req.TargetMarkup != nil:
		return SuggestByMarkup(req.Cost, *req.TargetMarkup)
	default:
		return Suggestion{}, common.InvalidInput("one of targetMargin or targetMarkup is required")
	}
}

// Analysis describes the profitability of a cost and selling price.
type Analysis struct {
	Cost            decimal.Decimal `json:"cost"`
	Price           decimal.Decimal `json:"price"`
	Profit          decimal.Decimal `json:"profit"`
	MarginPct       decimal.Decimal `json:"marginPercentage"`
	MarkupPct       decimal.Decimal `json:"markupPercentage"`
	Recommendations []string        `json:"recommendations"`
}

// Analyze computes margin and markup and attaches advisory recommendations.
// Several may apply at once; they are listed in a fixed order.
func Analyze(cost, price decimal.Decimal) (Analysis, error) {
	margin, err := Margin(cost, price)
	if err != nil {
		return Analysis{}, err
	}
	markup, err := Markup(cost, price)
	if err != nil {
		return Analysis{}, err
	}
	recs := make([]string, 0, 4)
	if margin.MarginPct.LessThan(lowMarginThreshold) {
		recs = append(recs, RecommendLowMargin)
	}
	if margin.MarginPct.GreaterThan(highMarginThreshold) {
		recs = append(recs, RecommendHighMargin)
	}
	if markup.MarkupPct.LessThan(lowMarkupThreshold) {
		recs = append(recs, RecommendLowMarkup)
	}
	if margin.Profit.LessThan(lowProfitThreshold) {
		recs = append(recs, RecommendVeryLowProfit)
	}
	return Analysis{
		Cost:            Round2(cost),
		Price:           Round2(price),
		Profit:          margin.Profit,
		MarginPct:       margin.MarginPct,
		MarkupPct:       markup.MarkupPct,
		Recommendations: recs,
	}, nil
}

// BatchItem is one product in a batch analysis.
type BatchItem struct {
	ProductID uuid.UUID
	Cost      decimal.Decimal
	Price     decimal.Decimal
}

// BatchResult pairs a product with its analysis.
type BatchResult struct {
	ProductID uuid.UUID `json:"productId"`
	Analysis
}

// BatchAnalyze analyses every item and stops at the first failure. The
// returned error names the offending product; no partial results are returned.
func BatchAnalyze(items []BatchItem) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(items))
	for i, it := range items {
		a, err := Analyze(it.Cost, it.Price)
		if err != nil {
			return nil, common.InvalidInput("product %s: %s", it.ProductID, err.Error()).
				WithDetails(map[string]any{"productId": it.ProductID.String(), "index": i})
		}
		results = append(results, BatchResult{ProductID: it.ProductID, Analysis: a})
	}
	return results, nil
}
