// Package report aggregates pre-sale figures for the dashboard.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/cache"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/obs"
)

// Querier defines the database access required for reports.
type Querier interface {
	SalesSummaryByStatus(ctx context.Context, arg dbgen.SalesSummaryByStatusParams) ([]dbgen.SalesSummaryByStatusRow, error)
	TopProducts(ctx context.Context, arg dbgen.TopProductsParams) ([]dbgen.TopProductsRow, error)
}

// StatusTotals aggregates pre-sales sharing a status.
type StatusTotals struct {
	Status     string          `json:"status"`
	Count      int64           `json:"count"`
	Total      decimal.Decimal `json:"total"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// SalesSummary reports pre-sale activity within [From, To).
type SalesSummary struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	ByStatus       []StatusTotals  `json:"byStatus"`
	PresaleCount   int64           `json:"presaleCount"`
	ConvertedCount int64           `json:"convertedCount"`
	ConvertedTotal decimal.Decimal `json:"convertedTotal"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
}

// TopProduct is a best-selling product among converted pre-sales.
type TopProduct struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Service provides cached access to report aggregates.
type Service struct {
	Q            Querier
	Cache        *cache.Cache
	DefaultRange int
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DefaultWindow returns the range used when the caller gives none.
func (s *Service) DefaultWindow() (time.Time, time.Time) {
	days := s.DefaultRange
	if days <= 0 {
		days = 30
	}
	to := s.now()
	return to.AddDate(0, 0, -days), to
}

// SalesSummary returns per-status counts and totals between from (inclusive)
// and to (exclusive).
func (s *Service) SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error) {
	if s == nil || s.Q == nil {
		return SalesSummary{}, fmt.Errorf("report service not configured")
	}
	key := cache.Key("crm", "report", "sales", from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	var cached SalesSummary
	if s.lookup(ctx, "sales", key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.SalesSummaryByStatus(ctx, dbgen.SalesSummaryByStatusParams{
		FromTs: db.Timestamptz(from),
		ToTs:   db.Timestamptz(to),
	})
	if err != nil {
		return SalesSummary{}, err
	}
	out := SalesSummary{
		From:           from,
		To:             to,
		ByStatus:       make([]StatusTotals, 0, len(rows)),
		ConvertedTotal: decimal.Zero,
		ConversionRate: decimal.Zero,
	}
	for _, row := range rows {
		st := StatusTotals{
			Status:     row.Status,
			Count:      row.PresaleCount,
			Total:      db.Decimal(row.TotalAmount),
			GrandTotal: db.Decimal(row.GrandTotalAmount),
		}
		out.ByStatus = append(out.ByStatus, st)
		out.PresaleCount += st.Count
		if st.Status == "converted" {
			out.ConvertedCount = st.Count
			out.ConvertedTotal = st.GrandTotal
		}
	}
	if out.PresaleCount > 0 {
		out.ConversionRate = decimal.NewFromInt(out.ConvertedCount).
			Div(decimal.NewFromInt(out.PresaleCount)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	_ = s.Cache.SetJSON(ctx, key, out)
	return out, nil
}

// TopProducts returns the products with the most converted quantity.
func (s *Service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("report service not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	key := cache.Key("crm", "report", "top", from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339), limit)
	var cached []TopProduct
	if s.lookup(ctx, "top_products", key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.TopProducts(ctx, dbgen.TopProductsParams{
		FromTs:   db.Timestamptz(from),
		ToTs:     db.Timestamptz(to),
		RowLimit: int32(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopProduct{
			ProductID: db.FromUUID(row.ProductID),
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   db.Decimal(row.Revenue),
		})
	}
	_ = s.Cache.SetJSON(ctx, key, out)
	return out, nil
}

// Invalidate drops every cached report.
func (s *Service) Invalidate(ctx context.Context) (int, error) {
	if s == nil {
		return 0, nil
	}
	return s.Cache.DeletePrefix(ctx, cache.PrefixReport)
}

func (s *Service) lookup(ctx context.Context, report, key string, dst any) bool {
	ok, err := s.Cache.GetJSON(ctx, key, dst)
	hit := err == nil && ok
	if obs.ReportCacheTotal != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		obs.ReportCacheTotal.WithLabelValues(report, result).Inc()
	}
	return hit
}
