package report_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/cache"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/report"
)

type stubQueries struct {
	salesCalls int
	topCalls   int
	lastTop    dbgen.TopProductsParams
}

func (s *stubQueries) SalesSummaryByStatus(_ context.Context, _ dbgen.SalesSummaryByStatusParams) ([]dbgen.SalesSummaryByStatusRow, error) {
	s.salesCalls++
	return []dbgen.SalesSummaryByStatusRow{
		{Status: "cancelled", PresaleCount: 1, TotalAmount: db.Numeric(decimal.NewFromInt(10)), GrandTotalAmount: db.Numeric(decimal.NewFromInt(10))},
		{Status: "converted", PresaleCount: 1, TotalAmount: db.Numeric(decimal.NewFromInt(90)), GrandTotalAmount: db.Numeric(decimal.NewFromInt(99))},
		{Status: "pending", PresaleCount: 1, TotalAmount: db.Numeric(decimal.NewFromInt(5)), GrandTotalAmount: db.Numeric(decimal.NewFromInt(5))},
	}, nil
}

func (s *stubQueries) TopProducts(_ context.Context, arg dbgen.TopProductsParams) ([]dbgen.TopProductsRow, error) {
	s.topCalls++
	s.lastTop = arg
	return []dbgen.TopProductsRow{{
		ProductID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Name:      "Widget",
		Quantity:  7,
		Revenue:   db.Numeric(decimal.RequireFromString("70.50")),
	}}, nil
}

func newService(t *testing.T) (*report.Service, *stubQueries, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := &stubQueries{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &report.Service{
		Q:            q,
		Cache:        cache.New(rdb, time.Minute),
		DefaultRange: 7,
		Now:          func() time.Time { return now },
	}, q, mr
}

func TestSalesSummaryCachedAndDerived(t *testing.T) {
	svc, q, _ := newService(t)
	from, to := svc.DefaultWindow()

	out, err := svc.SalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, int64(3), out.PresaleCount)
	require.Equal(t, int64(1), out.ConvertedCount)
	require.True(t, decimal.NewFromInt(99).Equal(out.ConvertedTotal))
	require.Equal(t, "33.33", out.ConversionRate.StringFixed(2))

	_, err = svc.SalesSummary(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 1, q.salesCalls)
}

func TestInvalidateDropsReportCache(t *testing.T) {
	svc, q, _ := newService(t)
	from, to := svc.DefaultWindow()
	ctx := context.Background()

	_, err := svc.TopProducts(ctx, from, to, 0)
	require.NoError(t, err)
	require.Equal(t, int32(10), q.lastTop.RowLimit)

	n, err := svc.Invalidate(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = svc.TopProducts(ctx, from, to, 0)
	require.NoError(t, err)
	require.Equal(t, 2, q.topCalls)
}

func TestSalesHandlerRejectsInvertedRange(t *testing.T) {
	svc, _, _ := newService(t)
	h := &report.Handler{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?from=2024-05-02&to=2024-05-01", nil)
	rec := httptest.NewRecorder()
	h.Sales(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/top-products?days=3&limit=5", nil)
	rec = httptest.NewRecorder()
	h.TopProducts(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []report.TopProduct `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "70.5", body.Data[0].Revenue.String())
}
