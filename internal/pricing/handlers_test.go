package pricing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/pricing"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func post(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestSuggestHandler(t *testing.T) {
	h := pricing.NewHandler(pricing.HandlerConfig{})
	rec, env := post(t, h.Suggest, `{"cost":100,"targetMargin":"20"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out pricing.Suggestion
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.True(t, decimal.NewFromInt(125).Equal(out.SuggestedPrice))
	require.Contains(t, string(env.Data), `"suggestedPrice":125`)

	rec, env = post(t, h.Suggest, `{"cost":100}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestCalculateTotalsHandler(t *testing.T) {
	h := pricing.NewHandler(pricing.HandlerConfig{TaxBps: 1000})
	body := `{"items":[{"productId":"4d7c1f1e-9a3b-4c55-8f0e-0d5c2a7b9e10","quantity":2,"unitPrice":15}],"discount":10,"discountType":"percentage"}`
	rec, env := post(t, h.CalculateTotals, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var totals pricing.Totals
	require.NoError(t, json.Unmarshal(env.Data, &totals))
	require.True(t, decimal.NewFromInt(30).Equal(totals.Subtotal))
	require.True(t, decimal.NewFromInt(27).Equal(totals.Total))
	require.True(t, decimal.RequireFromString("2.7").Equal(totals.TaxAmount))
	require.True(t, decimal.RequireFromString("29.7").Equal(totals.GrandTotal))
}

func TestCalculateTotalsHandlerValidation(t *testing.T) {
	h := pricing.NewHandler(pricing.HandlerConfig{})
	rec, env := post(t, h.CalculateTotals, `{"items":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "BAD_REQUEST", env.Error.Code)
	require.Contains(t, env.Error.Details, "items")
}

func TestBatchAnalyzeHandlerReportsProduct(t *testing.T) {
	h := pricing.NewHandler(pricing.HandlerConfig{})
	body := `{"items":[{"productId":"4d7c1f1e-9a3b-4c55-8f0e-0d5c2a7b9e10","cost":10,"price":5}]}`
	rec, env := post(t, h.BatchAnalyze, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "4d7c1f1e-9a3b-4c55-8f0e-0d5c2a7b9e10", env.Error.Details["productId"])
}

func TestConvertHandlers(t *testing.T) {
	h := pricing.NewHandler(pricing.HandlerConfig{})
	rec, env := post(t, h.ConvertDiscount, `{"subtotal":200,"value":15,"discountType":"percentage"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var conv pricing.DiscountConversion
	require.NoError(t, json.Unmarshal(env.Data, &conv))
	require.True(t, decimal.NewFromInt(30).Equal(conv.FixedAmount))

	rec, env = post(t, h.ConvertPercentage, `{"value":50,"from":"margin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var pct map[string]decimal.Decimal
	require.NoError(t, json.Unmarshal(env.Data, &pct))
	require.True(t, decimal.NewFromInt(100).Equal(pct["markup"]))

	rec, _ = post(t, h.ConvertPercentage, `{"value":100,"from":"margin"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
