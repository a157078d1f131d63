package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/auth"
	"github.com/noah-isme/backend-crm/internal/customer"
	"github.com/noah-isme/backend-crm/internal/presale"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/product"
	"github.com/noah-isme/backend-crm/internal/report"
)

func testRouter(t *testing.T) (http.Handler, *auth.Service) {
	t.Helper()
	svc, err := auth.NewService(auth.Config{Secret: "router-secret"})
	require.NoError(t, err)
	h := newRouter(routerDeps{
		Logger:    zerolog.Nop(),
		BodyLimit: 1 << 20,
		Auth:      auth.Middleware{Service: svc},
		Pricing:   pricing.NewHandler(pricing.HandlerConfig{TaxBps: 1000}),
		Presales:  presale.NewHandler(presale.HandlerConfig{}),
		Products:  product.NewHandler(product.HandlerConfig{}),
		Customer:  customer.NewHandler(nil),
		Reports:   &report.Handler{},
	})
	return h, svc
}

func bearer(t *testing.T, svc *auth.Service, roles ...string) string {
	t.Helper()
	tok, _, err := svc.Issue("user-1", roles, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRouterHealthIsPublic(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRequiresToken(t *testing.T) {
	h, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/analyze", strings.NewReader(`{"cost":"80","price":"100"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterPricingAnalyze(t *testing.T) {
	h, svc := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/analyze", strings.NewReader(`{"cost":"80","price":"100"}`))
	req.Header.Set("Authorization", bearer(t, svc, auth.RoleViewer))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"marginPercentage"`)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRouterRoleGates(t *testing.T) {
	h, svc := testRouter(t)
	cases := []struct {
		name   string
		method string
		path   string
		role   string
	}{
		{"reports need manager", http.MethodGet, "/api/v1/reports/sales", auth.RoleSales},
		{"audit logs need admin", http.MethodGet, "/api/v1/audit-logs", auth.RoleManager},
		{"product writes need manager", http.MethodPost, "/api/v1/products", auth.RoleSales},
		{"presale writes need sales", http.MethodPost, "/api/v1/presales", auth.RoleViewer},
		{"customer writes need sales", http.MethodDelete, "/api/v1/customers/3f1b7a8e-0000-4000-8000-000000000001", auth.RoleViewer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", bearer(t, svc, tc.role))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}
