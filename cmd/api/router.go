package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-crm/internal/audit"
	"github.com/noah-isme/backend-crm/internal/auth"
	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/customer"
	"github.com/noah-isme/backend-crm/internal/health"
	"github.com/noah-isme/backend-crm/internal/obs"
	"github.com/noah-isme/backend-crm/internal/presale"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/product"
	"github.com/noah-isme/backend-crm/internal/ratelimit"
	"github.com/noah-isme/backend-crm/internal/report"
	"github.com/noah-isme/backend-crm/internal/security"
)

type routerDeps struct {
	Logger         zerolog.Logger
	HTTPMetrics    *obs.HTTPMetrics
	Tracing        bool
	HSTS           bool
	AllowedOrigins []string
	BodyLimit      int64

	Auth      auth.Middleware
	RateLimit ratelimit.Handler
	Idem      common.Idem
	Audit     audit.HTTPRecorder

	Health   health.Handler
	Pricing  *pricing.Handler
	Presales *presale.Handler
	Products *product.Handler
	Customer *customer.Handler
	Reports  *report.Handler
	AuditLog audit.Handler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: d.HSTS}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(d.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if d.HTTPMetrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)

	writers := auth.RequireRole(auth.RoleAdmin, auth.RoleManager, auth.RoleSales)
	managers := auth.RequireRole(auth.RoleAdmin, auth.RoleManager)

	write := func(resource string, roles func(http.Handler) http.Handler) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			h := d.Audit.Middleware(audit.RouteConfig{ResourceType: resource, ResourceIDParam: "id"})(next)
			h = d.Idem.Middleware(h)
			return roles(h)
		}
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(security.BodyLimit{Max: d.BodyLimit}.Middleware)
		v.Use(d.Auth.RequireAuth)
		v.Use(d.RateLimit.Middleware)

		v.Route("/pricing", func(p chi.Router) {
			p.Post("/suggest", d.Pricing.Suggest)
			p.Post("/analyze", d.Pricing.Analyze)
			p.Post("/batch-analyze", d.Pricing.BatchAnalyze)
			p.Post("/calculate-totals", d.Pricing.CalculateTotals)
			p.Post("/convert-discount", d.Pricing.ConvertDiscount)
			p.Post("/convert-percentage", d.Pricing.ConvertPercentage)
		})
		v.Route("/presales", func(p chi.Router) {
			d.Presales.Routes(p, write("presale", writers))
		})
		v.Route("/customers", func(c chi.Router) {
			d.Customer.Routes(c, write("customer", writers))
		})
		v.Route("/products", func(p chi.Router) {
			d.Products.Routes(p, write("product", managers))
		})
		v.Route("/reports", func(rep chi.Router) {
			rep.Use(managers)
			rep.Get("/sales", d.Reports.Sales)
			rep.Get("/top-products", d.Reports.TopProducts)
		})
		v.With(auth.RequireRole(auth.RoleAdmin)).Get("/audit-logs", d.AuditLog.List)
	})
	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
