package report

import (
	"net/http"
	"time"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Handler exposes report read endpoints.
type Handler struct {
	Svc *Service
}

func (h *Handler) window(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()
	defFrom, defTo := h.Svc.DefaultWindow()
	if raw := query.Get("days"); raw != "" && query.Get("from") == "" {
		if days := common.AtoiDefault(raw, 0); days > 0 {
			defFrom = defTo.AddDate(0, 0, -days)
		}
	}
	from := common.ParseDateDefault(query.Get("from"), defFrom)
	to := common.ParseDateDefault(query.Get("to"), defTo)
	if !from.Before(to) {
		return time.Time{}, time.Time{}, common.InvalidInput("from must be before to")
	}
	return from, to, nil
}

// Sales handles GET /api/v1/reports/sales?from=&to=&days=.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "REPORTS_NOT_CONFIGURED", "report service not configured", nil)
		return
	}
	from, to, err := h.window(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.Svc.SalesSummary(r.Context(), from, to)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

// TopProducts handles GET /api/v1/reports/top-products?limit=&from=&to=.
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "REPORTS_NOT_CONFIGURED", "report service not configured", nil)
		return
	}
	from, to, err := h.window(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	limit := common.AtoiDefault(r.URL.Query().Get("limit"), 10)
	out, err := h.Svc.TopProducts(r.Context(), from, to, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}
