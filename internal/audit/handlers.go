package audit

import (
	"net/http"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Handler exposes the audit log to administrators.
type Handler struct {
	Service *Service
}

// List handles GET /api/v1/audit-logs.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 50, 200)
	entries, total, err := h.Service.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Page(w, entries, common.NewPagination(page, limit, total))
}
