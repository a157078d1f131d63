package presale

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/pricing"
)

// Handler exposes the pre-sale workflow over HTTP.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Routes mounts the pre-sale endpoints. write wraps mutating routes, for
// example with role checks and idempotency.
func (h *Handler) Routes(r chi.Router, write func(http.Handler) http.Handler) {
	if write == nil {
		write = func(next http.Handler) http.Handler { return next }
	}
	r.Get("/", h.List)
	r.Post("/preview", h.Preview)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/history", h.History)
	r.With(write).Post("/", h.Create)
	r.With(write).Put("/{id}", h.Update)
	r.With(write).Patch("/{id}/status", h.ChangeStatus)
	r.With(write).Delete("/{id}", h.Delete)
}

type createRequest struct {
	CustomerID   uuid.UUID             `json:"customerId" validate:"required"`
	Items        []pricing.ItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount     *decimal.Decimal      `json:"discount"`
	DiscountType string                `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	Notes        string                `json:"notes" validate:"max=2000"`
	// Status is accepted for compatibility and ignored.
	Status string `json:"status"`
}

// Create handles POST /api/v1/presales.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	spec, err := pricing.SpecFrom(req.Discount, req.DiscountType)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.service.Create(r.Context(), CreateInput{
		CustomerID: req.CustomerID,
		Items:      pricing.ToItems(req.Items),
		Discount:   spec,
		Notes:      req.Notes,
		Actor:      common.Actor(r),
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, out)
}

type updateRequest struct {
	CustomerID   *uuid.UUID            `json:"customerId"`
	Items        []pricing.ItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	Discount     *decimal.Decimal      `json:"discount"`
	DiscountType *string               `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
	Notes        *string               `json:"notes" validate:"omitempty,max=2000"`
}

// Update handles PUT /api/v1/presales/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req updateRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	in := UpdateInput{
		CustomerID: req.CustomerID,
		Discount:   req.Discount,
		Notes:      req.Notes,
		Actor:      common.Actor(r),
	}
	if req.Items != nil {
		in.Items = pricing.ToItems(req.Items)
	}
	if req.DiscountType != nil {
		typ, err := pricing.ParseDiscountType(*req.DiscountType)
		if err != nil {
			common.WriteError(w, err)
			return
		}
		in.DiscountType = &typ
	}
	out, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

// statusRequest leaves status checks to ParseStatus so a missing and an
// unknown status fail the same way.
type statusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus handles PATCH /api/v1/presales/{id}/status.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req statusRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.service.ChangeStatus(r.Context(), id, req.Status, common.Actor(r))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/presales/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/v1/presales/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.service.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

// History handles GET /api/v1/presales/{id}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.service.History(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

// List handles GET /api/v1/presales?status=&customerId=&page=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 20, 100)
	params := ListParams{Page: page, Limit: limit}
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			common.WriteError(w, err)
			return
		}
		params.Status = &st
	}
	customer, err := common.QueryUUID(r, "customerId")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	params.CustomerID = customer

	res, err := h.service.List(r.Context(), params)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Page(w, res.Items, common.NewPagination(res.Page, res.Limit, res.Total))
}

type previewRequest struct {
	Items        []pricing.ItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount     *decimal.Decimal      `json:"discount"`
	DiscountType string                `json:"discountType" validate:"omitempty,oneof=fixed percentage"`
}

// Preview handles POST /api/v1/presales/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	spec, err := pricing.SpecFrom(req.Discount, req.DiscountType)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.service.Preview(r.Context(), pricing.ToItems(req.Items), spec)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}
