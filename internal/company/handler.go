package company

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id int64) (*Company, error)
	List(ctx context.Context, filter ListFilter) ([]*Company, int64, error)
	GetMine(ctx context.Context, p identity.Principal) (*Company, error)
	UpdateMine(ctx context.Context, p identity.Principal, dto UpdateCompanyDTO, full bool) (*Company, error)
	Verify(ctx context.Context, id int64) (*Company, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListCompanies handles GET /api/empresas
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Sector: q.Get("sector"),
		Search: q.Get("search"),
	}
	if v := q.Get("verificada"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Verified = &b
		}
	}
	filter.Limit, filter.Offset = transport.Pagination(r)

	companies, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: companies, Count: total, Limit: filter.Limit, Offset: filter.Offset})
}

// GetCompany handles GET /api/empresas/{id}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// GetMyCompany handles GET /api/empresas/mi_empresa
func (h *Handler) GetMyCompany(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	c, err := h.Service.GetMine(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// UpdateMyCompany handles PUT and PATCH /api/empresas/mi_empresa
func (h *Handler) UpdateMyCompany(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto UpdateCompanyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.UpdateMine(r.Context(), p, dto, r.Method == http.MethodPut)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// VerifyCompany handles POST /api/admin/empresas/{id}/verificar
func (h *Handler) VerifyCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Service.Verify(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
