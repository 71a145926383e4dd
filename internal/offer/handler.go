package offer

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, p identity.Principal, dto OfferDTO) (*Offer, error)
	Update(ctx context.Context, p identity.Principal, id int64, dto OfferDTO, full bool) (*Offer, error)
	ChangeStatus(ctx context.Context, p identity.Principal, id int64, dto ChangeStatusDTO) (*Offer, error)
	Delete(ctx context.Context, p identity.Principal, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*ListItem, int64, error)
	Retrieve(ctx context.Context, viewer identity.Principal, id int64) (*Offer, error)
	Similar(ctx context.Context, viewer identity.Principal, id int64) ([]*ListItem, error)
	Mine(ctx context.Context, p identity.Principal, limit, offset int) ([]*ListItem, int64, error)
	Approve(ctx context.Context, id int64) (*Offer, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// FilterFromQuery reads the public listing filters. Malformed numbers are ignored.
func FilterFromQuery(q url.Values) ListFilter {
	filter := ListFilter{
		Mode:            q.Get("modalidad"),
		Location:        q.Get("ubicacion"),
		ContractType:    q.Get("tipo_contrato"),
		ExperienceLevel: q.Get("nivel_experiencia"),
		Search:          q.Get("search"),
		Ordering:        q.Get("ordering"),
	}
	if id, err := strconv.ParseInt(q.Get("categoria"), 10, 64); err == nil && id > 0 {
		filter.CategoryID = &id
	}
	if v, err := strconv.ParseFloat(q.Get("salario_min"), 64); err == nil {
		filter.SalaryMin = &v
	}
	if v, err := strconv.ParseFloat(q.Get("salario_max"), 64); err == nil {
		filter.SalaryMax = &v
	}
	return filter
}

// ListOffers handles GET /api/ofertas
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	filter := FilterFromQuery(r.URL.Query())
	filter.Limit, filter.Offset = transport.Pagination(r)

	offers, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: offers, Count: total, Limit: filter.Limit, Offset: filter.Offset})
}

// GetOffer handles GET /api/ofertas/{id}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	viewer, _ := identity.FromContext(r.Context())
	o, err := h.Service.Retrieve(r.Context(), viewer, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

// CreateOffer handles POST /api/ofertas
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto OfferDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	o, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, o)
}

// UpdateOffer handles PUT and PATCH /api/ofertas/{id}
func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var dto OfferDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	o, err := h.Service.Update(r.Context(), p, id, dto, r.Method == http.MethodPut)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

// DeleteOffer handles DELETE /api/ofertas/{id}
func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), p, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeStatus handles POST /api/ofertas/{id}/cambiar_estado
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var dto ChangeStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	o, err := h.Service.ChangeStatus(r.Context(), p, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

// SimilarOffers handles GET /api/ofertas/{id}/similares
func (h *Handler) SimilarOffers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	viewer, _ := identity.FromContext(r.Context())
	offers, err := h.Service.Similar(r.Context(), viewer, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, offers)
}

// MyOffers handles GET /api/ofertas/mis_ofertas
func (h *Handler) MyOffers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	limit, offset := transport.Pagination(r)
	offers, total, err := h.Service.Mine(r.Context(), p, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: offers, Count: total, Limit: limit, Offset: offset})
}

// ApproveOffer handles POST /api/admin/ofertas/{id}/aprobar
func (h *Handler) ApproveOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.Service.Approve(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}
