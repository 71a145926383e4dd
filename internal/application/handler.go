package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, p identity.Principal, dto CreateApplicationDTO) (*Application, error)
	List(ctx context.Context, p identity.Principal, filter ListFilter) ([]*Application, int64, error)
	Get(ctx context.Context, p identity.Principal, id int64) (*Application, error)
	ChangeStatus(ctx context.Context, p identity.Principal, id int64, dto ChangeStatusDTO) (*Application, error)
	Withdraw(ctx context.Context, p identity.Principal, id int64) error
	Export(ctx context.Context, p identity.Principal, offerID int64, w io.Writer) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListApplications handles GET /api/postulaciones
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := ListFilter{Status: q.Get("estado")}
	if id, err := strconv.ParseInt(q.Get("oferta"), 10, 64); err == nil && id > 0 {
		filter.OfferID = &id
	}
	filter.Limit, filter.Offset = transport.Pagination(r)

	list, total, err := h.Service.List(r.Context(), p, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: list, Count: total, Limit: filter.Limit, Offset: filter.Offset})
}

// CreateApplication handles POST /api/postulaciones
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto CreateApplicationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	a, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

// GetApplication handles GET /api/postulaciones/{id}
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Service.Get(r.Context(), p, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// ChangeStatus handles POST /api/postulaciones/{id}/cambiar_estado
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

	a, err := h.Service.ChangeStatus(r.Context(), p, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// WithdrawApplication handles DELETE /api/postulaciones/{id}
func (h *Handler) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Withdraw(r.Context(), p, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportApplications handles GET /api/ofertas/{id}/postulaciones/export
func (h *Handler) ExportApplications(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), p, id, &buf); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="postulaciones_oferta_%d.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write export", "offer_id", id, "error", err)
	}
}
