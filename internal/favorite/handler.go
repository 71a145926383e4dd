package favorite

import (
	"context"
	"net/http"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, p identity.Principal, limit, offset int) ([]*Favorite, int64, error)
	Add(ctx context.Context, p identity.Principal, dto AddFavoriteDTO) (*Favorite, error)
	Remove(ctx context.Context, p identity.Principal, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListFavorites handles GET /api/favoritos
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	limit, offset := transport.Pagination(r)
	list, total, err := h.Service.List(r.Context(), p, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: list, Count: total, Limit: limit, Offset: offset})
}

// AddFavorite handles POST /api/favoritos
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto AddFavoriteDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	f, err := h.Service.Add(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, f)
}

// RemoveFavorite handles DELETE /api/favoritos/{id}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Remove(r.Context(), p, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
