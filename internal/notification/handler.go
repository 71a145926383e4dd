package notification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, p identity.Principal, read *bool, limit, offset int) ([]*Notification, int64, error)
	UnreadCount(ctx context.Context, p identity.Principal) (*UnreadCount, error)
	MarkRead(ctx context.Context, p identity.Principal, id int64) (*Notification, error)
	MarkAllRead(ctx context.Context, p identity.Principal) (*MarkAllResult, error)
	Delete(ctx context.Context, p identity.Principal, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListNotifications handles GET /api/notificaciones
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var read *bool
	if v := r.URL.Query().Get("leida"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			read = &b
		}
	}
	limit, offset := transport.Pagination(r)

	list, total, err := h.Service.List(r.Context(), p, read, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: list, Count: total, Limit: limit, Offset: offset})
}

// UnreadCount handles GET /api/notificaciones/no_leidas
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, count)
}

// MarkRead handles POST /api/notificaciones/{id}/marcar_leida
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	n, err := h.Service.MarkRead(r.Context(), p, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, n)
}

// MarkAllRead handles POST /api/notificaciones/marcar_todas_leidas
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	res, err := h.Service.MarkAllRead(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

// DeleteNotification handles DELETE /api/notificaciones/{id}
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
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
