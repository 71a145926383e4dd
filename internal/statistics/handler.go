package statistics

import (
	"context"
	"net/http"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	General(ctx context.Context) (*General, error)
	Mine(ctx context.Context, p identity.Principal) (interface{}, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// GetGeneral handles GET /api/estadisticas/generales
func (h *Handler) GetGeneral(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.General(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

// GetMine handles GET /api/estadisticas/mis-estadisticas
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.Mine(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
