package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	Me(ctx context.Context, p identity.Principal) (*MeResponse, error)
	ChangePassword(ctx context.Context, p identity.Principal, dto ChangePasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetProfile handles GET /api/auth/perfil
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Me(r.Context(), p)
	if err != nil {
		h.Logger.Error("GetProfile: service failed", "user_id", p.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// ChangePassword handles POST /api/auth/cambiar_password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto ChangePasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.ChangePassword(r.Context(), p, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Contraseña actualizada"})
}
