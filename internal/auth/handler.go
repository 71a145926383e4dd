package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/frahmantamala/empleoya/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*AuthResponse, error)
	Register(ctx context.Context, dto user.RegisterDTO) (*AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
	ResolvePrincipal(ctx context.Context, claims *Claims) (identity.Principal, error)
	Logout(ctx context.Context, accessToken string, dto LogoutDTO) error
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

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto user.RegisterDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// RefreshToken handles POST /api/auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	var dto LogoutDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.Logout(r.Context(), token, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware rejects requests without a valid access token and stores
// the resolved principal in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrMissingToken)
			return
		}

		p, err := h.authenticate(r.Context(), token)
		if err != nil {
			h.Logger.Warn("auth middleware: token rejected", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(h.withPrincipal(r.Context(), p)))
	})
}

// OptionalAuth resolves the principal when a token is present and lets
// anonymous requests through. A bad token is still rejected.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, err := h.authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(h.withPrincipal(r.Context(), p)))
	})
}

func (h *Handler) authenticate(ctx context.Context, token string) (identity.Principal, error) {
	claims, err := h.Service.ValidateAccessToken(ctx, token)
	if err != nil {
		return identity.Principal{}, err
	}
	return h.Service.ResolvePrincipal(ctx, claims)
}

func (h *Handler) withPrincipal(ctx context.Context, p identity.Principal) context.Context {
	ctx = identity.WithPrincipal(ctx, p)
	return logger.With(ctx, "user_id", p.UserID, "role", string(p.Role))
}
