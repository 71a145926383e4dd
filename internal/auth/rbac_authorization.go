package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

// RBACAuthorization gates routes by the role of the resolved principal.
// Ownership is checked by the services, not here.
type RBACAuthorization struct {
	checker PermissionChecker
	base    *transport.BaseHandler
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	if checker == nil {
		checker = NewPermissionChecker()
	}
	return &RBACAuthorization{
		checker: checker,
		base:    transport.NewBaseHandler(logger),
	}
}

// Check wraps next so that it only runs when allowed reports true for the caller.
func (ra *RBACAuthorization) Check(next http.Handler, allowed func(identity.Principal) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := identity.FromContext(r.Context())
		if !ok {
			ra.base.Logger.Warn("authorization check failed: principal not found in context")
			ra.base.HandleServiceError(w, internal.ErrMissingToken)
			return
		}

		if !allowed(p) {
			ra.base.Logger.WarnContext(r.Context(), "access denied: role not allowed",
				"user_id", p.UserID,
				"role", p.Role,
				"path", r.URL.Path)
			ra.base.HandleServiceError(w, internal.ErrRoleNotAllowed)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (ra *RBACAuthorization) RequireRole(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next, func(p identity.Principal) bool {
			return ra.checker.HasRole(p, roles...)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next, ra.checker.CanModerate)
	}
}

func (ra *RBACAuthorization) RequireEmployer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next, ra.checker.CanPostOffers)
	}
}

func (ra *RBACAuthorization) RequireApplicant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next, ra.checker.CanApply)
	}
}
