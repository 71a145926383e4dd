package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/empleoya/internal/auth"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/pkg/logger"
)

const (
	AccessCookie  = "empleoya_access"
	RefreshCookie = "empleoya_refresh"
	FlashCookie   = "empleoya_flash"

	flashOK    = "ok"
	flashError = "error"
)

// SessionOptions configures the cookies carrying the session tokens.
type SessionOptions struct {
	// Secure marks the cookies HTTPS only.
	Secure bool
	// TTL is the cookie lifetime; it should match the refresh token lifetime.
	TTL time.Duration
}

type session struct {
	principal identity.Principal
	tokens    auth.AuthTokens
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) (*session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session)
	return s, ok
}

// loadSession resolves the principal from the session cookies. An expired
// access token is renewed with the refresh token; a session that cannot be
// resumed is cleared and the request continues anonymously.
func (p *Pages) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := p.resume(w, r); ok {
			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			ctx = identity.WithPrincipal(ctx, s.principal)
			ctx = logger.With(ctx, "user_id", s.principal.UserID, "role", string(s.principal.Role))
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Pages) resume(w http.ResponseWriter, r *http.Request) (*session, bool) {
	ctx := r.Context()
	access := cookieValue(r, AccessCookie)
	refresh := cookieValue(r, RefreshCookie)
	if access == "" && refresh == "" {
		return nil, false
	}

	if access != "" {
		if claims, err := p.auth.ValidateAccessToken(ctx, access); err == nil {
			principal, err := p.auth.ResolvePrincipal(ctx, claims)
			if err != nil {
				p.clearSession(w)
				return nil, false
			}
			return &session{principal: principal, tokens: auth.AuthTokens{AccessToken: access, RefreshToken: refresh}}, true
		}
	}

	if refresh == "" {
		p.clearSession(w)
		return nil, false
	}
	tokens, err := p.auth.RefreshTokens(ctx, refresh)
	if err != nil {
		p.clearSession(w)
		return nil, false
	}
	claims, err := p.auth.ValidateAccessToken(ctx, tokens.AccessToken)
	if err != nil {
		p.clearSession(w)
		return nil, false
	}
	principal, err := p.auth.ResolvePrincipal(ctx, claims)
	if err != nil {
		p.clearSession(w)
		return nil, false
	}
	p.setSession(w, tokens)
	return &session{principal: principal, tokens: tokens}, true
}

func (p *Pages) setSession(w http.ResponseWriter, tokens auth.AuthTokens) {
	http.SetCookie(w, p.cookie(AccessCookie, tokens.AccessToken, int(p.session.TTL.Seconds())))
	http.SetCookie(w, p.cookie(RefreshCookie, tokens.RefreshToken, int(p.session.TTL.Seconds())))
}

func (p *Pages) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, p.cookie(AccessCookie, "", -1))
	http.SetCookie(w, p.cookie(RefreshCookie, "", -1))
}

func (p *Pages) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// requireRole sends anonymous visitors to the login page and visitors with
// another role to their dashboard. An empty role only requires a session.
func (p *Pages) requireRole(role identity.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFrom(r.Context())
		if !ok {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		if role != "" && s.principal.Role != role {
			p.redirect(w, r, "/dashboard", flashError, "No tienes permiso para acceder a esta página")
			return
		}
		next(w, r)
	}
}

type flash struct {
	Kind    string
	Message string
}

// redirect answers 303 and leaves a message for the next rendered page.
func (p *Pages) redirect(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	if message != "" {
		c := p.cookie(FlashCookie, url.QueryEscape(kind+":"+message), 60)
		http.SetCookie(w, c)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// takeFlash reads the pending message and clears it.
func (p *Pages) takeFlash(w http.ResponseWriter, r *http.Request) *flash {
	raw := cookieValue(r, FlashCookie)
	if raw == "" {
		return nil
	}
	http.SetCookie(w, p.cookie(FlashCookie, "", -1))
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(decoded, ":")
	if !ok || message == "" {
		return nil
	}
	return &flash{Kind: kind, Message: message}
}

// safeNext keeps redirects after login on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/dashboard"
	}
	return next
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
