package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/auth"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
)

type loginData struct {
	Email string
	Next  string
	Error string
}

// LoginForm handles GET /login
func (p *Pages) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionFrom(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, r, http.StatusOK, "login.html", loginData{Next: r.URL.Query().Get("next")})
}

// Login handles POST /login
func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, http.StatusBadRequest, "Formulario inválido")
		return
	}
	data := loginData{Email: strings.TrimSpace(r.PostForm.Get("email")), Next: r.PostForm.Get("next")}

	resp, err := p.auth.Authenticate(r.Context(), auth.LoginDTO{Email: data.Email, Password: r.PostForm.Get("password")})
	if err != nil {
		data.Error = p.userMessage(r, err)
		if errors.Is(err, internal.ErrInvalidCredentials) {
			data.Error = "Email o contraseña incorrectos"
		}
		p.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}

	p.setSession(w, resp.AuthTokens)
	p.redirect(w, r, safeNext(data.Next), flashOK, "¡Bienvenido "+resp.User.FirstName+"!")
}

type registerData struct {
	Form  registerForm
	Roles []identity.Role
	Error string
}

type registerForm struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      string
}

// RegisterForm handles GET /register
func (p *Pages) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionFrom(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, r, http.StatusOK, "register.html", registerData{
		Form:  registerForm{Role: string(identity.RoleApplicant)},
		Roles: selfRegistrable,
	})
}

var selfRegistrable = []identity.Role{identity.RoleApplicant, identity.RoleEmployer}

// Register handles POST /register. The new account is signed in right away.
func (p *Pages) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, http.StatusBadRequest, "Formulario inválido")
		return
	}
	form := registerForm{
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		FirstName: strings.TrimSpace(r.PostForm.Get("nombre")),
		LastName:  strings.TrimSpace(r.PostForm.Get("apellido")),
		Phone:     strings.TrimSpace(r.PostForm.Get("telefono")),
		Role:      r.PostForm.Get("tipo_usuario"),
	}
	dto := user.RegisterDTO{
		Email:     form.Email,
		Password:  r.PostForm.Get("password"),
		Password2: r.PostForm.Get("password2"),
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     text(r.PostForm, "telefono"),
		Role:      identity.Role(form.Role),
	}

	resp, err := p.auth.Register(r.Context(), dto)
	if err != nil {
		p.render(w, r, http.StatusUnprocessableEntity, "register.html", registerData{
			Form:  form,
			Roles: selfRegistrable,
			Error: p.userMessage(r, err),
		})
		return
	}

	p.setSession(w, resp.AuthTokens)
	p.redirect(w, r, "/dashboard", flashOK, "¡Registro exitoso! Bienvenido "+resp.User.FirstName)
}

// Logout handles POST /logout. Both tokens are revoked; the cookies go away
// even when revocation fails.
func (p *Pages) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := sessionFrom(r.Context()); ok {
		err := p.auth.Logout(r.Context(), s.tokens.AccessToken, auth.LogoutDTO{RefreshToken: s.tokens.RefreshToken})
		if err != nil {
			p.logger.Warn("web: logout failed", "user_id", s.principal.UserID, "error", err)
		}
	}
	p.clearSession(w)
	p.redirect(w, r, "/", flashOK, "Has cerrado sesión correctamente")
}

// Dashboard handles GET /dashboard and forwards to the dashboard of the role.
func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFrom(r.Context())
	switch s.principal.Role {
	case identity.RoleEmployer:
		http.Redirect(w, r, "/dashboard/empleador", http.StatusSeeOther)
	case identity.RoleApplicant:
		http.Redirect(w, r, "/dashboard/postulante", http.StatusSeeOther)
	default:
		p.redirect(w, r, "/", flashOK, "La administración se realiza desde la API")
	}
}
