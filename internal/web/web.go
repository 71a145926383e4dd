// Package web renders the server side pages: the public offer catalogue, the
// login and registration forms and the employer and applicant dashboards.
// Sessions are the API's JWT pair kept in HTTP only cookies.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/application"
	"github.com/frahmantamala/empleoya/internal/auth"
	"github.com/frahmantamala/empleoya/internal/category"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/offer"
	"github.com/frahmantamala/empleoya/internal/statistics"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/go-chi/chi"
)

const (
	featuredOffers  = 6
	homeCategories  = 8
	pageSize        = 12
	detailSimilar   = 4
	dashboardRecent = 5
	contentTypeHTML = "text/html; charset=utf-8"
)

//go:embed templates/*.html
var templateFS embed.FS

type OfferService interface {
	List(ctx context.Context, filter offer.ListFilter) ([]*offer.ListItem, int64, error)
	Retrieve(ctx context.Context, viewer identity.Principal, id int64) (*offer.Offer, error)
	Similar(ctx context.Context, viewer identity.Principal, id int64) ([]*offer.ListItem, error)
	Create(ctx context.Context, p identity.Principal, dto offer.OfferDTO) (*offer.Offer, error)
	Mine(ctx context.Context, p identity.Principal, limit, offset int) ([]*offer.ListItem, int64, error)
}

type CategoryService interface {
	ListActive(ctx context.Context) ([]*category.Category, error)
}

type StatisticsService interface {
	General(ctx context.Context) (*statistics.General, error)
}

type ApplicationService interface {
	Create(ctx context.Context, p identity.Principal, dto application.CreateApplicationDTO) (*application.Application, error)
	List(ctx context.Context, p identity.Principal, filter application.ListFilter) ([]*application.Application, int64, error)
	ChangeStatus(ctx context.Context, p identity.Principal, id int64, dto application.ChangeStatusDTO) (*application.Application, error)
}

type AuthService interface {
	Authenticate(ctx context.Context, dto auth.LoginDTO) (*auth.AuthResponse, error)
	Register(ctx context.Context, dto user.RegisterDTO) (*auth.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (auth.AuthTokens, error)
	ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error)
	ResolvePrincipal(ctx context.Context, claims *auth.Claims) (identity.Principal, error)
	Logout(ctx context.Context, accessToken string, dto auth.LogoutDTO) error
}

// Services are the domain services behind the pages.
type Services struct {
	Offers       OfferService
	Categories   CategoryService
	Stats        StatisticsService
	Applications ApplicationService
	Auth         AuthService
}

type Pages struct {
	offers       OfferService
	categories   CategoryService
	stats        StatisticsService
	applications ApplicationService
	auth         AuthService
	session      SessionOptions
	pages        map[string]*template.Template
	logger       *slog.Logger
}

var templates = []string{
	"home.html", "offers.html", "offer_detail.html", "error.html",
	"login.html", "register.html",
	"employer_dashboard.html", "my_offers.html", "offer_form.html", "offer_applications.html",
	"applicant_dashboard.html", "my_applications.html",
}

func NewPages(svc Services, session SessionOptions, logger *slog.Logger) (*Pages, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if session.TTL <= 0 {
		session.TTL = 7 * 24 * time.Hour
	}
	pages := make(map[string]*template.Template)
	for _, name := range templates {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &Pages{
		offers:       svc.Offers,
		categories:   svc.Categories,
		stats:        svc.Stats,
		applications: svc.Applications,
		auth:         svc.Auth,
		session:      session,
		pages:        pages,
		logger:       logger,
	}, nil
}

// Routes mounts the pages on r.
func (p *Pages) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(p.loadSession)

		r.Get("/", p.Home)
		r.Get("/ofertas", p.Offers)
		r.Get("/ofertas/{id}", p.OfferDetail)

		r.Get("/login", p.LoginForm)
		r.Post("/login", p.Login)
		r.Get("/register", p.RegisterForm)
		r.Post("/register", p.Register)
		r.Post("/logout", p.Logout)
		r.Get("/dashboard", p.requireRole("", p.Dashboard))

		r.Get("/dashboard/empleador", p.requireRole(identity.RoleEmployer, p.EmployerDashboard))
		r.Get("/mis-ofertas", p.requireRole(identity.RoleEmployer, p.MyOffers))
		r.Get("/crear-oferta", p.requireRole(identity.RoleEmployer, p.OfferForm))
		r.Post("/crear-oferta", p.requireRole(identity.RoleEmployer, p.CreateOffer))
		r.Get("/ofertas/{id}/postulaciones", p.requireRole(identity.RoleEmployer, p.OfferApplications))
		r.Post("/ofertas/{id}/postulaciones", p.requireRole(identity.RoleEmployer, p.ChangeApplicationStatus))

		r.Get("/dashboard/postulante", p.requireRole(identity.RoleApplicant, p.ApplicantDashboard))
		r.Get("/postular/{id}", p.ApplyForm)
		r.Post("/postular/{id}", p.requireRole(identity.RoleApplicant, p.Apply))
		r.Get("/mis-postulaciones", p.requireRole(identity.RoleApplicant, p.MyApplications))
	})
}

type homeData struct {
	Featured   []*offer.ListItem
	Categories []*category.Category
	Stats      *statistics.General
}

// Home handles GET /
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	featured, _, err := p.offers.List(ctx, offer.ListFilter{Limit: featuredOffers})
	if err != nil {
		p.fail(w, r, err)
		return
	}
	categories, err := p.categories.ListActive(ctx)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	if len(categories) > homeCategories {
		categories = categories[:homeCategories]
	}
	stats, err := p.stats.General(ctx)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "home.html", homeData{Featured: featured, Categories: categories, Stats: stats})
}

type listData struct {
	Offers     []*offer.ListItem
	Categories []*category.Category
	Query      url.Values
	Total      int64
	Page       int
	Pages      int
	PrevURL    string
	NextURL    string
	Modes      []string
	Contracts  []string
	CategoryID int64
}

// Offers handles GET /ofertas
func (p *Pages) Offers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := offer.FilterFromQuery(q)
	if filter.Ordering == "" {
		filter.Ordering = q.Get("orden")
	}
	page := pageParam(r)
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	offers, total, err := p.offers.List(ctx, filter)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	categories, err := p.categories.ListActive(ctx)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	data := listData{
		Offers:     offers,
		Categories: categories,
		Query:      q,
		Total:      total,
		Page:       page,
		Pages:      pageCount(total),
		Modes:      offer.Modes,
		Contracts:  offer.ContractTypes,
	}
	if filter.CategoryID != nil {
		data.CategoryID = *filter.CategoryID
	}
	data.PrevURL, data.NextURL = pageLinks("/ofertas", q, page, data.Pages)

	p.render(w, r, http.StatusOK, "offers.html", data)
}

type detailData struct {
	Offer    *offer.Offer
	Similar  []*offer.ListItem
	LoggedIn bool
	CanApply bool
}

// OfferDetail handles GET /ofertas/{id}
func (p *Pages) OfferDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := offerID(r)
	if !ok {
		p.renderError(w, r, http.StatusNotFound, "Oferta no encontrada")
		return
	}

	viewer, _ := identity.FromContext(ctx)
	o, err := p.offers.Retrieve(ctx, viewer, id)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	similar, err := p.offers.Similar(ctx, viewer, id)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	if len(similar) > detailSimilar {
		similar = similar[:detailSimilar]
	}

	p.render(w, r, http.StatusOK, "offer_detail.html", detailData{
		Offer:    o,
		Similar:  similar,
		LoggedIn: viewer.UserID != 0,
		CanApply: viewer.IsApplicant() && o.Status == offer.StatusActive,
	})
}

func (p *Pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *internal.AppError
	if errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound {
		p.renderError(w, r, http.StatusNotFound, appErr.Message)
		return
	}
	p.logger.Error("web: page failed", "path", r.URL.Path, "error", err)
	p.renderError(w, r, http.StatusInternalServerError, "Ocurrió un error inesperado")
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	p.render(w, r, status, "error.html", struct {
		Status  int
		Message string
	}{status, message})
}

// userMessage is what a form shows for err. Client errors carry their own
// message; anything else is logged and replaced.
func (p *Pages) userMessage(r *http.Request, err error) string {
	var appErr *internal.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
		return appErr.Error()
	}
	p.logger.Error("web: action failed", "path", r.URL.Path, "error", err)
	return "Ocurrió un error inesperado"
}

// view is what the layout renders; pages see only Data.
type view struct {
	User  *identity.Principal
	Flash *flash
	Data  interface{}
}

// render executes into a buffer so a template error never leaves a half written page.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	v := view{Flash: p.takeFlash(w, r), Data: data}
	if s, ok := sessionFrom(r.Context()); ok {
		v.User = &s.principal
	}

	var buf bytes.Buffer
	if err := p.pages[name].ExecuteTemplate(&buf, "layout", v); err != nil {
		p.logger.Error("web: template failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pageURL(path string, q url.Values, page int) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	next.Set("page", strconv.Itoa(page))
	return path + "?" + next.Encode()
}

var funcs = template.FuncMap{
	"label":  label,
	"salary": salary,
	"date":   date,
	"day":    func(t time.Time) string { return t.Format("02/01/2006") },
	"deref":  deref,
	"eq64":   func(a, b int64) bool { return a == b },
}

// label turns an enum value such as "tiempo_completo" into "Tiempo completo".
func label(v string) string {
	v = strings.ReplaceAll(v, "_", " ")
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

func salary(min, max *float64, currency string) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s %.0f - %.0f", currency, *min, *max)
	case min != nil:
		return fmt.Sprintf("Desde %s %.0f", currency, *min)
	case max != nil:
		return fmt.Sprintf("Hasta %s %.0f", currency, *max)
	}
	return "A convenir"
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
