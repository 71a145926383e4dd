package web_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/application"
	"github.com/frahmantamala/empleoya/internal/auth"
	"github.com/frahmantamala/empleoya/internal/category"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/offer"
	"github.com/frahmantamala/empleoya/internal/statistics"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/frahmantamala/empleoya/internal/web"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWeb(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Web Suite")
}

type offerStub struct {
	items      []*offer.ListItem
	total      int64
	lastFilter offer.ListFilter
	detail     *offer.Offer
	err        error

	created   *offer.OfferDTO
	createErr error
	mineBy    identity.Principal
}

func (s *offerStub) List(ctx context.Context, filter offer.ListFilter) ([]*offer.ListItem, int64, error) {
	s.lastFilter = filter
	return s.items, s.total, s.err
}

func (s *offerStub) Retrieve(ctx context.Context, viewer identity.Principal, id int64) (*offer.Offer, error) {
	if s.detail == nil || s.detail.ID != id {
		return nil, offer.ErrNotFound
	}
	s.detail.Views++
	return s.detail, nil
}

func (s *offerStub) Similar(ctx context.Context, viewer identity.Principal, id int64) ([]*offer.ListItem, error) {
	return s.items, nil
}

func (s *offerStub) Create(ctx context.Context, p identity.Principal, dto offer.OfferDTO) (*offer.Offer, error) {
	s.created = &dto
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &offer.Offer{ID: 8, Title: *dto.Title}, nil
}

func (s *offerStub) Mine(ctx context.Context, p identity.Principal, limit, offset int) ([]*offer.ListItem, int64, error) {
	s.mineBy = p
	return s.items, s.total, s.err
}

type categoryStub struct{}

func (categoryStub) ListActive(ctx context.Context) ([]*category.Category, error) {
	return []*category.Category{{ID: 1, Name: "Tecnología", OfferCount: 2}, {ID: 2, Name: "Salud"}}, nil
}

type statsStub struct{}

func (statsStub) General(ctx context.Context) (*statistics.General, error) {
	return &statistics.General{ActiveOffers: 2, Companies: 1, Applicants: 3, ActiveCategories: 2}, nil
}

type applicationStub struct {
	items      []*application.Application
	lastFilter application.ListFilter
	created    *application.CreateApplicationDTO
	createErr  error
	changedID  int64
	changed    *application.ChangeStatusDTO
}

func (s *applicationStub) Create(ctx context.Context, p identity.Principal, dto application.CreateApplicationDTO) (*application.Application, error) {
	s.created = &dto
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &application.Application{ID: 1, OfferID: dto.OfferID, Status: application.StatusPending}, nil
}

func (s *applicationStub) List(ctx context.Context, p identity.Principal, filter application.ListFilter) ([]*application.Application, int64, error) {
	s.lastFilter = filter
	return s.items, int64(len(s.items)), nil
}

func (s *applicationStub) ChangeStatus(ctx context.Context, p identity.Principal, id int64, dto application.ChangeStatusDTO) (*application.Application, error) {
	s.changedID, s.changed = id, &dto
	return &application.Application{ID: id, Status: dto.Status}, nil
}

// authStub issues opaque tokens and keeps the session state in maps.
type authStub struct {
	accounts map[string]identity.Principal
	access   map[string]int64
	refresh  map[string]int64
	revoked  []string
	seq      int
}

func newAuthStub() *authStub {
	company, profile := int64(3), int64(4)
	return &authStub{
		accounts: map[string]identity.Principal{
			"ana@acme.com": {UserID: 1, Email: "ana@acme.com", Role: identity.RoleEmployer, CompanyID: &company},
			"luis@x.com":   {UserID: 2, Email: "luis@x.com", Role: identity.RoleApplicant, ProfileID: &profile},
		},
		access:  map[string]int64{},
		refresh: map[string]int64{},
	}
}

func (a *authStub) issue(userID int64) auth.AuthTokens {
	a.seq++
	tokens := auth.AuthTokens{
		AccessToken:  "access-" + string(rune('a'+a.seq)),
		RefreshToken: "refresh-" + string(rune('a'+a.seq)),
	}
	a.access[tokens.AccessToken] = userID
	a.refresh[tokens.RefreshToken] = userID
	return tokens
}

// login returns session cookies for email without going through the form.
func (a *authStub) login(email string) []*http.Cookie {
	tokens := a.issue(a.accounts[email].UserID)
	return []*http.Cookie{
		{Name: web.AccessCookie, Value: tokens.AccessToken},
		{Name: web.RefreshCookie, Value: tokens.RefreshToken},
	}
}

func (a *authStub) principal(userID int64) (identity.Principal, bool) {
	for _, p := range a.accounts {
		if p.UserID == userID {
			return p, true
		}
	}
	return identity.Principal{}, false
}

func (a *authStub) Authenticate(ctx context.Context, dto auth.LoginDTO) (*auth.AuthResponse, error) {
	p, ok := a.accounts[dto.Email]
	if !ok || dto.Password != "clave123" {
		return nil, internal.ErrInvalidCredentials
	}
	return &auth.AuthResponse{AuthTokens: a.issue(p.UserID), User: &user.User{ID: p.UserID, Email: p.Email, FirstName: "Ana"}}, nil
}

func (a *authStub) Register(ctx context.Context, dto user.RegisterDTO) (*auth.AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	p := identity.Principal{UserID: int64(len(a.accounts) + 10), Email: dto.Email, Role: dto.Role}
	a.accounts[dto.Email] = p
	return &auth.AuthResponse{AuthTokens: a.issue(p.UserID), User: &user.User{ID: p.UserID, FirstName: dto.FirstName}}, nil
}

func (a *authStub) RefreshTokens(ctx context.Context, refreshToken string) (auth.AuthTokens, error) {
	userID, ok := a.refresh[refreshToken]
	if !ok {
		return auth.AuthTokens{}, internal.ErrInvalidToken
	}
	delete(a.refresh, refreshToken)
	return a.issue(userID), nil
}

func (a *authStub) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	userID, ok := a.access[token]
	if !ok {
		return nil, internal.ErrTokenExpired
	}
	return &auth.Claims{UserID: userID}, nil
}

func (a *authStub) ResolvePrincipal(ctx context.Context, claims *auth.Claims) (identity.Principal, error) {
	p, ok := a.principal(claims.UserID)
	if !ok {
		return identity.Principal{}, internal.ErrInvalidToken
	}
	return p, nil
}

func (a *authStub) Logout(ctx context.Context, accessToken string, dto auth.LogoutDTO) error {
	a.revoked = append(a.revoked, accessToken, dto.RefreshToken)
	delete(a.access, accessToken)
	delete(a.refresh, dto.RefreshToken)
	return nil
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var _ = Describe("Pages", func() {
	var (
		offers *offerStub
		apps   *applicationStub
		authn  *authStub
		router *chi.Mux
	)

	BeforeEach(func() {
		min, max := 3000.0, 5000.0
		lima := "Lima"
		offers = &offerStub{
			items: []*offer.ListItem{
				{ID: 7, Title: "Backend Dev", CompanyName: "Acme", Location: &lima, Mode: "remoto", ContractType: "tiempo_completo", ExperienceLevel: "senior", SalaryMin: &min, SalaryMax: &max, Currency: "PEN", Status: offer.StatusActive},
			},
			total:  25,
			detail: &offer.Offer{ID: 7, Title: "Backend Dev", Description: "Go & SQL", Mode: "remoto", ContractType: "tiempo_completo", ExperienceLevel: "senior", Currency: "PEN", Vacancies: 1, Status: offer.StatusActive},
		}
		apps = &applicationStub{}
		authn = newAuthStub()
		pages, err := web.NewPages(web.Services{
			Offers:       offers,
			Categories:   categoryStub{},
			Stats:        statsStub{},
			Applications: apps,
			Auth:         authn,
		}, web.SessionOptions{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(err).NotTo(HaveOccurred())
		router = chi.NewRouter()
		pages.Routes(router)
	})

	send := func(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req := httptest.NewRequest(method, path, body)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	get := func(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		return send(http.MethodGet, path, nil, cookies...)
	}

	Describe("public catalogue", func() {
		It("renders the home page with featured offers, categories and stats", func() {
			rec := get("/")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
			body := rec.Body.String()
			Expect(body).To(ContainSubstring("Backend Dev"))
			Expect(body).To(ContainSubstring("Tecnología"))
			Expect(body).To(ContainSubstring("PEN 3000 - 5000"))
			Expect(body).To(ContainSubstring(`href="/login"`))
			Expect(offers.lastFilter.Limit).To(Equal(6))
		})

		It("passes list filters and paginates by twelve", func() {
			rec := get("/ofertas?modalidad=remoto&categoria=1&orden=-vistas&page=2")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(offers.lastFilter.Mode).To(Equal("remoto"))
			Expect(*offers.lastFilter.CategoryID).To(Equal(int64(1)))
			Expect(offers.lastFilter.Ordering).To(Equal("-vistas"))
			Expect(offers.lastFilter.Limit).To(Equal(12))
			Expect(offers.lastFilter.Offset).To(Equal(12))
			Expect(rec.Body.String()).To(ContainSubstring("Página 2 de 3"))
		})

		It("renders the detail page and escapes content", func() {
			rec := get("/ofertas/7")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Go &amp; SQL"))
			Expect(rec.Body.String()).To(ContainSubstring("1 vistas"))
			Expect(rec.Body.String()).To(ContainSubstring("/login?next=/ofertas/7"))
			Expect(rec.Body.String()).NotTo(ContainSubstring(`action="/postular/7"`))
		})

		It("answers 404 for unknown offers", func() {
			Expect(get("/ofertas/99").Code).To(Equal(http.StatusNotFound))
			Expect(get("/ofertas/abc").Code).To(Equal(http.StatusNotFound))
		})

		It("answers 500 when a dependency fails", func() {
			offers.err = errors.New("db down")
			rec := get("/")
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).NotTo(ContainSubstring("db down"))
		})
	})

	Describe("sessions", func() {
		It("sends anonymous visitors of private pages to the login form", func() {
			rec := get("/mis-ofertas")
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/login?next=%2Fmis-ofertas"))
		})

		It("signs in with the form and keeps the tokens in http only cookies", func() {
			rec := send(http.MethodPost, "/login", url.Values{"email": {"ana@acme.com"}, "password": {"clave123"}, "next": {"/mis-ofertas"}})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/mis-ofertas"))

			access := cookieNamed(rec, web.AccessCookie)
			Expect(access).NotTo(BeNil())
			Expect(access.HttpOnly).To(BeTrue())
			Expect(access.SameSite).To(Equal(http.SameSiteLaxMode))
			Expect(authn.access).To(HaveKey(access.Value))
			Expect(cookieNamed(rec, web.RefreshCookie)).NotTo(BeNil())
			Expect(cookieNamed(rec, web.FlashCookie)).NotTo(BeNil())
		})

		It("never redirects off site after login", func() {
			rec := send(http.MethodPost, "/login", url.Values{"email": {"ana@acme.com"}, "password": {"clave123"}, "next": {"//evil.example"}})
			Expect(rec.Header().Get("Location")).To(Equal("/dashboard"))
		})

		It("re-renders the login form on bad credentials", func() {
			rec := send(http.MethodPost, "/login", url.Values{"email": {"ana@acme.com"}, "password": {"nope"}})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Body.String()).To(ContainSubstring("Email o contraseña incorrectos"))
			Expect(rec.Body.String()).To(ContainSubstring(`value="ana@acme.com"`))
			Expect(cookieNamed(rec, web.AccessCookie)).To(BeNil())
		})

		It("registers and signs in the new account", func() {
			rec := send(http.MethodPost, "/register", url.Values{
				"email":        {"eva@x.com"},
				"password":     {"clave123"},
				"password2":    {"clave123"},
				"nombre":       {"Eva"},
				"tipo_usuario": {"postulante"},
			})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/dashboard"))
			Expect(cookieNamed(rec, web.AccessCookie)).NotTo(BeNil())
			Expect(authn.accounts).To(HaveKey("eva@x.com"))
		})

		It("keeps the registration form when validation fails", func() {
			rec := send(http.MethodPost, "/register", url.Values{
				"email":        {"eva@x.com"},
				"password":     {"clave123"},
				"password2":    {"otra1234"},
				"nombre":       {"Eva"},
				"tipo_usuario": {"empleador"},
			})
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("Las contraseñas no coinciden"))
			Expect(rec.Body.String()).To(ContainSubstring(`value="eva@x.com"`))
			Expect(authn.accounts).NotTo(HaveKey("eva@x.com"))
		})

		It("resumes the session from the cookies", func() {
			rec := get("/", authn.login("ana@acme.com")...)
			Expect(rec.Body.String()).To(ContainSubstring("ana@acme.com"))
			Expect(rec.Body.String()).To(ContainSubstring(`action="/logout"`))
		})

		It("renews an expired access token with the refresh cookie", func() {
			cookies := authn.login("ana@acme.com")
			delete(authn.access, cookies[0].Value)

			rec := get("/mis-ofertas", cookies...)
			Expect(rec.Code).To(Equal(http.StatusOK))
			renewed := cookieNamed(rec, web.AccessCookie)
			Expect(renewed).NotTo(BeNil())
			Expect(renewed.Value).NotTo(Equal(cookies[0].Value))
			Expect(authn.refresh).NotTo(HaveKey(cookies[1].Value))
		})

		It("drops a session that can no longer be resumed", func() {
			rec := get("/mis-ofertas",
				&http.Cookie{Name: web.AccessCookie, Value: "stale"},
				&http.Cookie{Name: web.RefreshCookie, Value: "stale"})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(cookieNamed(rec, web.AccessCookie).MaxAge).To(BeNumerically("<", 0))
		})

		It("logs out revoking both tokens", func() {
			cookies := authn.login("ana@acme.com")
			rec := send(http.MethodPost, "/logout", url.Values{}, cookies...)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/"))
			Expect(authn.revoked).To(ConsistOf(cookies[0].Value, cookies[1].Value))
			Expect(cookieNamed(rec, web.AccessCookie).MaxAge).To(BeNumerically("<", 0))
		})

		It("shows the flash message once", func() {
			rec := get("/", &http.Cookie{Name: web.FlashCookie, Value: url.QueryEscape("ok:Oferta creada exitosamente")})
			Expect(rec.Body.String()).To(ContainSubstring("Oferta creada exitosamente"))
			Expect(cookieNamed(rec, web.FlashCookie).MaxAge).To(BeNumerically("<", 0))
		})

		It("forwards /dashboard to the dashboard of the role", func() {
			Expect(get("/dashboard", authn.login("ana@acme.com")...).Header().Get("Location")).To(Equal("/dashboard/empleador"))
			Expect(get("/dashboard", authn.login("luis@x.com")...).Header().Get("Location")).To(Equal("/dashboard/postulante"))
		})

		It("keeps applicants out of employer pages", func() {
			rec := get("/crear-oferta", authn.login("luis@x.com")...)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/dashboard"))
		})
	})

	Describe("employer pages", func() {
		var cookies []*http.Cookie

		BeforeEach(func() {
			cookies = authn.login("ana@acme.com")
		})

		It("renders the dashboard with the company offers and applications", func() {
			apps.items = []*application.Application{{ID: 5, OfferID: 7, OfferTitle: "Backend Dev", ApplicantName: "Luis Pérez", Status: application.StatusPending}}
			rec := get("/dashboard/empleador", cookies...)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Luis Pérez"))
			Expect(rec.Body.String()).To(ContainSubstring("/ofertas/7/postulaciones"))
			Expect(offers.mineBy.UserID).To(Equal(int64(1)))
		})

		It("creates an offer from the form", func() {
			rec := send(http.MethodPost, "/crear-oferta", url.Values{
				"titulo":               {"Data Engineer"},
				"descripcion":          {"Pipelines"},
				"modalidad":            {"hibrido"},
				"tipo_contrato":        {"tiempo_completo"},
				"nivel_experiencia":    {"junior"},
				"categoria":            {"1"},
				"salario_min":          {"2500.50"},
				"vacantes_disponibles": {"2"},
				"fecha_expiracion":     {"2030-01-31"},
				"beneficios":           {"  "},
			}, cookies...)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/mis-ofertas"))

			dto := offers.created
			Expect(*dto.Title).To(Equal("Data Engineer"))
			Expect(*dto.CategoryID).To(Equal(int64(1)))
			Expect(*dto.SalaryMin).To(Equal(2500.50))
			Expect(dto.SalaryMax).To(BeNil())
			Expect(*dto.Vacancies).To(Equal(2))
			Expect(dto.ExpiresAt.Format("2006-01-02")).To(Equal("2030-01-31"))
			Expect(dto.Benefits).To(BeNil())
		})

		It("keeps the form values when the offer is rejected", func() {
			offers.createErr = internal.NewValidationFieldError("salario_max", "salario_max debe ser mayor o igual a salario_min", internal.ErrCodeInvalidSalaryRange)
			rec := send(http.MethodPost, "/crear-oferta", url.Values{"titulo": {"Data Engineer"}, "descripcion": {"x"}}, cookies...)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("salario_max debe ser mayor o igual a salario_min"))
			Expect(rec.Body.String()).To(ContainSubstring(`value="Data Engineer"`))
		})

		It("rejects malformed numbers before calling the service", func() {
			rec := send(http.MethodPost, "/crear-oferta", url.Values{"titulo": {"Data Engineer"}, "salario_min": {"mucho"}}, cookies...)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("Valor inválido en salario_min"))
			Expect(offers.created).To(BeNil())
		})

		It("lists the applications of an offer filtered by status", func() {
			apps.items = []*application.Application{{ID: 5, OfferID: 7, OfferTitle: "Backend Dev", ApplicantName: "Luis Pérez", Status: application.StatusInReview}}
			rec := get("/ofertas/7/postulaciones?estado=en_revision&page=2", cookies...)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Postulaciones: Backend Dev"))
			Expect(*apps.lastFilter.OfferID).To(Equal(int64(7)))
			Expect(apps.lastFilter.Status).To(Equal(application.StatusInReview))
			Expect(apps.lastFilter.Offset).To(Equal(12))
		})

		It("changes an application status and returns to the list", func() {
			rec := send(http.MethodPost, "/ofertas/7/postulaciones", url.Values{
				"postulacion":     {"5"},
				"estado":          {application.StatusShortlisted},
				"notas_empleador": {"buen perfil"},
			}, cookies...)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/ofertas/7/postulaciones"))
			Expect(apps.changedID).To(Equal(int64(5)))
			Expect(apps.changed.Status).To(Equal(application.StatusShortlisted))
			Expect(*apps.changed.EmployerNotes).To(Equal("buen perfil"))
		})
	})

	Describe("applicant pages", func() {
		var cookies []*http.Cookie

		BeforeEach(func() {
			cookies = authn.login("luis@x.com")
		})

		It("offers the application form on active offers", func() {
			rec := get("/ofertas/7", cookies...)
			Expect(rec.Body.String()).To(ContainSubstring(`action="/postular/7"`))
		})

		It("applies and lands on mis postulaciones", func() {
			rec := send(http.MethodPost, "/postular/7", url.Values{"carta_presentacion": {"Me interesa"}}, cookies...)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/mis-postulaciones"))
			Expect(apps.created.OfferID).To(Equal(int64(7)))
			Expect(*apps.created.CoverLetter).To(Equal("Me interesa"))
			Expect(apps.created.CVURL).To(BeNil())
		})

		It("explains a repeated application on the offer page", func() {
			apps.createErr = application.ErrAlreadyApplied
			rec := send(http.MethodPost, "/postular/7", url.Values{}, cookies...)
			Expect(rec.Header().Get("Location")).To(Equal("/ofertas/7"))

			flash := cookieNamed(rec, web.FlashCookie)
			Expect(flash).NotTo(BeNil())
			page := get("/ofertas/7", append(cookies, flash)...)
			Expect(page.Body.String()).To(ContainSubstring("Ya has postulado a esta oferta"))
		})

		It("lists the own applications", func() {
			apps.items = []*application.Application{{ID: 5, OfferID: 7, OfferTitle: "Backend Dev", CompanyName: "Acme", Status: application.StatusInterview}}
			rec := get("/mis-postulaciones", cookies...)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Entrevista"))
			Expect(apps.lastFilter.Limit).To(Equal(12))
		})

		It("renders the dashboard with applications in progress", func() {
			apps.items = []*application.Application{{ID: 5, OfferID: 7, OfferTitle: "Backend Dev", CompanyName: "Acme", Status: application.StatusPending}}
			rec := get("/dashboard/postulante", cookies...)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Backend Dev"))
			Expect(rec.Body.String()).To(ContainSubstring("<strong>4</strong> en proceso"))
		})
	})
})
