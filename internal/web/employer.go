package web

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/empleoya/internal/application"
	"github.com/frahmantamala/empleoya/internal/category"
	"github.com/frahmantamala/empleoya/internal/offer"
	"github.com/go-chi/chi"
)

type employerDashboardData struct {
	Offers              []*offer.ListItem
	TotalOffers         int64
	Applications        []*application.Application
	TotalApplications   int64
	PendingApplications int64
}

// EmployerDashboard handles GET /dashboard/empleador
func (p *Pages) EmployerDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)

	offers, totalOffers, err := p.offers.Mine(ctx, s.principal, dashboardRecent, 0)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	apps, totalApps, err := p.applications.List(ctx, s.principal, application.ListFilter{Limit: dashboardRecent})
	if err != nil {
		p.fail(w, r, err)
		return
	}
	_, pending, err := p.applications.List(ctx, s.principal, application.ListFilter{Status: application.StatusPending, Limit: 1})
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "employer_dashboard.html", employerDashboardData{
		Offers:              offers,
		TotalOffers:         totalOffers,
		Applications:        apps,
		TotalApplications:   totalApps,
		PendingApplications: pending,
	})
}

type myOffersData struct {
	Offers  []*offer.ListItem
	Total   int64
	Page    int
	Pages   int
	PrevURL string
	NextURL string
}

// MyOffers handles GET /mis-ofertas
func (p *Pages) MyOffers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)
	page := pageParam(r)

	offers, total, err := p.offers.Mine(ctx, s.principal, pageSize, (page-1)*pageSize)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	data := myOffersData{Offers: offers, Total: total, Page: page, Pages: pageCount(total)}
	data.PrevURL, data.NextURL = pageLinks("/mis-ofertas", url.Values{}, page, data.Pages)
	p.render(w, r, http.StatusOK, "my_offers.html", data)
}

type offerFormData struct {
	Form       url.Values
	Categories []*category.Category
	Modes      []string
	Contracts  []string
	Levels     []string
	Error      string
}

// OfferForm handles GET /crear-oferta
func (p *Pages) OfferForm(w http.ResponseWriter, r *http.Request) {
	p.renderOfferForm(w, r, http.StatusOK, url.Values{"moneda": {"PEN"}, "vacantes_disponibles": {"1"}}, "")
}

// CreateOffer handles POST /crear-oferta
func (p *Pages) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, http.StatusBadRequest, "Formulario inválido")
		return
	}

	dto, err := offerFromForm(r.PostForm)
	if err == nil {
		_, err = p.offers.Create(ctx, s.principal, dto)
	}
	if err != nil {
		p.renderOfferForm(w, r, http.StatusUnprocessableEntity, r.PostForm, p.userMessage(r, err))
		return
	}

	p.redirect(w, r, "/mis-ofertas", flashOK, "Oferta creada exitosamente")
}

func (p *Pages) renderOfferForm(w http.ResponseWriter, r *http.Request, status int, form url.Values, message string) {
	categories, err := p.categories.ListActive(r.Context())
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.render(w, r, status, "offer_form.html", offerFormData{
		Form:       form,
		Categories: categories,
		Modes:      offer.Modes,
		Contracts:  offer.ContractTypes,
		Levels:     offer.ExperienceLevels,
		Error:      message,
	})
}

type offerApplicationsData struct {
	OfferID      int64
	OfferTitle   string
	Applications []*application.Application
	Statuses     []string
	Status       string
	Total        int64
	Page         int
	Pages        int
	PrevURL      string
	NextURL      string
}

// OfferApplications handles GET /ofertas/{id}/postulaciones. The listing is
// scoped to the employer's company, so foreign offers come back empty.
func (p *Pages) OfferApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)
	id, ok := offerID(r)
	if !ok {
		p.renderError(w, r, http.StatusNotFound, "Oferta no encontrada")
		return
	}

	status := r.URL.Query().Get("estado")
	if !application.ValidStatus(status) {
		status = ""
	}
	page := pageParam(r)
	apps, total, err := p.applications.List(ctx, s.principal, application.ListFilter{
		OfferID: &id,
		Status:  status,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	})
	if err != nil {
		p.fail(w, r, err)
		return
	}

	data := offerApplicationsData{
		OfferID:      id,
		Applications: apps,
		Statuses:     application.Statuses,
		Status:       status,
		Total:        total,
		Page:         page,
		Pages:        pageCount(total),
	}
	if len(apps) > 0 {
		data.OfferTitle = apps[0].OfferTitle
	}
	q := url.Values{}
	if status != "" {
		q.Set("estado", status)
	}
	data.PrevURL, data.NextURL = pageLinks(r.URL.Path, q, page, data.Pages)
	p.render(w, r, http.StatusOK, "offer_applications.html", data)
}

// ChangeApplicationStatus handles POST /ofertas/{id}/postulaciones
func (p *Pages) ChangeApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)
	id, ok := offerID(r)
	if !ok {
		p.renderError(w, r, http.StatusNotFound, "Oferta no encontrada")
		return
	}
	back := "/ofertas/" + strconv.FormatInt(id, 10) + "/postulaciones"
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, http.StatusBadRequest, "Formulario inválido")
		return
	}

	appID, err := strconv.ParseInt(r.PostForm.Get("postulacion"), 10, 64)
	if err != nil || appID <= 0 {
		p.redirect(w, r, back, flashError, "Postulación no encontrada")
		return
	}
	dto := application.ChangeStatusDTO{
		Status:        r.PostForm.Get("estado"),
		EmployerNotes: text(r.PostForm, "notas_empleador"),
	}
	updated, err := p.applications.ChangeStatus(ctx, s.principal, appID, dto)
	if err != nil {
		p.redirect(w, r, back, flashError, p.userMessage(r, err))
		return
	}

	p.redirect(w, r, back, flashOK, "Estado actualizado a: "+label(updated.Status))
}

func offerID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func pageParam(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 1 {
		return n
	}
	return 1
}

func pageCount(total int64) int {
	return int(math.Ceil(float64(total) / pageSize))
}

// pageLinks builds the previous and next links of a paginated listing.
func pageLinks(path string, q url.Values, page, pages int) (prev, next string) {
	if page > 1 {
		prev = pageURL(path, q, page-1)
	}
	if page < pages {
		next = pageURL(path, q, page+1)
	}
	return prev, next
}
