package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/empleoya/internal/application"
	"github.com/frahmantamala/empleoya/internal/offer"
)

type applicantDashboardData struct {
	Applications []*application.Application
	Total        int64
	InProgress   int64
	Recommended  []*offer.ListItem
}

// ApplicantDashboard handles GET /dashboard/postulante
func (p *Pages) ApplicantDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)

	apps, total, err := p.applications.List(ctx, s.principal, application.ListFilter{Limit: dashboardRecent})
	if err != nil {
		p.fail(w, r, err)
		return
	}
	var inProgress int64
	for _, status := range application.InProgress {
		_, n, err := p.applications.List(ctx, s.principal, application.ListFilter{Status: status, Limit: 1})
		if err != nil {
			p.fail(w, r, err)
			return
		}
		inProgress += n
	}
	recommended, _, err := p.offers.List(ctx, offer.ListFilter{Limit: dashboardRecent})
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "applicant_dashboard.html", applicantDashboardData{
		Applications: apps,
		Total:        total,
		InProgress:   inProgress,
		Recommended:  recommended,
	})
}

// ApplyForm handles GET /postular/{id}. The form lives on the offer page.
func (p *Pages) ApplyForm(w http.ResponseWriter, r *http.Request) {
	id, ok := offerID(r)
	if !ok {
		p.renderError(w, r, http.StatusNotFound, "Oferta no encontrada")
		return
	}
	http.Redirect(w, r, "/ofertas/"+strconv.FormatInt(id, 10)+"#postular", http.StatusSeeOther)
}

// Apply handles POST /postular/{id}
func (p *Pages) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)
	id, ok := offerID(r)
	if !ok {
		p.renderError(w, r, http.StatusNotFound, "Oferta no encontrada")
		return
	}
	detail := "/ofertas/" + strconv.FormatInt(id, 10)
	if err := r.ParseForm(); err != nil {
		p.renderError(w, r, http.StatusBadRequest, "Formulario inválido")
		return
	}

	_, err := p.applications.Create(ctx, s.principal, application.CreateApplicationDTO{
		OfferID:     id,
		CoverLetter: text(r.PostForm, "carta_presentacion"),
		CVURL:       text(r.PostForm, "cv_url_postulacion"),
	})
	switch {
	case errors.Is(err, application.ErrAlreadyApplied):
		p.redirect(w, r, detail, flashError, "Ya has postulado a esta oferta")
		return
	case err != nil:
		p.redirect(w, r, detail, flashError, p.userMessage(r, err))
		return
	}

	p.redirect(w, r, "/mis-postulaciones", flashOK, "¡Postulación enviada exitosamente!")
}

type myApplicationsData struct {
	Applications []*application.Application
	Total        int64
	Page         int
	Pages        int
	PrevURL      string
	NextURL      string
}

// MyApplications handles GET /mis-postulaciones
func (p *Pages) MyApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := sessionFrom(ctx)
	page := pageParam(r)

	apps, total, err := p.applications.List(ctx, s.principal, application.ListFilter{Limit: pageSize, Offset: (page - 1) * pageSize})
	if err != nil {
		p.fail(w, r, err)
		return
	}

	data := myApplicationsData{Applications: apps, Total: total, Page: page, Pages: pageCount(total)}
	data.PrevURL, data.NextURL = pageLinks("/mis-postulaciones", url.Values{}, page, data.Pages)
	p.render(w, r, http.StatusOK, "my_applications.html", data)
}
