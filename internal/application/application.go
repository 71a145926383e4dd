package application

import (
	"strings"
	"time"

	applicationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/application"
)

const (
	StatusPending     = "pendiente"
	StatusInReview    = "en_revision"
	StatusShortlisted = "preseleccionado"
	StatusInterview   = "entrevista"
	StatusRejected    = "rechazado"
	StatusAccepted    = "aceptado"
)

var Statuses = []string{StatusPending, StatusInReview, StatusShortlisted, StatusInterview, StatusRejected, StatusAccepted}

// InProgress are the statuses still awaiting a final decision.
var InProgress = []string{StatusPending, StatusInReview, StatusShortlisted, StatusInterview}

func ValidStatus(s string) bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Application struct {
	ID              int64      `json:"id"`
	OfferID         int64      `json:"oferta"`
	OfferTitle      string     `json:"oferta_titulo"`
	CompanyName     string     `json:"empresa_nombre"`
	ApplicantID     int64      `json:"postulante"`
	ApplicantName   string     `json:"postulante_nombre"`
	ApplicantEmail  string     `json:"postulante_email"`
	AppliedAt       time.Time  `json:"fecha_postulacion"`
	Status          string     `json:"estado"`
	MatchScore      *int       `json:"puntuacion_match"`
	CoverLetter     *string    `json:"carta_presentacion"`
	CVURL           *string    `json:"cv_url_postulacion"`
	StatusChangedAt *time.Time `json:"fecha_cambio_estado"`
	EmployerNotes   *string    `json:"notas_empleador,omitempty"`
}

func FromDataModel(a *applicationDatamodel.Application) *Application {
	out := &Application{
		ID:              a.ID,
		OfferID:         a.OfferID,
		ApplicantID:     a.ApplicantID,
		AppliedAt:       a.AppliedAt,
		Status:          a.Status,
		MatchScore:      a.MatchScore,
		CoverLetter:     a.CoverLetter,
		CVURL:           a.CVURL,
		StatusChangedAt: a.StatusChangedAt,
		EmployerNotes:   a.EmployerNotes,
	}
	if a.Offer != nil {
		out.OfferTitle = a.Offer.Title
		if a.Offer.Company != nil {
			out.CompanyName = a.Offer.Company.Name
		}
	}
	if a.Applicant != nil && a.Applicant.User != nil {
		out.ApplicantName = strings.TrimSpace(a.Applicant.User.FirstName + " " + a.Applicant.User.LastName)
		out.ApplicantEmail = a.Applicant.User.Email
	}
	return out
}
