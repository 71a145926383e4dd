package application

import (
	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
)

type CreateApplicationDTO struct {
	OfferID     int64   `json:"oferta"`
	CoverLetter *string `json:"carta_presentacion"`
	CVURL       *string `json:"cv_url_postulacion"`
}

func (d *CreateApplicationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("oferta", d.OfferID).Required()
	v.Field("cv_url_postulacion", d.CVURL).URL().MaxLength(500)
	return v.Validate()
}

type ChangeStatusDTO struct {
	Status        string  `json:"estado"`
	EmployerNotes *string `json:"notas_empleador"`
	MatchScore    *int    `json:"puntuacion_match"`
}

func (d *ChangeStatusDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("estado", d.Status).Custom(func(interface{}) *internal.AppError {
		if !ValidStatus(d.Status) {
			return internal.NewValidationFieldError("estado", "Estado inválido", internal.ErrCodeInvalidChoice)
		}
		return nil
	})
	v.Field("puntuacion_match", d.MatchScore).Range(0, 100)
	return v.Validate()
}

// ListFilter scopes a listing. Exactly one of ApplicantID and CompanyID is
// set for non admin callers.
type ListFilter struct {
	ApplicantID *int64
	CompanyID   *int64
	OfferID     *int64
	Status      string
	Limit       int
	Offset      int
}
