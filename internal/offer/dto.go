package offer

import (
	"strings"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
)

var ErrInvalidSalaryRange = internal.NewValidationFieldError("salario_min", "el salario mínimo no puede ser mayor al máximo", internal.ErrCodeInvalidSalaryRange)

// OfferDTO is the write shape for create, PUT and PATCH.
type OfferDTO struct {
	Title            *string    `json:"titulo"`
	Description      *string    `json:"descripcion"`
	Requirements     *string    `json:"requisitos"`
	Responsibilities *string    `json:"responsabilidades"`
	Benefits         *string    `json:"beneficios"`
	CategoryID       *int64     `json:"categoria"`
	SalaryMin        *float64   `json:"salario_min"`
	SalaryMax        *float64   `json:"salario_max"`
	Currency         *string    `json:"moneda"`
	Location         *string    `json:"ubicacion"`
	Mode             *string    `json:"modalidad"`
	ContractType     *string    `json:"tipo_contrato"`
	ExperienceLevel  *string    `json:"nivel_experiencia"`
	Vacancies        *int       `json:"vacantes_disponibles"`
	ExpiresAt        *time.Time `json:"fecha_expiracion"`
	DesiredStartDate *time.Time `json:"fecha_inicio_deseada"`
	Status           *string    `json:"estado"`
}

// Validate checks formats; full is true for create and PUT.
func (d *OfferDTO) Validate(full bool) *internal.AppError {
	if d.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*d.Currency))
		d.Currency = &cur
	}

	v := validation.NewValidator()
	if full {
		v.Field("titulo", d.Title).Required()
		v.Field("descripcion", d.Description).Required()
		v.Field("modalidad", d.Mode).Required()
		v.Field("tipo_contrato", d.ContractType).Required()
		v.Field("nivel_experiencia", d.ExperienceLevel).Required()
	}
	v.Field("titulo", d.Title).MaxLength(200)
	v.Field("modalidad", d.Mode).OneOf(Modes...)
	v.Field("tipo_contrato", d.ContractType).OneOf(ContractTypes...)
	v.Field("nivel_experiencia", d.ExperienceLevel).OneOf(ExperienceLevels...)
	v.Field("estado", d.Status).OneOf(Statuses...)
	v.Field("salario_min", d.SalaryMin).NonNegative()
	v.Field("salario_max", d.SalaryMax).NonNegative()
	v.Field("vacantes_disponibles", d.Vacancies).MinInt(1, internal.ErrCodeOutOfRange)
	v.Field("ubicacion", d.Location).MaxLength(200)
	v.Field("moneda", d.Currency).Custom(func(interface{}) *internal.AppError {
		if d.Currency != nil && len(*d.Currency) != 3 {
			return internal.NewValidationFieldError("moneda", "moneda must be a 3 letter code", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}

// Apply copies the provided fields onto row. Status is handled by the service.
func (d *OfferDTO) Apply(row *offerDatamodel.JobOffer) {
	if d.Title != nil {
		row.Title = strings.TrimSpace(*d.Title)
	}
	if d.Description != nil {
		row.Description = *d.Description
	}
	validation.SetText(&row.Requirements, d.Requirements)
	validation.SetText(&row.Responsibilities, d.Responsibilities)
	validation.SetText(&row.Benefits, d.Benefits)
	if d.CategoryID != nil {
		if *d.CategoryID == 0 {
			row.CategoryID = nil
		} else {
			id := *d.CategoryID
			row.CategoryID = &id
		}
		row.Category = nil
	}
	if d.SalaryMin != nil {
		row.SalaryMin = d.SalaryMin
	}
	if d.SalaryMax != nil {
		row.SalaryMax = d.SalaryMax
	}
	if d.Currency != nil && *d.Currency != "" {
		row.Currency = *d.Currency
	}
	validation.SetText(&row.Location, d.Location)
	if d.Mode != nil {
		row.Mode = *d.Mode
	}
	if d.ContractType != nil {
		row.ContractType = *d.ContractType
	}
	if d.ExperienceLevel != nil {
		row.ExperienceLevel = *d.ExperienceLevel
	}
	if d.Vacancies != nil {
		row.Vacancies = *d.Vacancies
	}
	if d.ExpiresAt != nil {
		row.ExpiresAt = d.ExpiresAt
	}
	if d.DesiredStartDate != nil {
		row.DesiredStartDate = d.DesiredStartDate
	}
}

// CheckSalaryRange runs on the merged row so PATCH bodies are checked against stored values.
func CheckSalaryRange(row *offerDatamodel.JobOffer) *internal.AppError {
	if row.SalaryMin != nil && row.SalaryMax != nil && *row.SalaryMin > *row.SalaryMax {
		return ErrInvalidSalaryRange
	}
	return nil
}

type ChangeStatusDTO struct {
	Status string `json:"estado"`
}

func (d *ChangeStatusDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("estado", d.Status).Required().OneOf(Statuses...)
	return v.Validate()
}

// Orderings maps the accepted ordering values to SQL.
var Orderings = map[string]string{
	"fecha_publicacion":  "oferta_trabajo.fecha_publicacion ASC",
	"-fecha_publicacion": "oferta_trabajo.fecha_publicacion DESC",
	"vistas":             "oferta_trabajo.vistas ASC",
	"-vistas":            "oferta_trabajo.vistas DESC",
	"salario_max":        "oferta_trabajo.salario_max ASC",
	"-salario_max":       "oferta_trabajo.salario_max DESC",
}

const DefaultOrdering = "-fecha_publicacion"

type ListFilter struct {
	CategoryID      *int64
	Mode            string
	Location        string
	ContractType    string
	ExperienceLevel string
	SalaryMin       *float64
	SalaryMax       *float64
	Search          string
	Ordering        string
	Limit           int
	Offset          int
}

// OrderClause returns the SQL for the requested ordering, falling back to newest first.
func (f ListFilter) OrderClause() string {
	if clause, ok := Orderings[f.Ordering]; ok {
		return clause
	}
	return Orderings[DefaultOrdering]
}
