package applicant

import (
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
)

const MaxYearsExperience = 50

type UpdateProfileDTO struct {
	Title           *string  `json:"titulo_profesional"`
	Summary         *string  `json:"resumen_profesional"`
	ExperienceLevel *string  `json:"nivel_experiencia"`
	YearsExperience *int     `json:"anos_experiencia"`
	Skills          *string  `json:"habilidades"`
	Education       *string  `json:"educacion"`
	WorkExperience  *string  `json:"experiencia_laboral"`
	Certifications  *string  `json:"certificaciones"`
	Languages       *string  `json:"idiomas"`
	CVURL           *string  `json:"cv_url"`
	PhotoURL        *string  `json:"foto_perfil_url"`
	Location        *string  `json:"ubicacion"`
	ExpectedSalary  *float64 `json:"salario_esperado"`
	SalaryCurrency  *string  `json:"moneda_salario"`
	Availability    *string  `json:"disponibilidad"`
	PortfolioURL    *string  `json:"portafolio_url"`
	LinkedInURL     *string  `json:"linkedin_url"`
	GitHubURL       *string  `json:"github_url"`
	Completed       *bool    `json:"completado"`
}

// Validate checks the payload; full is true for PUT, which requires nivel_experiencia.
func (d *UpdateProfileDTO) Validate(full bool) *internal.AppError {
	if d.SalaryCurrency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*d.SalaryCurrency))
		d.SalaryCurrency = &cur
	}

	v := validation.NewValidator()
	if full {
		v.Field("nivel_experiencia", d.ExperienceLevel).Required()
	}
	v.Field("titulo_profesional", d.Title).MaxLength(200)
	v.Field("nivel_experiencia", d.ExperienceLevel).OneOf(ExperienceLevels...)
	v.Field("anos_experiencia", d.YearsExperience).Range(0, MaxYearsExperience)
	v.Field("cv_url", d.CVURL).URL().MaxLength(500)
	v.Field("foto_perfil_url", d.PhotoURL).URL().MaxLength(500)
	v.Field("ubicacion", d.Location).MaxLength(200)
	v.Field("salario_esperado", d.ExpectedSalary).NonNegative()
	v.Field("moneda_salario", d.SalaryCurrency).Custom(func(interface{}) *internal.AppError {
		if d.SalaryCurrency != nil && len(*d.SalaryCurrency) != 3 {
			return internal.NewValidationFieldError("moneda_salario", "moneda_salario must be a 3 letter code", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("disponibilidad", d.Availability).OneOf(Availabilities...)
	v.Field("portafolio_url", d.PortfolioURL).URL().MaxLength(200)
	v.Field("linkedin_url", d.LinkedInURL).URL().MaxLength(200)
	v.Field("github_url", d.GitHubURL).URL().MaxLength(200)
	return v.Validate()
}

// Apply copies the provided fields and recomputes completado unless the
// caller set it explicitly.
func (d *UpdateProfileDTO) Apply(row *applicantDatamodel.ApplicantProfile) {
	validation.SetText(&row.Title, d.Title)
	validation.SetText(&row.Summary, d.Summary)
	if d.ExperienceLevel != nil && *d.ExperienceLevel != "" {
		row.ExperienceLevel = *d.ExperienceLevel
	}
	if d.YearsExperience != nil {
		row.YearsExperience = *d.YearsExperience
	}
	validation.SetText(&row.Skills, d.Skills)
	validation.SetText(&row.Education, d.Education)
	validation.SetText(&row.WorkExperience, d.WorkExperience)
	validation.SetText(&row.Certifications, d.Certifications)
	validation.SetText(&row.Languages, d.Languages)
	validation.SetText(&row.CVURL, d.CVURL)
	validation.SetText(&row.PhotoURL, d.PhotoURL)
	validation.SetText(&row.Location, d.Location)
	if d.ExpectedSalary != nil {
		row.ExpectedSalary = d.ExpectedSalary
	}
	if d.SalaryCurrency != nil && *d.SalaryCurrency != "" {
		row.SalaryCurrency = *d.SalaryCurrency
	}
	if d.Availability != nil && *d.Availability != "" {
		row.Availability = *d.Availability
	}
	validation.SetText(&row.PortfolioURL, d.PortfolioURL)
	validation.SetText(&row.LinkedInURL, d.LinkedInURL)
	validation.SetText(&row.GitHubURL, d.GitHubURL)

	if d.Completed != nil {
		row.Completed = *d.Completed
	} else {
		row.Completed = IsComplete(row)
	}
}

type ListFilter struct {
	ExperienceLevel string
	Availability    string
	Search          string
	CompletedOnly   bool
	Limit           int
	Offset          int
}
