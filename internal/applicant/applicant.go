package applicant

import (
	"strings"
	"time"

	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
)

const (
	LevelNone       = "sin_experiencia"
	LevelJunior     = "junior"
	LevelSemiSenior = "semi_senior"
	LevelSenior     = "senior"
	LevelLead       = "lead"
)

var ExperienceLevels = []string{LevelNone, LevelJunior, LevelSemiSenior, LevelSenior, LevelLead}

var Availabilities = []string{"inmediata", "2_semanas", "1_mes", "negociable"}

type Owner struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

type Profile struct {
	ID              int64     `json:"id"`
	Owner           *Owner    `json:"usuario,omitempty"`
	Title           *string   `json:"titulo_profesional"`
	Summary         *string   `json:"resumen_profesional"`
	ExperienceLevel string    `json:"nivel_experiencia"`
	YearsExperience int       `json:"anos_experiencia"`
	Skills          *string   `json:"habilidades"`
	Education       *string   `json:"educacion"`
	WorkExperience  *string   `json:"experiencia_laboral"`
	Certifications  *string   `json:"certificaciones"`
	Languages       *string   `json:"idiomas"`
	CVURL           *string   `json:"cv_url"`
	PhotoURL        *string   `json:"foto_perfil_url"`
	Location        *string   `json:"ubicacion"`
	ExpectedSalary  *float64  `json:"salario_esperado"`
	SalaryCurrency  string    `json:"moneda_salario"`
	Availability    string    `json:"disponibilidad"`
	PortfolioURL    *string   `json:"portafolio_url"`
	LinkedInURL     *string   `json:"linkedin_url"`
	GitHubURL       *string   `json:"github_url"`
	Completed       bool      `json:"completado"`
	CreatedAt       time.Time `json:"fecha_creacion"`
	UpdatedAt       time.Time `json:"fecha_actualizacion"`
}

// IsComplete reports whether the profile has enough data to be shown to employers.
func IsComplete(p *applicantDatamodel.ApplicantProfile) bool {
	return present(p.Title) && present(p.Skills) && (present(p.CVURL) || present(p.Summary))
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func FromDataModel(p *applicantDatamodel.ApplicantProfile) *Profile {
	out := &Profile{
		ID:              p.ID,
		Title:           p.Title,
		Summary:         p.Summary,
		ExperienceLevel: p.ExperienceLevel,
		YearsExperience: p.YearsExperience,
		Skills:          p.Skills,
		Education:       p.Education,
		WorkExperience:  p.WorkExperience,
		Certifications:  p.Certifications,
		Languages:       p.Languages,
		CVURL:           p.CVURL,
		PhotoURL:        p.PhotoURL,
		Location:        p.Location,
		ExpectedSalary:  p.ExpectedSalary,
		SalaryCurrency:  p.SalaryCurrency,
		Availability:    p.Availability,
		PortfolioURL:    p.PortfolioURL,
		LinkedInURL:     p.LinkedInURL,
		GitHubURL:       p.GitHubURL,
		Completed:       p.Completed,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.User != nil {
		out.Owner = &Owner{
			ID:        p.User.ID,
			Email:     p.User.Email,
			FirstName: p.User.FirstName,
			LastName:  p.User.LastName,
		}
	}
	return out
}
