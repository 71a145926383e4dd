package applicant

import (
	"time"

	"github.com/frahmantamala/empleoya/internal/core/datamodel/user"
)

type ApplicantProfile struct {
	ID              int64      `gorm:"primaryKey"`
	UserID          int64      `gorm:"column:usuario_id;uniqueIndex;not null"`
	User            *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title           *string    `gorm:"column:titulo_profesional;size:200"`
	Summary         *string    `gorm:"column:resumen_profesional"`
	ExperienceLevel string     `gorm:"column:nivel_experiencia;size:20;not null;default:sin_experiencia"`
	YearsExperience int        `gorm:"column:anos_experiencia;not null;default:0"`
	Skills          *string    `gorm:"column:habilidades"`
	Education       *string    `gorm:"column:educacion"`
	WorkExperience  *string    `gorm:"column:experiencia_laboral"`
	Certifications  *string    `gorm:"column:certificaciones"`
	Languages       *string    `gorm:"column:idiomas"`
	CVURL           *string    `gorm:"column:cv_url;size:500"`
	PhotoURL        *string    `gorm:"column:foto_perfil_url;size:500"`
	Location        *string    `gorm:"column:ubicacion;size:200"`
	ExpectedSalary  *float64   `gorm:"column:salario_esperado;type:decimal(10,2)"`
	SalaryCurrency  string     `gorm:"column:moneda_salario;size:3;not null;default:PEN"`
	Availability    string     `gorm:"column:disponibilidad;size:20;not null;default:negociable"`
	PortfolioURL    *string    `gorm:"column:portafolio_url;size:200"`
	LinkedInURL     *string    `gorm:"column:linkedin_url;size:200"`
	GitHubURL       *string    `gorm:"column:github_url;size:200"`
	Completed       bool       `gorm:"column:completado;not null;default:false"`
	CreatedAt       time.Time  `gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:fecha_actualizacion;autoUpdateTime"`
}

func (ApplicantProfile) TableName() string {
	return "perfil_postulante"
}
