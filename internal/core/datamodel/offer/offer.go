package offer

import (
	"time"

	"github.com/frahmantamala/empleoya/internal/core/datamodel/category"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/company"
)

type JobOffer struct {
	ID               int64              `gorm:"primaryKey"`
	CompanyID        int64              `gorm:"column:empresa_id;not null;index"`
	Company          *company.Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	CategoryID       *int64             `gorm:"column:categoria_id;index:idx_oferta_categoria_estado,priority:1"`
	Category         *category.Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Title            string             `gorm:"column:titulo;size:200;not null"`
	Description      string             `gorm:"column:descripcion;not null"`
	Requirements     *string            `gorm:"column:requisitos"`
	Responsibilities *string            `gorm:"column:responsabilidades"`
	Benefits         *string            `gorm:"column:beneficios"`
	SalaryMin        *float64           `gorm:"column:salario_min;type:decimal(10,2)"`
	SalaryMax        *float64           `gorm:"column:salario_max;type:decimal(10,2)"`
	Currency         string             `gorm:"column:moneda;size:3;not null;default:PEN"`
	Location         *string            `gorm:"column:ubicacion;size:200"`
	Mode             string             `gorm:"column:modalidad;size:20;not null"`
	ContractType     string             `gorm:"column:tipo_contrato;size:20;not null"`
	ExperienceLevel  string             `gorm:"column:nivel_experiencia;size:20;not null"`
	Vacancies        int                `gorm:"column:vacantes_disponibles;not null;default:1"`
	PublishedAt      *time.Time         `gorm:"column:fecha_publicacion;index:idx_oferta_estado_publicacion,priority:2"`
	ExpiresAt        *time.Time         `gorm:"column:fecha_expiracion"`
	DesiredStartDate *time.Time         `gorm:"column:fecha_inicio_deseada"`
	Status           string             `gorm:"column:estado;size:30;not null;default:borrador;index:idx_oferta_estado_publicacion,priority:1;index:idx_oferta_categoria_estado,priority:2"`
	Approved         bool               `gorm:"column:aprobada_admin;not null;default:false"`
	ApprovedAt       *time.Time         `gorm:"column:fecha_aprobacion"`
	Views            int64              `gorm:"column:vistas;not null;default:0"`
	CreatedAt        time.Time          `gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:fecha_actualizacion;autoUpdateTime"`
}

func (JobOffer) TableName() string {
	return "oferta_trabajo"
}
