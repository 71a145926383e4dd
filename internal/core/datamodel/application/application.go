package application

import (
	"time"

	"github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	"github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
)

type Application struct {
	ID              int64                       `gorm:"primaryKey"`
	OfferID         int64                       `gorm:"column:oferta_id;not null;uniqueIndex:uq_postulacion_oferta_postulante,priority:1"`
	Offer           *offer.JobOffer             `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
	ApplicantID     int64                       `gorm:"column:postulante_id;not null;uniqueIndex:uq_postulacion_oferta_postulante,priority:2"`
	Applicant       *applicant.ApplicantProfile `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE"`
	AppliedAt       time.Time                   `gorm:"column:fecha_postulacion;autoCreateTime"`
	Status          string                      `gorm:"column:estado;size:20;not null;default:pendiente"`
	CoverLetter     *string                     `gorm:"column:carta_presentacion"`
	CVURL           *string                     `gorm:"column:cv_url_postulacion;size:500"`
	StatusChangedAt *time.Time                  `gorm:"column:fecha_cambio_estado"`
	EmployerNotes   *string                     `gorm:"column:notas_empleador"`
	MatchScore      *int                        `gorm:"column:puntuacion_match"`
}

func (Application) TableName() string {
	return "postulacion"
}
