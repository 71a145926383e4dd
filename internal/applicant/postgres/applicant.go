package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/empleoya/internal/applicant"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) applicant.RepositoryAPI {
	return &ApplicantRepository{db: db}
}

func (r *ApplicantRepository) GetByID(ctx context.Context, id int64) (*applicantDatamodel.ApplicantProfile, error) {
	var p applicantDatamodel.ApplicantProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, applicant.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ApplicantRepository) List(ctx context.Context, filter applicant.ListFilter) ([]*applicantDatamodel.ApplicantProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&applicantDatamodel.ApplicantProfile{})
	if filter.ExperienceLevel != "" {
		query = query.Where("nivel_experiencia = ?", filter.ExperienceLevel)
	}
	if filter.Availability != "" {
		query = query.Where("disponibilidad = ?", filter.Availability)
	}
	if filter.CompletedOnly {
		query = query.Where("completado = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(titulo_profesional) LIKE LOWER(?) OR LOWER(habilidades) LIKE LOWER(?)", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*applicantDatamodel.ApplicantProfile
	err := query.Preload("User").
		Order("fecha_actualizacion DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *ApplicantRepository) Update(ctx context.Context, p *applicantDatamodel.ApplicantProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}
