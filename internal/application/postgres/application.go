package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/empleoya/internal/application"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	applicationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/application"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) application.RepositoryAPI {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Offer").
		Preload("Offer.Company").
		Preload("Applicant").
		Preload("Applicant.User")
}

// Create relies on the unique (oferta_id, postulante_id) index to reject
// concurrent duplicates.
func (r *ApplicationRepository) Create(ctx context.Context, a *applicationDatamodel.Application) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return application.ErrAlreadyApplied
	}
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*applicationDatamodel.Application, error) {
	var a applicationDatamodel.Application
	if err := r.preloaded(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, offerID, applicantID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&applicationDatamodel.Application{}).
		Where("oferta_id = ? AND postulante_id = ?", offerID, applicantID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.ListFilter) ([]*applicationDatamodel.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&applicationDatamodel.Application{})
	if filter.ApplicantID != nil {
		query = query.Where("postulacion.postulante_id = ?", *filter.ApplicantID)
	}
	if filter.CompanyID != nil {
		query = query.Where("postulacion.oferta_id IN (?)",
			r.db.Model(&offerDatamodel.JobOffer{}).Select("id").Where("empresa_id = ?", *filter.CompanyID))
	}
	if filter.OfferID != nil {
		query = query.Where("postulacion.oferta_id = ?", *filter.OfferID)
	}
	if filter.Status != "" {
		query = query.Where("postulacion.estado = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []*applicationDatamodel.Application
	err := query.Preload("Offer").
		Preload("Offer.Company").
		Preload("Applicant").
		Preload("Applicant.User").
		Order("postulacion.fecha_postulacion DESC").
		Order("postulacion.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&list).Error
	return list, total, err
}

func (r *ApplicationRepository) ListByOffer(ctx context.Context, offerID int64) ([]*applicationDatamodel.Application, error) {
	var list []*applicationDatamodel.Application
	err := r.preloaded(ctx).
		Where("oferta_id = ?", offerID).
		Order("fecha_postulacion ASC").
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *ApplicationRepository) Update(ctx context.Context, a *applicationDatamodel.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&applicationDatamodel.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) GetOffer(ctx context.Context, id int64) (*offerDatamodel.JobOffer, error) {
	var o offerDatamodel.JobOffer
	if err := r.db.WithContext(ctx).Preload("Company").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, application.ErrOfferNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *ApplicationRepository) GetApplicant(ctx context.Context, id int64) (*applicantDatamodel.ApplicantProfile, error) {
	var p applicantDatamodel.ApplicantProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, application.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}
