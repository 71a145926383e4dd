package postgres

import (
	"context"
	"errors"
	"time"

	applicationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/application"
	favoriteDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"github.com/frahmantamala/empleoya/internal/offer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) offer.RepositoryAPI {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, o *offerDatamodel.JobOffer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*offerDatamodel.JobOffer, error) {
	var o offerDatamodel.JobOffer
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Category").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, offer.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Update writes every column except vistas, which only IncrementViews touches.
func (r *OfferRepository) Update(ctx context.Context, o *offerDatamodel.JobOffer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations, "vistas").Save(o).Error
}

// Delete removes the offer together with its applications and favorites.
func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("oferta_id = ?", id).Delete(&favoriteDatamodel.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("oferta_id = ?", id).Delete(&applicationDatamodel.Application{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&offerDatamodel.JobOffer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return offer.ErrNotFound
		}
		return nil
	})
}

func (r *OfferRepository) public(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&offerDatamodel.JobOffer{}).
		Where("oferta_trabajo.estado = ? AND oferta_trabajo.aprobada_admin = ?", offer.StatusActive, true)
}

func (r *OfferRepository) List(ctx context.Context, filter offer.ListFilter) ([]*offerDatamodel.JobOffer, int64, error) {
	query := r.public(ctx).Joins("LEFT JOIN empresa ON empresa.id = oferta_trabajo.empresa_id")
	if filter.CategoryID != nil {
		query = query.Where("oferta_trabajo.categoria_id = ?", *filter.CategoryID)
	}
	if filter.Mode != "" {
		query = query.Where("oferta_trabajo.modalidad = ?", filter.Mode)
	}
	if filter.Location != "" {
		query = query.Where("LOWER(oferta_trabajo.ubicacion) LIKE LOWER(?)", "%"+filter.Location+"%")
	}
	if filter.ContractType != "" {
		query = query.Where("oferta_trabajo.tipo_contrato = ?", filter.ContractType)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("oferta_trabajo.nivel_experiencia = ?", filter.ExperienceLevel)
	}
	if filter.SalaryMin != nil {
		query = query.Where("oferta_trabajo.salario_min >= ?", *filter.SalaryMin)
	}
	if filter.SalaryMax != nil {
		query = query.Where("oferta_trabajo.salario_max <= ?", *filter.SalaryMax)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(oferta_trabajo.titulo) LIKE LOWER(?) OR LOWER(oferta_trabajo.descripcion) LIKE LOWER(?) OR LOWER(empresa.nombre_empresa) LIKE LOWER(?)",
			like, like, like,
		)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var offers []*offerDatamodel.JobOffer
	err := query.Select("oferta_trabajo.*").
		Preload("Company").
		Preload("Category").
		Order(filter.OrderClause()).
		Order("oferta_trabajo.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&offers).Error
	return offers, total, err
}

func (r *OfferRepository) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]*offerDatamodel.JobOffer, int64, error) {
	query := r.db.WithContext(ctx).Model(&offerDatamodel.JobOffer{}).Where("empresa_id = ?", companyID)
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var offers []*offerDatamodel.JobOffer
	err := query.Preload("Company").
		Preload("Category").
		Order("fecha_creacion DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&offers).Error
	return offers, total, err
}

func (r *OfferRepository) Similar(ctx context.Context, o *offerDatamodel.JobOffer, limit int) ([]*offerDatamodel.JobOffer, error) {
	var offers []*offerDatamodel.JobOffer
	err := r.public(ctx).
		Where("oferta_trabajo.categoria_id = ? AND oferta_trabajo.id <> ?", o.CategoryID, o.ID).
		Preload("Company").
		Preload("Category").
		Order("oferta_trabajo.fecha_publicacion DESC").
		Limit(limit).
		Find(&offers).Error
	return offers, err
}

// IncrementViews bumps the counter in SQL and returns the stored value.
func (r *OfferRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views []int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&offerDatamodel.JobOffer{}).
			Where("id = ?", id).
			UpdateColumn("vistas", gorm.Expr("vistas + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return offer.ErrNotFound
		}
		return tx.Model(&offerDatamodel.JobOffer{}).
			Where("id = ?", id).
			Pluck("vistas", &views).Error
	})
	if err != nil {
		return 0, err
	}
	if len(views) == 0 {
		return 0, offer.ErrNotFound
	}
	return views[0], nil
}

func (r *OfferRepository) CountApplications(ctx context.Context, offerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&applicationDatamodel.Application{}).
		Where("oferta_id = ?", offerID).
		Count(&count).Error
	return count, err
}

func (r *OfferRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&offerDatamodel.JobOffer{}).
		Where("estado = ? AND fecha_expiracion IS NOT NULL AND fecha_expiracion < ?", offer.StatusActive, now).
		Update("estado", offer.StatusExpired)
	return res.RowsAffected, res.Error
}
