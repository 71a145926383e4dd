package postgres

import (
	"context"
	"errors"

	favoriteDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"github.com/frahmantamala/empleoya/internal/favorite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) favorite.RepositoryAPI {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*favoriteDatamodel.Favorite, int64, error) {
	query := r.db.WithContext(ctx).Model(&favoriteDatamodel.Favorite{}).Where("usuario_id = ?", userID)
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []*favoriteDatamodel.Favorite
	err := query.Preload("Offer").
		Preload("Offer.Company").
		Preload("Offer.Category").
		Order("fecha_agregado DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id int64) (*favoriteDatamodel.Favorite, error) {
	var f favoriteDatamodel.Favorite
	err := r.db.WithContext(ctx).
		Preload("Offer").
		Preload("Offer.Company").
		Preload("Offer.Category").
		First(&f, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, favorite.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, offerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&favoriteDatamodel.Favorite{}).
		Where("usuario_id = ? AND oferta_id = ?", userID, offerID).
		Count(&count).Error
	return count > 0, err
}

func (r *FavoriteRepository) OfferExists(ctx context.Context, offerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&offerDatamodel.JobOffer{}).
		Where("id = ?", offerID).
		Count(&count).Error
	return count > 0, err
}

func (r *FavoriteRepository) Create(ctx context.Context, f *favoriteDatamodel.Favorite) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return favorite.ErrAlreadyFavorited
	}
	return err
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&favoriteDatamodel.Favorite{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return favorite.ErrNotFound
	}
	return nil
}
