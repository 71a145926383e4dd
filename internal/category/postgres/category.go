package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/empleoya/internal/category"
	categoryDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/category"
	"gorm.io/gorm"
)

const activeOfferStatus = "activa"

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) counted(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("categoria").
		Select("categoria.*, COUNT(oferta_trabajo.id) AS num_ofertas").
		Joins("LEFT JOIN oferta_trabajo ON oferta_trabajo.categoria_id = categoria.id AND oferta_trabajo.estado = ?", activeOfferStatus).
		Group("categoria.id")
}

func (r *CategoryRepository) ListActiveWithCounts(ctx context.Context) ([]*categoryDatamodel.CategoryWithCount, error) {
	var categories []*categoryDatamodel.CategoryWithCount
	err := r.counted(ctx).
		Where("categoria.activa = ?", true).
		Order("categoria.nombre ASC").
		Scan(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.CategoryWithCount, error) {
	var categories []*categoryDatamodel.CategoryWithCount
	if err := r.counted(ctx).Where("categoria.id = ?", id).Scan(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, category.ErrNotFound
	}
	return categories[0], nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	err := r.db.WithContext(ctx).Create(cat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return category.ErrDuplicateName
	}
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	err := r.db.WithContext(ctx).Save(cat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return category.ErrDuplicateName
	}
	return err
}
