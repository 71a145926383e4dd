package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/empleoya/internal/company"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, company.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) List(ctx context.Context, filter company.ListFilter) ([]*companyDatamodel.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&companyDatamodel.Company{})
	if filter.Sector != "" {
		query = query.Where("LOWER(sector) LIKE LOWER(?)", "%"+filter.Sector+"%")
	}
	if filter.Verified != nil {
		query = query.Where("verificada = ?", *filter.Verified)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(nombre_empresa) LIKE LOWER(?) OR LOWER(descripcion) LIKE LOWER(?)", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []*companyDatamodel.Company
	err := query.Preload("User").
		Order("nombre_empresa ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepository) Update(ctx context.Context, c *companyDatamodel.Company) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return company.ErrDuplicateRUC
	}
	return err
}

func (r *CompanyRepository) RUCTaken(ctx context.Context, ruc string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&companyDatamodel.Company{}).
		Where("ruc = ? AND id <> ?", ruc, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *CompanyRepository) CountOffers(ctx context.Context, companyIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(companyIDs))
	if len(companyIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CompanyID int64 `gorm:"column:empresa_id"`
		Total     int64 `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).Model(&offerDatamodel.JobOffer{}).
		Select("empresa_id, COUNT(*) AS total").
		Where("empresa_id IN ?", companyIDs).
		Group("empresa_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CompanyID] = row.Total
	}
	return counts, nil
}
