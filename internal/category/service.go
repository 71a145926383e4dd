package category

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/empleoya/internal"
	categoryDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/category"
)

var ErrNotFound = internal.NewNotFoundError("categoría no encontrada", internal.ErrCodeCategoryNotFound)

var ErrDuplicateName = internal.NewValidationError("ya existe una categoría con ese nombre", internal.ErrCodeDuplicateCategory)

type RepositoryAPI interface {
	ListActiveWithCounts(ctx context.Context) ([]*categoryDatamodel.CategoryWithCount, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.CategoryWithCount, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListActive returns active categories ordered by name with their active offer counts.
func (s *Service) ListActive(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.ListActiveWithCounts(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	categories := make([]*Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, FromCountedDataModel(row))
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromCountedDataModel(row), nil
}

// IsActiveCategory reports whether id names an existing active category.
func (s *Service) IsActiveCategory(ctx context.Context, id int64) (bool, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return row.Active, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	cat := NewCategory(dto.Name, dto.Description, dto.Icon)
	if dto.Active != nil {
		cat.Active = *dto.Active
	}

	row := ToDataModel(cat)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row := current.Category

	if dto.Name != nil && *dto.Name != row.Name {
		existing, err := s.repo.GetByName(ctx, *dto.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateName
		}
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = dto.Description
	}
	if dto.Icon != nil {
		row.Icon = dto.Icon
	}
	if dto.Active != nil {
		row.Active = *dto.Active
	}

	if err := s.repo.Update(ctx, &row); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "category_id", row.ID, "active", row.Active)
	cat := FromDataModel(&row)
	cat.OfferCount = current.OfferCount
	return cat, nil
}
