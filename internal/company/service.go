package company

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/empleoya/internal"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

var ErrNotFound = internal.NewNotFoundError("empresa no encontrada", internal.ErrCodeCompanyNotFound)

var ErrDuplicateRUC = internal.NewValidationFieldError("ruc", "ya existe una empresa con ese RUC", internal.ErrCodeDuplicateRUC)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*companyDatamodel.Company, error)
	List(ctx context.Context, filter ListFilter) ([]*companyDatamodel.Company, int64, error)
	Update(ctx context.Context, c *companyDatamodel.Company) error
	RUCTaken(ctx context.Context, ruc string, excludeID int64) (bool, error)
	CountOffers(ctx context.Context, companyIDs []int64) (map[int64]int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Company, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, row)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Company, int64, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	counts, err := s.repo.CountOffers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	companies := make([]*Company, 0, len(rows))
	for _, row := range rows {
		c := FromDataModel(row)
		c.TotalOffers = counts[row.ID]
		companies = append(companies, c)
	}
	return companies, total, nil
}

// GetMine returns the company of the calling employer.
func (s *Service) GetMine(ctx context.Context, p identity.Principal) (*Company, error) {
	companyID, err := p.Employer()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, companyID)
}

// LoadProfile lets the account endpoint embed the employer's company.
func (s *Service) LoadProfile(ctx context.Context, p identity.Principal) (interface{}, error) {
	return s.GetMine(ctx, p)
}

// UpdateMine applies a PUT (full) or PATCH body to the caller's company.
func (s *Service) UpdateMine(ctx context.Context, p identity.Principal, dto UpdateCompanyDTO, full bool) (*Company, error) {
	companyID, err := p.Employer()
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(full); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if dto.RUC != nil && *dto.RUC != "" {
		taken, err := s.repo.RUCTaken(ctx, *dto.RUC, row.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateRUC
		}
	}

	dto.Apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("company updated", "company_id", row.ID, "user_id", p.UserID)
	return s.withCounts(ctx, row)
}

// Verify marks a company as verified by an administrator.
func (s *Service) Verify(ctx context.Context, id int64) (*Company, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.Verified {
		row.Verified = true
		if err := s.repo.Update(ctx, row); err != nil {
			return nil, err
		}
		s.logger.Info("company verified", "company_id", row.ID)
	}
	return s.withCounts(ctx, row)
}

func (s *Service) withCounts(ctx context.Context, row *companyDatamodel.Company) (*Company, error) {
	counts, err := s.repo.CountOffers(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	c := FromDataModel(row)
	c.TotalOffers = counts[row.ID]
	return c, nil
}
