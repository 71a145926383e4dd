package offer

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

var ErrNotFound = internal.NewNotFoundError("oferta no encontrada", internal.ErrCodeOfferNotFound)

var ErrNotOwner = internal.NewForbiddenError("no tienes permiso sobre esta oferta", internal.ErrCodeNotOwner)

var ErrInvalidCategory = internal.NewValidationFieldError("categoria", "categoría inválida o inactiva", internal.ErrCodeInvalidCategory)

type RepositoryAPI interface {
	Create(ctx context.Context, o *offerDatamodel.JobOffer) error
	GetByID(ctx context.Context, id int64) (*offerDatamodel.JobOffer, error)
	Update(ctx context.Context, o *offerDatamodel.JobOffer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*offerDatamodel.JobOffer, int64, error)
	ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]*offerDatamodel.JobOffer, int64, error)
	Similar(ctx context.Context, o *offerDatamodel.JobOffer, limit int) ([]*offerDatamodel.JobOffer, error)
	IncrementViews(ctx context.Context, id int64) (int64, error)
	CountApplications(ctx context.Context, offerID int64) (int64, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// CategoryChecker is satisfied by the category service.
type CategoryChecker interface {
	IsActiveCategory(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryChecker
	cfg        internal.OffersConfig
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, categories CategoryChecker, cfg internal.OffersConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SimilarLimit <= 0 {
		cfg.SimilarLimit = internal.DefaultSimilarLimit
	}
	return &Service{repo: repo, categories: categories, cfg: cfg, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, p identity.Principal, dto OfferDTO) (*Offer, error) {
	companyID, err := p.Employer()
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(true); err != nil {
		return nil, err
	}

	row := &offerDatamodel.JobOffer{
		CompanyID: companyID,
		Currency:  "PEN",
		Vacancies: 1,
	}
	dto.Apply(row)
	if err := s.checkRow(ctx, row); err != nil {
		return nil, err
	}

	now := s.now()
	if s.cfg.AutoApprove {
		row.Approved = true
		row.ApprovedAt = &now
		SetStatus(row, StatusActive, now)
	} else {
		SetStatus(row, StatusPending, now)
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("offer created", "offer_id", row.ID, "company_id", companyID, "estado", row.Status)
	return s.detail(ctx, row.ID)
}

// Update applies a PUT (full) or PATCH body to an offer owned by the caller.
func (s *Service) Update(ctx context.Context, p identity.Principal, id int64, dto OfferDTO, full bool) (*Offer, error) {
	row, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(full); err != nil {
		return nil, err
	}

	dto.Apply(row)
	if err := s.checkRow(ctx, row); err != nil {
		return nil, err
	}
	if dto.Status != nil && *dto.Status != "" {
		SetStatus(row, *dto.Status, s.now())
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("offer updated", "offer_id", row.ID, "user_id", p.UserID)
	return s.detail(ctx, row.ID)
}

// ChangeStatus moves the offer to any status; no transition table is enforced.
func (s *Service) ChangeStatus(ctx context.Context, p identity.Principal, id int64, dto ChangeStatusDTO) (*Offer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	old := row.Status
	SetStatus(row, dto.Status, s.now())
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("offer status changed", "offer_id", row.ID, "from", old, "to", row.Status)
	return s.detail(ctx, row.ID)
}

func (s *Service) Delete(ctx context.Context, p identity.Principal, id int64) error {
	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("offer deleted", "offer_id", id, "user_id", p.UserID)
	return nil
}

// List returns public offers only.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*ListItem, int64, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToListItems(rows), total, nil
}

// Retrieve returns the detail view and counts the visit. Offers that are not
// public are only visible to their owner and to admins.
func (s *Service) Retrieve(ctx context.Context, viewer identity.Principal, id int64) (*Offer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsPublic(row) && !viewer.OwnsCompany(row.CompanyID) {
		return nil, ErrNotFound
	}

	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	row.Views = views

	out := FromDataModel(row)
	if out.TotalApplications, err = s.repo.CountApplications(ctx, id); err != nil {
		return nil, err
	}
	return out, nil
}

// Similar lists public offers of the same category, excluding id.
func (s *Service) Similar(ctx context.Context, viewer identity.Principal, id int64) ([]*ListItem, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsPublic(row) && !viewer.OwnsCompany(row.CompanyID) {
		return nil, ErrNotFound
	}
	if row.CategoryID == nil {
		return []*ListItem{}, nil
	}

	rows, err := s.repo.Similar(ctx, row, s.cfg.SimilarLimit)
	if err != nil {
		return nil, err
	}
	return ToListItems(rows), nil
}

// Mine lists every offer of the caller's company, newest first.
func (s *Service) Mine(ctx context.Context, p identity.Principal, limit, offset int) ([]*ListItem, int64, error) {
	companyID, err := p.Employer()
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*ListItem, 0, len(rows))
	for _, row := range rows {
		item := ToListItem(row)
		item.Status = row.Status
		items = append(items, item)
	}
	return items, total, nil
}

// Approve records the admin approval and activates offers awaiting it.
func (s *Service) Approve(ctx context.Context, id int64) (*Offer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !row.Approved {
		row.Approved = true
		row.ApprovedAt = &now
	}
	if row.Status == StatusPending {
		SetStatus(row, StatusActive, now)
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("offer approved", "offer_id", row.ID)
	return s.detail(ctx, row.ID)
}

// ExpireOverdue closes active offers whose expiry date has passed.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("offers expired", "count", n)
	}
	return n, nil
}

func (s *Service) owned(ctx context.Context, p identity.Principal, id int64) (*offerDatamodel.JobOffer, error) {
	if !p.IsEmployer() && !p.IsAdmin() {
		return nil, internal.NewForbiddenError("only employers can perform this action", internal.ErrCodeRoleNotAllowed)
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnsCompany(row.CompanyID) {
		return nil, ErrNotOwner
	}
	return row, nil
}

func (s *Service) checkRow(ctx context.Context, row *offerDatamodel.JobOffer) error {
	if err := CheckSalaryRange(row); err != nil {
		return err
	}
	if row.CategoryID != nil {
		ok, err := s.categories.IsActiveCategory(ctx, *row.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidCategory
		}
	}
	return nil
}

func (s *Service) detail(ctx context.Context, id int64) (*Offer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromDataModel(row)
	if out.TotalApplications, err = s.repo.CountApplications(ctx, id); err != nil {
		return nil, err
	}
	return out, nil
}
