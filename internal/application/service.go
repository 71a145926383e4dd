package application

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	applicationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/application"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	"github.com/frahmantamala/empleoya/internal/core/events"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

const offerStatusActive = "activa"

var (
	ErrNotFound        = internal.NewNotFoundError("postulación no encontrada", internal.ErrCodeApplicationNotFound)
	ErrOfferNotFound   = internal.NewNotFoundError("oferta no encontrada", internal.ErrCodeOfferNotFound)
	ErrProfileNotFound = internal.NewNotFoundError("perfil no encontrado", internal.ErrCodeProfileNotFound)
	ErrAlreadyApplied  = internal.NewValidationFieldError("oferta", "ya postulado", internal.ErrCodeAlreadyApplied)
	ErrOfferNotActive  = internal.NewValidationFieldError("oferta", "oferta no activa", internal.ErrCodeOfferNotActive)
	ErrCannotWithdraw  = internal.NewValidationError("solo puedes retirar postulaciones pendientes", internal.ErrCodeCannotWithdraw)
	ErrNotOwner        = internal.NewForbiddenError("no tienes permiso sobre esta postulación", internal.ErrCodeNotOwner)
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *applicationDatamodel.Application) error
	GetByID(ctx context.Context, id int64) (*applicationDatamodel.Application, error)
	Exists(ctx context.Context, offerID, applicantID int64) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*applicationDatamodel.Application, int64, error)
	ListByOffer(ctx context.Context, offerID int64) ([]*applicationDatamodel.Application, error)
	Update(ctx context.Context, a *applicationDatamodel.Application) error
	Delete(ctx context.Context, id int64) error
	GetOffer(ctx context.Context, id int64) (*offerDatamodel.JobOffer, error)
	GetApplicant(ctx context.Context, id int64) (*applicantDatamodel.ApplicantProfile, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

// Create submits the caller's application. The pair (offer, applicant) is
// unique; a second attempt is rejected.
func (s *Service) Create(ctx context.Context, p identity.Principal, dto CreateApplicationDTO) (*Application, error) {
	profileID, err := p.Applicant()
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	o, err := s.repo.GetOffer(ctx, dto.OfferID)
	if err != nil {
		return nil, err
	}
	if o.Status != offerStatusActive {
		return nil, ErrOfferNotActive
	}

	exists, err := s.repo.Exists(ctx, o.ID, profileID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyApplied
	}

	profile, err := s.repo.GetApplicant(ctx, profileID)
	if err != nil {
		return nil, err
	}

	row := &applicationDatamodel.Application{
		OfferID:     o.ID,
		ApplicantID: profileID,
		Status:      StatusPending,
		CoverLetter: dto.CoverLetter,
		CVURL:       dto.CVURL,
	}
	if row.CVURL == nil || *row.CVURL == "" {
		row.CVURL = profile.CVURL
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted", "application_id", row.ID, "offer_id", o.ID, "profile_id", profileID)

	if s.publisher != nil && o.Company != nil {
		name := ""
		if profile.User != nil {
			name = strings.TrimSpace(profile.User.FirstName + " " + profile.User.LastName)
		}
		event := events.NewApplicationSubmittedEvent(row.ID, o.ID, o.Title, o.Company.UserID, p.UserID, name)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish application submitted", "application_id", row.ID, "error", err)
		}
	}

	return s.Get(ctx, p, row.ID)
}

// List returns what the caller may see: applicants their own, employers those
// sent to their company, admins everything.
func (s *Service) List(ctx context.Context, p identity.Principal, filter ListFilter) ([]*Application, int64, error) {
	filter.ApplicantID, filter.CompanyID = nil, nil
	switch {
	case p.IsAdmin():
	case p.IsApplicant():
		if p.ProfileID == nil {
			return []*Application{}, 0, nil
		}
		filter.ApplicantID = p.ProfileID
	case p.IsEmployer():
		if p.CompanyID == nil {
			return []*Application{}, 0, nil
		}
		filter.CompanyID = p.CompanyID
	default:
		return []*Application{}, 0, nil
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*Application, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.view(p, row))
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, p identity.Principal, id int64) (*Application, error) {
	row, err := s.visible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.view(p, row), nil
}

// ChangeStatus is reserved to the employer owning the offer. The change
// timestamp moves only when the status differs; notes are replaced only
// when non-empty.
func (s *Service) ChangeStatus(ctx context.Context, p identity.Principal, id int64, dto ChangeStatusDTO) (*Application, error) {
	if !p.IsEmployer() {
		return nil, internal.NewForbiddenError("only employers can perform this action", internal.ErrCodeRoleNotAllowed)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Offer == nil || p.CompanyID == nil || *p.CompanyID != row.Offer.CompanyID {
		return nil, ErrNotOwner
	}

	old := row.Status
	if dto.Status != old {
		now := s.now()
		row.Status = dto.Status
		row.StatusChangedAt = &now
	}
	if dto.EmployerNotes != nil && strings.TrimSpace(*dto.EmployerNotes) != "" {
		row.EmployerNotes = dto.EmployerNotes
	}
	if dto.MatchScore != nil {
		row.MatchScore = dto.MatchScore
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("application status changed", "application_id", row.ID, "from", old, "to", row.Status)

	if old != row.Status && s.publisher != nil && row.Applicant != nil {
		event := events.NewApplicationStatusChangedEvent(row.ID, row.OfferID, row.Offer.Title, row.Applicant.UserID, old, row.Status)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish status change", "application_id", row.ID, "error", err)
		}
	}

	return s.view(p, row), nil
}

// Withdraw lets the applicant delete an application nobody acted on yet.
func (s *Service) Withdraw(ctx context.Context, p identity.Principal, id int64) error {
	profileID, err := p.Applicant()
	if err != nil {
		return err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row.ApplicantID != profileID {
		return ErrNotOwner
	}
	if row.Status != StatusPending {
		return ErrCannotWithdraw
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("application withdrawn", "application_id", id, "profile_id", profileID)
	return nil
}

// Export writes the applications of an owned offer as an XLSX workbook.
func (s *Service) Export(ctx context.Context, p identity.Principal, offerID int64, w io.Writer) error {
	companyID, err := p.Employer()
	if err != nil {
		return err
	}
	o, err := s.repo.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if o.CompanyID != companyID {
		return ErrNotOwner
	}

	rows, err := s.repo.ListByOffer(ctx, offerID)
	if err != nil {
		return err
	}
	list := make([]*Application, 0, len(rows))
	for _, row := range rows {
		list = append(list, FromDataModel(row))
	}
	buf, err := ExportXLSX(o.Title, list)
	if err != nil {
		return internal.NewInternalError("no se pudo generar el archivo", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (s *Service) visible(ctx context.Context, p identity.Principal, id int64) (*applicationDatamodel.Application, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case p.IsAdmin():
		return row, nil
	case p.IsApplicant() && p.ProfileID != nil && *p.ProfileID == row.ApplicantID:
		return row, nil
	case p.IsEmployer() && p.CompanyID != nil && row.Offer != nil && *p.CompanyID == row.Offer.CompanyID:
		return row, nil
	}
	return nil, ErrNotFound
}

// view hides employer notes from applicants.
func (s *Service) view(p identity.Principal, row *applicationDatamodel.Application) *Application {
	out := FromDataModel(row)
	if p.IsApplicant() {
		out.EmployerNotes = nil
	}
	return out
}
