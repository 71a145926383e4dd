package statistics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

var ErrNoProfile = internal.NewValidationError("Usuario sin perfil", internal.ErrCodeStatsNotAvailable)

type RepositoryAPI interface {
	General(ctx context.Context, weekStart time.Time) (*General, error)
	Employer(ctx context.Context, companyID int64, monthStart time.Time) (*Employer, error)
	Applicant(ctx context.Context, profileID int64, monthStart time.Time) (*Applicant, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) General(ctx context.Context) (*General, error) {
	return s.repo.General(ctx, s.now().Add(-weekWindow))
}

// Mine returns *Employer or *Applicant depending on the caller's profile.
func (s *Service) Mine(ctx context.Context, p identity.Principal) (interface{}, error) {
	since := s.now().Add(-monthWindow)
	switch {
	case p.IsEmployer() && p.CompanyID != nil:
		return s.repo.Employer(ctx, *p.CompanyID, since)
	case p.IsApplicant() && p.ProfileID != nil:
		return s.repo.Applicant(ctx, *p.ProfileID, since)
	}
	return nil, ErrNoProfile
}
