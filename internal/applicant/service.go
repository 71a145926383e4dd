package applicant

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/storage"
	"github.com/google/uuid"
)

const MaxCVSize = 5 << 20

var ErrNotFound = internal.NewNotFoundError("perfil no encontrado", internal.ErrCodeProfileNotFound)

var ErrInvalidCV = internal.NewValidationFieldError("cv", "el CV debe ser PDF, DOC o DOCX de hasta 5 MB", internal.ErrCodeInvalidFile)

var cvContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*applicantDatamodel.ApplicantProfile, error)
	List(ctx context.Context, filter ListFilter) ([]*applicantDatamodel.ApplicantProfile, int64, error)
	Update(ctx context.Context, p *applicantDatamodel.ApplicantProfile) error
}

type Service struct {
	repo    RepositoryAPI
	storage storage.Provider
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, store storage.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = storage.Disabled{}
	}
	return &Service{repo: repo, storage: store, logger: logger}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Profile, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Profile, int64, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	profiles := make([]*Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, FromDataModel(row))
	}
	return profiles, total, nil
}

func (s *Service) GetMine(ctx context.Context, p identity.Principal) (*Profile, error) {
	profileID, err := p.Applicant()
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, profileID)
}

// LoadProfile lets the account endpoint embed the applicant's profile.
func (s *Service) LoadProfile(ctx context.Context, p identity.Principal) (interface{}, error) {
	return s.GetMine(ctx, p)
}

func (s *Service) UpdateMine(ctx context.Context, p identity.Principal, dto UpdateProfileDTO, full bool) (*Profile, error) {
	profileID, err := p.Applicant()
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(full); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	dto.Apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("applicant profile updated", "profile_id", row.ID, "completado", row.Completed)
	return FromDataModel(row), nil
}

// UploadCV stores the file and points cv_url at it.
func (s *Service) UploadCV(ctx context.Context, p identity.Principal, filename string, r io.Reader, size int64) (*Profile, error) {
	profileID, err := p.Applicant()
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := cvContentTypes[ext]
	if !ok || size <= 0 || size > MaxCVSize {
		return nil, ErrInvalidCV
	}

	row, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("cv/%d/%s%s", row.ID, uuid.NewString(), ext)
	url, err := s.storage.Upload(ctx, key, contentType, r, size)
	if err != nil {
		return nil, err
	}

	row.CVURL = &url
	if !row.Completed {
		row.Completed = IsComplete(row)
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("cv uploaded", "profile_id", row.ID, "key", key, "size", size)
	return FromDataModel(row), nil
}
