package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/empleoya/internal"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

var ErrNotFound = internal.NewNotFoundError("usuario no encontrado", internal.ErrCodeUserNotFound)

var ErrEmailTaken = internal.NewValidationFieldError("email", "email ya registrado", internal.ErrCodeEmailTaken)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateWithProfile stores the user and its role profile in one transaction.
	CreateWithProfile(ctx context.Context, u *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// ProfileLoader returns the role specific profile of a principal.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, p identity.Principal) (interface{}, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	profiles   map[identity.Role]ProfileLoader
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		profiles:   make(map[identity.Role]ProfileLoader),
		logger:     logger,
	}
}

// RegisterProfileLoader attaches the loader used by Me for the given role.
func (s *Service) RegisterProfileLoader(role identity.Role, loader ProfileLoader) {
	s.profiles[role] = loader
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, dto.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Phone:        dto.Phone,
		Role:         string(dto.Role),
		Status:       StatusActive,
	}
	if err := s.repo.CreateWithProfile(ctx, row); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", row.ID, "role", row.Role)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) ChangePassword(ctx context.Context, p identity.Principal, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := VerifyPassword(u.PasswordHash, dto.OldPassword); err != nil {
		return internal.NewValidationFieldError("old_password", "contraseña actual incorrecta", internal.ErrCodeWrongPassword)
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", u.ID)
	return nil
}

// Me returns the caller together with its company or applicant profile.
func (s *Service) Me(ctx context.Context, p identity.Principal) (*MeResponse, error) {
	u, err := s.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	resp := &MeResponse{User: u}
	if loader, ok := s.profiles[p.Role]; ok {
		profile, err := loader.LoadProfile(ctx, p)
		if err != nil {
			var appErr *internal.AppError
			if !errors.As(err, &appErr) || appErr.Type != internal.ErrorTypeNotFound {
				return nil, err
			}
			s.logger.Warn("principal has no profile", "user_id", p.UserID, "role", p.Role)
		} else {
			resp.Profile = profile
		}
	}
	return resp, nil
}
