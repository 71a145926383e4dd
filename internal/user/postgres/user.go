package postgres

import (
	"context"
	"errors"
	"fmt"

	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) CreateWithProfile(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return user.ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		switch identity.Role(u.Role) {
		case identity.RoleEmployer:
			company := &companyDatamodel.Company{
				UserID: u.ID,
				Name:   "Empresa de " + u.FirstName,
				Size:   "pyme",
			}
			if err := tx.Create(company).Error; err != nil {
				return fmt.Errorf("create company: %w", err)
			}
		case identity.RoleApplicant:
			profile := &applicantDatamodel.ApplicantProfile{
				UserID:          u.ID,
				ExperienceLevel: "sin_experiencia",
				SalaryCurrency:  "PEN",
				Availability:    "negociable",
			}
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("create applicant profile: %w", err)
			}
		}
		return nil
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
