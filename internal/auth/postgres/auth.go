package auth

import (
	"context"
	"errors"

	"github.com/frahmantamala/empleoya/internal/auth"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "password_hash", "tipo_usuario", "estado").
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         identity.Role(u.Role),
		Status:       u.Status,
	}, nil
}

func (r *Repository) LoadPrincipal(ctx context.Context, userID int64) (identity.Principal, string, error) {
	db := r.db.WithContext(ctx)

	var u userDatamodel.User
	if err := db.Select("id", "email", "tipo_usuario", "estado").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.Principal{}, "", user.ErrNotFound
		}
		return identity.Principal{}, "", err
	}

	p := identity.Principal{UserID: u.ID, Email: u.Email, Role: identity.Role(u.Role)}

	switch p.Role {
	case identity.RoleEmployer:
		var ids []int64
		if err := db.Model(&companyDatamodel.Company{}).Where("usuario_id = ?", u.ID).Limit(1).Pluck("id", &ids).Error; err != nil {
			return identity.Principal{}, "", err
		}
		if len(ids) == 1 {
			p.CompanyID = &ids[0]
		}
	case identity.RoleApplicant:
		var ids []int64
		if err := db.Model(&applicantDatamodel.ApplicantProfile{}).Where("usuario_id = ?", u.ID).Limit(1).Pluck("id", &ids).Error; err != nil {
			return identity.Principal{}, "", err
		}
		if len(ids) == 1 {
			p.ProfileID = &ids[0]
		}
	}

	return p, u.Status, nil
}
