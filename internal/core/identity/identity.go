// Package identity holds the authenticated caller resolved once per request.
// Services receive a Principal explicitly instead of reading ambient state.
package identity

import (
	"context"

	"github.com/frahmantamala/empleoya/internal"
)

type Role string

const (
	RoleApplicant Role = "postulante"
	RoleEmployer  Role = "empleador"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role may be chosen at sign up.
func (r Role) SelfRegistrable() bool {
	return r == RoleApplicant || r == RoleEmployer
}

// Principal is the caller of an operation. CompanyID is set for employers
// that own a company, ProfileID for applicants that own a profile.
type Principal struct {
	UserID    int64
	Email     string
	Role      Role
	CompanyID *int64
	ProfileID *int64
}

func (p Principal) IsAdmin() bool     { return p.Role == RoleAdmin }
func (p Principal) IsEmployer() bool  { return p.Role == RoleEmployer }
func (p Principal) IsApplicant() bool { return p.Role == RoleApplicant }

// Employer returns the caller's company id or an error when the caller
// is not an employer or has no company yet.
func (p Principal) Employer() (int64, error) {
	if !p.IsEmployer() {
		return 0, internal.NewForbiddenError("only employers can perform this action", internal.ErrCodeRoleNotAllowed)
	}
	if p.CompanyID == nil {
		return 0, internal.NewNotFoundError("no tienes una empresa registrada", internal.ErrCodeCompanyNotFound)
	}
	return *p.CompanyID, nil
}

// Applicant returns the caller's applicant profile id.
func (p Principal) Applicant() (int64, error) {
	if !p.IsApplicant() {
		return 0, internal.NewForbiddenError("only applicants can perform this action", internal.ErrCodeRoleNotAllowed)
	}
	if p.ProfileID == nil {
		return 0, internal.NewNotFoundError("no tienes un perfil de postulante", internal.ErrCodeProfileNotFound)
	}
	return *p.ProfileID, nil
}

// OwnsCompany is true for admins and for the employer owning companyID.
func (p Principal) OwnsCompany(companyID int64) bool {
	if p.IsAdmin() {
		return true
	}
	return p.CompanyID != nil && *p.CompanyID == companyID
}

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
