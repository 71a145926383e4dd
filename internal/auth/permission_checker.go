package auth

import "github.com/frahmantamala/empleoya/internal/core/identity"

type PermissionChecker interface {
	HasRole(p identity.Principal, roles ...identity.Role) bool
	CanPostOffers(p identity.Principal) bool
	CanApply(p identity.Principal) bool
	CanModerate(p identity.Principal) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasRole(p identity.Principal, roles ...identity.Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

func (c *DefaultPermissionChecker) CanPostOffers(p identity.Principal) bool {
	return p.IsEmployer()
}

func (c *DefaultPermissionChecker) CanApply(p identity.Principal) bool {
	return p.IsApplicant()
}

func (c *DefaultPermissionChecker) CanModerate(p identity.Principal) bool {
	return p.IsAdmin()
}
