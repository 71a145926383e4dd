package auth

import (
	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutDTO optionally carries the refresh token so that it is revoked too.
type LogoutDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}
