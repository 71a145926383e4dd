package user

import (
	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
	"github.com/frahmantamala/empleoya/internal/core/identity"
)

const MinPasswordLength = 4

type RegisterDTO struct {
	Email     string        `json:"email"`
	Password  string        `json:"password"`
	Password2 string        `json:"password2"`
	FirstName string        `json:"nombre"`
	LastName  string        `json:"apellido"`
	Phone     *string       `json:"telefono,omitempty"`
	Role      identity.Role `json:"tipo_usuario"`
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("password", d.Password).Required().MinLength(MinPasswordLength)
	v.Field("password2", d.Password2).Required().
		Matches(d.Password, "Las contraseñas no coinciden", internal.ErrCodePasswordMismatch)
	v.Field("nombre", d.FirstName).Required().MaxLength(100)
	v.Field("apellido", d.LastName).MaxLength(100)
	v.Field("tipo_usuario", string(d.Role)).Required().Custom(func(interface{}) *internal.AppError {
		if !d.Role.SelfRegistrable() {
			return internal.NewValidationFieldError("tipo_usuario", "tipo_usuario must be postulante or empleador", internal.ErrCodeInvalidRole)
		}
		return nil
	})
	return v.Validate()
}

type ChangePasswordDTO struct {
	OldPassword  string `json:"old_password"`
	NewPassword  string `json:"new_password"`
	NewPassword2 string `json:"new_password2"`
}

func (d ChangePasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("old_password", d.OldPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(MinPasswordLength)
	v.Field("new_password2", d.NewPassword2).Required().
		Matches(d.NewPassword, "Las contraseñas no coinciden", internal.ErrCodePasswordMismatch)
	return v.Validate()
}

// MeResponse is the body of GET /api/auth/perfil.
type MeResponse struct {
	User    *User       `json:"usuario"`
	Profile interface{} `json:"perfil,omitempty"`
}
