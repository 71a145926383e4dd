package user

import (
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"golang.org/x/crypto/bcrypt"
)

const (
	StatusActive    = "activo"
	StatusInactive  = "inactivo"
	StatusSuspended = "suspendido"
)

type User struct {
	ID            int64         `json:"id"`
	Email         string        `json:"email"`
	FirstName     string        `json:"nombre"`
	LastName      string        `json:"apellido"`
	Phone         *string       `json:"telefono,omitempty"`
	Role          identity.Role `json:"tipo_usuario"`
	Status        string        `json:"estado"`
	EmailVerified bool          `json:"email_verificado"`
	PasswordHash  string        `json:"-"`
	CreatedAt     time.Time     `json:"fecha_creacion"`
	UpdatedAt     time.Time     `json:"fecha_actualizacion"`
}

func (u *User) IsActiveUser() bool {
	return u.Status == StatusActive
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Role:          string(u.Role),
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:            u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Role:          identity.Role(u.Role),
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
