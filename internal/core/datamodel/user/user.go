package user

import "time"

type User struct {
	ID            int64     `gorm:"primaryKey"`
	Email         string    `gorm:"column:email;size:254;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	FirstName     string    `gorm:"column:nombre;size:100;not null"`
	LastName      string    `gorm:"column:apellido;size:100"`
	Phone         *string   `gorm:"column:telefono;size:20"`
	Role          string    `gorm:"column:tipo_usuario;size:20;not null;default:postulante"`
	Status        string    `gorm:"column:estado;size:20;not null;default:activo"`
	EmailVerified bool      `gorm:"column:email_verificado;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:fecha_actualizacion;autoUpdateTime"`
}

func (User) TableName() string {
	return "usuario"
}
