package company

import (
	"time"

	"github.com/frahmantamala/empleoya/internal/core/datamodel/user"
)

type Company struct {
	ID          int64      `gorm:"primaryKey"`
	UserID      int64      `gorm:"column:usuario_id;uniqueIndex;not null"`
	User        *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name        string     `gorm:"column:nombre_empresa;size:200;not null"`
	RUC         *string    `gorm:"column:ruc;size:20;uniqueIndex"`
	Description *string    `gorm:"column:descripcion"`
	Sector      *string    `gorm:"column:sector;size:100"`
	Location    *string    `gorm:"column:ubicacion;size:200"`
	Website     *string    `gorm:"column:sitio_web;size:200"`
	LogoURL     *string    `gorm:"column:logo_url;size:500"`
	Size        string     `gorm:"column:tamano_empresa;size:20;not null;default:pyme"`
	Phone       *string    `gorm:"column:telefono_empresa;size:20"`
	Verified    bool       `gorm:"column:verificada;not null;default:false"`
	CreatedAt   time.Time  `gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:fecha_actualizacion;autoUpdateTime"`
}

func (Company) TableName() string {
	return "empresa"
}
