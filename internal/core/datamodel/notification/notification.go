package notification

import (
	"time"

	"github.com/frahmantamala/empleoya/internal/core/datamodel/user"
)

type Notification struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"column:usuario_id;not null;index:idx_notificacion_usuario_leida,priority:1"`
	User      *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Type      string     `gorm:"column:tipo;size:30;not null"`
	Title     string     `gorm:"column:titulo;size:200;not null"`
	Message   string     `gorm:"column:mensaje;not null"`
	Link      *string    `gorm:"column:enlace;size:500"`
	Read      bool       `gorm:"column:leida;not null;default:false;index:idx_notificacion_usuario_leida,priority:2"`
	CreatedAt time.Time  `gorm:"column:fecha_creacion;autoCreateTime"`
	ReadAt    *time.Time `gorm:"column:fecha_leida"`
}

func (Notification) TableName() string {
	return "notificacion"
}
