package category

import "time"

type Category struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:nombre;size:100;uniqueIndex;not null"`
	Description *string   `gorm:"column:descripcion"`
	Icon        *string   `gorm:"column:icono;size:50"`
	Active      bool      `gorm:"column:activa;not null"`
	CreatedAt   time.Time `gorm:"column:fecha_creacion;autoCreateTime"`
}

func (Category) TableName() string {
	return "categoria"
}

// CategoryWithCount is the read model for listings that show how many active offers a category has.
type CategoryWithCount struct {
	Category
	OfferCount int64 `gorm:"column:num_ofertas"`
}
