package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/category"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Description *string   `json:"descripcion"`
	Icon        *string   `json:"icono"`
	Active      bool      `json:"activa"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	OfferCount  int64     `json:"num_ofertas"`
}

func (c *Category) IsActiveCategory() bool {
	return c.Active
}

func NewCategory(name string, description, icon *string) *Category {
	return &Category{
		Name:        name,
		Description: description,
		Icon:        icon,
		Active:      true,
		CreatedAt:   time.Now(),
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func FromCountedDataModel(c *categoryDatamodel.CategoryWithCount) *Category {
	cat := FromDataModel(&c.Category)
	cat.OfferCount = c.OfferCount
	return cat
}
