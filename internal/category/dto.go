package category

import (
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Icon        *string `json:"icono"`
	Active      *bool   `json:"activa"`
}

func (d *CreateCategoryDTO) Validate() *internal.AppError {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("nombre", d.Name).Required().MaxLength(100)
	v.Field("icono", d.Icon).MaxLength(50)
	return v.Validate()
}

// UpdateCategoryDTO is a partial update; nil fields are left untouched.
type UpdateCategoryDTO struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Icon        *string `json:"icono"`
	Active      *bool   `json:"activa"`
}

func (d *UpdateCategoryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		d.Name = &name
		v.Field("nombre", d.Name).Required().MaxLength(100)
	}
	v.Field("icono", d.Icon).MaxLength(50)
	return v.Validate()
}

type CategoriesResponse struct {
	Categories []*Category `json:"categorias"`
}
