package company

import (
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/common/validation"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
)

// UpdateCompanyDTO carries PUT and PATCH bodies. verificada is never accepted
// from the owner.
type UpdateCompanyDTO struct {
	Name        *string `json:"nombre_empresa"`
	RUC         *string `json:"ruc"`
	Description *string `json:"descripcion"`
	Sector      *string `json:"sector"`
	Location    *string `json:"ubicacion"`
	Website     *string `json:"sitio_web"`
	LogoURL     *string `json:"logo_url"`
	Size        *string `json:"tamano_empresa"`
	Phone       *string `json:"telefono_empresa"`
}

// Validate checks the payload; full is true for PUT, which requires nombre_empresa.
func (d *UpdateCompanyDTO) Validate(full bool) *internal.AppError {
	if d.RUC != nil {
		ruc := strings.TrimSpace(*d.RUC)
		d.RUC = &ruc
	}

	v := validation.NewValidator()
	if full || d.Name != nil {
		v.Field("nombre_empresa", d.Name).Required().MaxLength(200)
	}
	v.Field("ruc", d.RUC).MaxLength(20)
	v.Field("sector", d.Sector).MaxLength(100)
	v.Field("ubicacion", d.Location).MaxLength(200)
	v.Field("sitio_web", d.Website).URL().MaxLength(200)
	v.Field("logo_url", d.LogoURL).URL().MaxLength(500)
	v.Field("tamano_empresa", d.Size).OneOf(Sizes...)
	v.Field("telefono_empresa", d.Phone).MaxLength(20)
	return v.Validate()
}

// Apply copies the provided fields onto row. An empty ruc clears it so the
// unique index only sees real tax ids.
func (d *UpdateCompanyDTO) Apply(row *companyDatamodel.Company) {
	if d.Name != nil {
		row.Name = strings.TrimSpace(*d.Name)
	}
	validation.SetText(&row.RUC, d.RUC)
	if d.Description != nil {
		row.Description = d.Description
	}
	if d.Sector != nil {
		row.Sector = d.Sector
	}
	if d.Location != nil {
		row.Location = d.Location
	}
	if d.Website != nil {
		row.Website = d.Website
	}
	if d.LogoURL != nil {
		row.LogoURL = d.LogoURL
	}
	if d.Size != nil && *d.Size != "" {
		row.Size = *d.Size
	}
	if d.Phone != nil {
		row.Phone = d.Phone
	}
}

type ListFilter struct {
	Sector   string
	Verified *bool
	Search   string
	Limit    int
	Offset   int
}
