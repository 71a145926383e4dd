package company

import (
	"time"

	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
)

const (
	SizeStartup     = "startup"
	SizePyme        = "pyme"
	SizeMedium      = "mediana"
	SizeLarge       = "grande"
	SizeCorporation = "corporacion"
)

var Sizes = []string{SizeStartup, SizePyme, SizeMedium, SizeLarge, SizeCorporation}

// Owner is the account summary embedded in company responses.
type Owner struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

type Company struct {
	ID          int64     `json:"id"`
	Owner       *Owner    `json:"usuario,omitempty"`
	Name        string    `json:"nombre_empresa"`
	RUC         *string   `json:"ruc"`
	Description *string   `json:"descripcion"`
	Sector      *string   `json:"sector"`
	Location    *string   `json:"ubicacion"`
	Website     *string   `json:"sitio_web"`
	LogoURL     *string   `json:"logo_url"`
	Size        string    `json:"tamano_empresa"`
	Phone       *string   `json:"telefono_empresa"`
	Verified    bool      `json:"verificada"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion"`
	TotalOffers int64     `json:"total_ofertas"`
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	out := &Company{
		ID:          c.ID,
		Name:        c.Name,
		RUC:         c.RUC,
		Description: c.Description,
		Sector:      c.Sector,
		Location:    c.Location,
		Website:     c.Website,
		LogoURL:     c.LogoURL,
		Size:        c.Size,
		Phone:       c.Phone,
		Verified:    c.Verified,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.User != nil {
		out.Owner = &Owner{
			ID:        c.User.ID,
			Email:     c.User.Email,
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
		}
	}
	return out
}
