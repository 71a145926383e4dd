package offer

import (
	"time"

	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
)

const (
	StatusDraft   = "borrador"
	StatusPending = "pendiente_aprobacion"
	StatusActive  = "activa"
	StatusPaused  = "pausada"
	StatusExpired = "expirada"
	StatusClosed  = "cerrada"
)

var Statuses = []string{StatusDraft, StatusPending, StatusActive, StatusPaused, StatusExpired, StatusClosed}

var Modes = []string{"presencial", "remoto", "hibrido"}

var ContractTypes = []string{"tiempo_completo", "medio_tiempo", "por_proyecto", "freelance", "practicas", "temporal"}

var ExperienceLevels = []string{"sin_experiencia", "junior", "semi_senior", "senior", "lead"}

// ListItem is the compact shape used by listings.
type ListItem struct {
	ID              int64      `json:"id"`
	Title           string     `json:"titulo"`
	CompanyName     string     `json:"empresa_nombre"`
	CompanyLogo     *string    `json:"empresa_logo"`
	CategoryName    *string    `json:"categoria_nombre"`
	Location        *string    `json:"ubicacion"`
	Mode            string     `json:"modalidad"`
	ContractType    string     `json:"tipo_contrato"`
	ExperienceLevel string     `json:"nivel_experiencia"`
	SalaryMin       *float64   `json:"salario_min"`
	SalaryMax       *float64   `json:"salario_max"`
	Currency        string     `json:"moneda"`
	PublishedAt     *time.Time `json:"fecha_publicacion"`
	Views           int64      `json:"vistas"`
	Vacancies       int        `json:"vacantes_disponibles"`
	Status          string     `json:"estado,omitempty"`
}

type CompanySummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"nombre_empresa"`
	LogoURL  *string `json:"logo_url"`
	Sector   *string `json:"sector"`
	Location *string `json:"ubicacion"`
	Verified bool    `json:"verificada"`
}

type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// Offer is the detail view.
type Offer struct {
	ID                int64            `json:"id"`
	Company           *CompanySummary  `json:"empresa"`
	Category          *CategorySummary `json:"categoria"`
	Title             string           `json:"titulo"`
	Description       string           `json:"descripcion"`
	Requirements      *string          `json:"requisitos"`
	Responsibilities  *string          `json:"responsabilidades"`
	Benefits          *string          `json:"beneficios"`
	SalaryMin         *float64         `json:"salario_min"`
	SalaryMax         *float64         `json:"salario_max"`
	Currency          string           `json:"moneda"`
	Location          *string          `json:"ubicacion"`
	Mode              string           `json:"modalidad"`
	ContractType      string           `json:"tipo_contrato"`
	ExperienceLevel   string           `json:"nivel_experiencia"`
	Vacancies         int              `json:"vacantes_disponibles"`
	PublishedAt       *time.Time       `json:"fecha_publicacion"`
	ExpiresAt         *time.Time       `json:"fecha_expiracion"`
	DesiredStartDate  *time.Time       `json:"fecha_inicio_deseada"`
	Status            string           `json:"estado"`
	Approved          bool             `json:"aprobada_admin"`
	ApprovedAt        *time.Time       `json:"fecha_aprobacion"`
	Views             int64            `json:"vistas"`
	CreatedAt         time.Time        `json:"fecha_creacion"`
	UpdatedAt         time.Time        `json:"fecha_actualizacion"`
	TotalApplications int64            `json:"total_postulaciones"`
}

// IsPublic reports whether anonymous callers may see the offer.
func IsPublic(o *offerDatamodel.JobOffer) bool {
	return o.Status == StatusActive && o.Approved
}

// SetStatus changes the lifecycle status. The publish date is assigned the
// first time the offer becomes active and never overwritten.
func SetStatus(o *offerDatamodel.JobOffer, status string, now time.Time) {
	o.Status = status
	if status == StatusActive && o.PublishedAt == nil {
		o.PublishedAt = &now
	}
}

func FromDataModel(o *offerDatamodel.JobOffer) *Offer {
	out := &Offer{
		ID:               o.ID,
		Title:            o.Title,
		Description:      o.Description,
		Requirements:     o.Requirements,
		Responsibilities: o.Responsibilities,
		Benefits:         o.Benefits,
		SalaryMin:        o.SalaryMin,
		SalaryMax:        o.SalaryMax,
		Currency:         o.Currency,
		Location:         o.Location,
		Mode:             o.Mode,
		ContractType:     o.ContractType,
		ExperienceLevel:  o.ExperienceLevel,
		Vacancies:        o.Vacancies,
		PublishedAt:      o.PublishedAt,
		ExpiresAt:        o.ExpiresAt,
		DesiredStartDate: o.DesiredStartDate,
		Status:           o.Status,
		Approved:         o.Approved,
		ApprovedAt:       o.ApprovedAt,
		Views:            o.Views,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if o.Company != nil {
		out.Company = &CompanySummary{
			ID:       o.Company.ID,
			Name:     o.Company.Name,
			LogoURL:  o.Company.LogoURL,
			Sector:   o.Company.Sector,
			Location: o.Company.Location,
			Verified: o.Company.Verified,
		}
	}
	if o.Category != nil {
		out.Category = &CategorySummary{ID: o.Category.ID, Name: o.Category.Name}
	}
	return out
}

func ToListItem(o *offerDatamodel.JobOffer) *ListItem {
	item := &ListItem{
		ID:              o.ID,
		Title:           o.Title,
		Location:        o.Location,
		Mode:            o.Mode,
		ContractType:    o.ContractType,
		ExperienceLevel: o.ExperienceLevel,
		SalaryMin:       o.SalaryMin,
		SalaryMax:       o.SalaryMax,
		Currency:        o.Currency,
		PublishedAt:     o.PublishedAt,
		Views:           o.Views,
		Vacancies:       o.Vacancies,
	}
	if o.Company != nil {
		item.CompanyName = o.Company.Name
		item.CompanyLogo = o.Company.LogoURL
	}
	if o.Category != nil {
		name := o.Category.Name
		item.CategoryName = &name
	}
	return item
}

func ToListItems(rows []*offerDatamodel.JobOffer) []*ListItem {
	items := make([]*ListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToListItem(row))
	}
	return items
}
