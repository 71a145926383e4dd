package statistics

// General are the public site wide counters.
type General struct {
	ActiveOffers     int64 `json:"total_ofertas" db:"total_ofertas"`
	Companies        int64 `json:"total_empresas" db:"total_empresas"`
	Applicants       int64 `json:"total_postulantes" db:"total_postulantes"`
	ActiveCategories int64 `json:"total_categorias" db:"total_categorias"`
	OffersThisWeek   int64 `json:"ofertas_esta_semana" db:"ofertas_esta_semana"`
}

type Employer struct {
	TotalOffers            int64 `json:"total_ofertas" db:"total_ofertas"`
	ActiveOffers           int64 `json:"ofertas_activas" db:"ofertas_activas"`
	TotalApplications      int64 `json:"total_postulaciones" db:"total_postulaciones"`
	PendingApplications    int64 `json:"postulaciones_pendientes" db:"postulaciones_pendientes"`
	ApplicationsLast30Days int64 `json:"postulaciones_este_mes" db:"postulaciones_este_mes"`
}

type Applicant struct {
	TotalApplications      int64 `json:"total_postulaciones" db:"total_postulaciones"`
	InProgress             int64 `json:"en_proceso" db:"en_proceso"`
	Accepted               int64 `json:"aceptadas" db:"aceptadas"`
	Rejected               int64 `json:"rechazadas" db:"rechazadas"`
	ApplicationsLast30Days int64 `json:"postulaciones_este_mes" db:"postulaciones_este_mes"`
}
