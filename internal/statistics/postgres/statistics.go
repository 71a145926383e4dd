package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/empleoya/internal/statistics"
	"github.com/jmoiron/sqlx"
)

const generalQuery = `
SELECT
	(SELECT COUNT(*) FROM oferta_trabajo WHERE estado = ?) AS total_ofertas,
	(SELECT COUNT(*) FROM empresa) AS total_empresas,
	(SELECT COUNT(*) FROM perfil_postulante) AS total_postulantes,
	(SELECT COUNT(*) FROM categoria WHERE activa = ?) AS total_categorias,
	(SELECT COUNT(*) FROM oferta_trabajo WHERE fecha_publicacion >= ?) AS ofertas_esta_semana`

const employerQuery = `
SELECT
	(SELECT COUNT(*) FROM oferta_trabajo WHERE empresa_id = ?) AS total_ofertas,
	(SELECT COUNT(*) FROM oferta_trabajo WHERE empresa_id = ? AND estado = ?) AS ofertas_activas,
	(SELECT COUNT(*) FROM postulacion p JOIN oferta_trabajo o ON o.id = p.oferta_id
		WHERE o.empresa_id = ?) AS total_postulaciones,
	(SELECT COUNT(*) FROM postulacion p JOIN oferta_trabajo o ON o.id = p.oferta_id
		WHERE o.empresa_id = ? AND p.estado = ?) AS postulaciones_pendientes,
	(SELECT COUNT(*) FROM postulacion p JOIN oferta_trabajo o ON o.id = p.oferta_id
		WHERE o.empresa_id = ? AND p.fecha_postulacion >= ?) AS postulaciones_este_mes`

const applicantQuery = `
SELECT
	(SELECT COUNT(*) FROM postulacion WHERE postulante_id = ?) AS total_postulaciones,
	(SELECT COUNT(*) FROM postulacion WHERE postulante_id = ? AND estado IN (?, ?, ?, ?)) AS en_proceso,
	(SELECT COUNT(*) FROM postulacion WHERE postulante_id = ? AND estado = ?) AS aceptadas,
	(SELECT COUNT(*) FROM postulacion WHERE postulante_id = ? AND estado = ?) AS rechazadas,
	(SELECT COUNT(*) FROM postulacion WHERE postulante_id = ? AND fecha_postulacion >= ?) AS postulaciones_este_mes`

// StatisticsRepository runs the aggregate queries through sqlx so they stay
// plain SQL; Rebind adapts the placeholders to the driver.
type StatisticsRepository struct {
	db *sqlx.DB
}

func NewStatisticsRepository(db *sqlx.DB) statistics.RepositoryAPI {
	return &StatisticsRepository{db: db}
}

func (r *StatisticsRepository) General(ctx context.Context, weekStart time.Time) (*statistics.General, error) {
	var out statistics.General
	err := r.db.GetContext(ctx, &out, r.db.Rebind(generalQuery), "activa", true, weekStart)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *StatisticsRepository) Employer(ctx context.Context, companyID int64, monthStart time.Time) (*statistics.Employer, error) {
	var out statistics.Employer
	err := r.db.GetContext(ctx, &out, r.db.Rebind(employerQuery),
		companyID,
		companyID, "activa",
		companyID,
		companyID, "pendiente",
		companyID, monthStart,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *StatisticsRepository) Applicant(ctx context.Context, profileID int64, monthStart time.Time) (*statistics.Applicant, error) {
	var out statistics.Applicant
	err := r.db.GetContext(ctx, &out, r.db.Rebind(applicantQuery),
		profileID,
		profileID, "pendiente", "en_revision", "preseleccionado", "entrevista",
		profileID, "aceptado",
		profileID, "rechazado",
		profileID, monthStart,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
