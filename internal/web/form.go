package web

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/offer"
)

const formDate = "2006-01-02"

// text returns the trimmed value of field, or nil when it is blank.
func text(form url.Values, field string) *string {
	v := strings.TrimSpace(form.Get(field))
	if v == "" {
		return nil
	}
	return &v
}

// parsed converts a non blank field; blank fields stay nil.
func parsed[T any](form url.Values, field string, parse func(string) (T, error)) (*T, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, internal.NewValidationFieldError(field, "Valor inválido en "+field, internal.ErrCodeValidationFailed)
	}
	return &v, nil
}

func parseInt64(s string) (int64, error)    { return strconv.ParseInt(s, 10, 64) }
func parseFloat(s string) (float64, error)  { return strconv.ParseFloat(s, 64) }
func parseDate(s string) (time.Time, error) { return time.Parse(formDate, s) }
func parseInt(s string) (int, error)        { return strconv.Atoi(s) }

// offerFromForm reads the create offer form into the same DTO the API uses.
func offerFromForm(form url.Values) (offer.OfferDTO, error) {
	dto := offer.OfferDTO{
		Title:            text(form, "titulo"),
		Description:      text(form, "descripcion"),
		Requirements:     text(form, "requisitos"),
		Responsibilities: text(form, "responsabilidades"),
		Benefits:         text(form, "beneficios"),
		Currency:         text(form, "moneda"),
		Location:         text(form, "ubicacion"),
		Mode:             text(form, "modalidad"),
		ContractType:     text(form, "tipo_contrato"),
		ExperienceLevel:  text(form, "nivel_experiencia"),
	}

	var err error
	if dto.CategoryID, err = parsed(form, "categoria", parseInt64); err != nil {
		return dto, err
	}
	if dto.SalaryMin, err = parsed(form, "salario_min", parseFloat); err != nil {
		return dto, err
	}
	if dto.SalaryMax, err = parsed(form, "salario_max", parseFloat); err != nil {
		return dto, err
	}
	if dto.Vacancies, err = parsed(form, "vacantes_disponibles", parseInt); err != nil {
		return dto, err
	}
	if dto.ExpiresAt, err = parsed(form, "fecha_expiracion", parseDate); err != nil {
		return dto, err
	}
	if dto.DesiredStartDate, err = parsed(form, "fecha_inicio_deseada", parseDate); err != nil {
		return dto, err
	}
	return dto, nil
}
