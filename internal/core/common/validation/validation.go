package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	errors "github.com/frahmantamala/empleoya/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		msg := fmt.Sprintf("%s is required", fv.FieldName)
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case int64:
			if v == 0 {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		case *int64:
			if v == nil {
				return fv.fail(msg, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int64, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := asInt64(value); ok && v < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d", fv.FieldName, min), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxInt(max int64, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := asInt64(value); ok && v > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d", fv.FieldName, max), code)
		}
		return nil
	})
	return fv
}

// Range checks an integer (or *int) lies in [min, max]. nil pointers pass.
func (fv *FieldValidator) Range(min, max int64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := asInt64(value); ok && (v < min || v > max) {
			return fv.fail(fmt.Sprintf("%s must be between %d and %d", fv.FieldName, min, max), errors.ErrCodeOutOfRange)
		}
		return nil
	})
	return fv
}

// NonNegative applies to *float64 amounts such as salaries.
func (fv *FieldValidator) NonNegative() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(*float64); ok && v != nil && *v < 0 {
			return fv.fail(fmt.Sprintf("%s must not be negative", fv.FieldName), errors.ErrCodeOutOfRange)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := asString(value); ok && len([]rune(v)) < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := asString(value); ok && len([]rune(v)) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// OneOf accepts empty values; combine with Required when the field is mandatory.
func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := asString(value)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of: %s", fv.FieldName, strings.Join(allowed, ", ")), errors.ErrCodeInvalidChoice)
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := asString(value)
		if !ok || v == "" {
			return nil
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return fv.fail(fmt.Sprintf("%s is not a valid email address", fv.FieldName), errors.ErrCodeInvalidEmail)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) URL() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := asString(value)
		if !ok || v == "" {
			return nil
		}
		u, err := url.ParseRequestURI(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fv.fail(fmt.Sprintf("%s must be a valid http(s) URL", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Matches compares the field with another value, e.g. a password confirmation.
func (fv *FieldValidator) Matches(other string, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := asString(value); ok && v != other {
			return fv.fail(message, code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) NotPast() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var t *time.Time
		switch v := value.(type) {
		case time.Time:
			t = &v
		case *time.Time:
			t = v
		}
		if t != nil && !t.IsZero() && t.Before(time.Now()) {
			return fv.fail(fmt.Sprintf("%s cannot be in the past", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			// first failure per field is enough
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// SetText applies an optional text field from a partial update: nil leaves
// dst alone, blank clears it.
func SetText(dst **string, src *string) {
	if src == nil {
		return
	}
	if strings.TrimSpace(*src) == "" {
		*dst = nil
		return
	}
	v := *src
	*dst = &v
}

func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case *int:
		if v == nil {
			return 0, false
		}
		return int64(*v), true
	case *int64:
		if v == nil {
			return 0, false
		}
		return *v, true
	}
	return 0, false
}

func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}
