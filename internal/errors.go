package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail        ErrorCode = "INVALID_EMAIL"
	ErrCodePasswordTooShort    ErrorCode = "PASSWORD_TOO_SHORT"
	ErrCodePasswordMismatch    ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeEmailTaken          ErrorCode = "EMAIL_TAKEN"
	ErrCodeInvalidRole         ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidChoice       ErrorCode = "INVALID_CHOICE"
	ErrCodeOutOfRange          ErrorCode = "OUT_OF_RANGE"
	ErrCodeInvalidSalaryRange  ErrorCode = "INVALID_SALARY_RANGE"
	ErrCodeInvalidCategory     ErrorCode = "INVALID_CATEGORY"
	ErrCodeDuplicateCategory   ErrorCode = "DUPLICATE_CATEGORY"
	ErrCodeDuplicateRUC        ErrorCode = "DUPLICATE_RUC"
	ErrCodeOfferNotActive      ErrorCode = "OFFER_NOT_ACTIVE"
	ErrCodeAlreadyApplied      ErrorCode = "ALREADY_APPLIED"
	ErrCodeCannotWithdraw      ErrorCode = "CANNOT_WITHDRAW"
	ErrCodeAlreadyFavorited    ErrorCode = "ALREADY_FAVORITED"
	ErrCodeInvalidFile         ErrorCode = "INVALID_FILE"
	ErrCodeStatsNotAvailable   ErrorCode = "STATS_NOT_AVAILABLE"
	ErrCodeStorageNotAvailable ErrorCode = "STORAGE_NOT_AVAILABLE"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound     ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeCompanyNotFound      ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeProfileNotFound      ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeOfferNotFound        ErrorCode = "OFFER_NOT_FOUND"
	ErrCodeApplicationNotFound  ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeFavoriteNotFound     ErrorCode = "FAVORITE_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked       ErrorCode = "TOKEN_REVOKED"
	ErrCodeWrongPassword      ErrorCode = "WRONG_PASSWORD"

	ErrCodeRoleNotAllowed ErrorCode = "ROLE_NOT_ALLOWED"
	ErrCodeNotOwner       ErrorCode = "NOT_OWNER"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so that package-level sentinels work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Type != t.Type || e.Code != t.Code {
		return false
	}
	// field errors share a code; tell them apart by the first field code
	if want := firstFieldCode(t); want != "" {
		return firstFieldCode(e) == want
	}
	return true
}

func firstFieldCode(e *AppError) string {
	if v, ok := e.Details.(ValidationErrors); ok && len(v.Errors) > 0 {
		return v.Errors[0].Code
	}
	return ""
}

// WithCause returns a copy carrying cause; sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthorizedError("user is inactive", ErrCodeUserInactive)
	ErrMissingToken       = NewUnauthorizedError("missing authorization token", ErrCodeMissingToken)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrTokenRevoked       = NewUnauthorizedError("Token has been revoked", ErrCodeTokenRevoked)

	ErrRoleNotAllowed = NewForbiddenError("role not allowed for this operation", ErrCodeRoleNotAllowed)
	ErrNotOwner       = NewForbiddenError("resource belongs to another account", ErrCodeNotOwner)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
