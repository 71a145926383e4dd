package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response for failures detected in the handler itself
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	errType := internal.ErrorTypeInternal
	switch status {
	case http.StatusBadRequest:
		errType = internal.ErrorTypeValidation
	case http.StatusUnauthorized:
		errType = internal.ErrorTypeUnauthorized
	case http.StatusForbidden:
		errType = internal.ErrorTypeForbidden
	case http.StatusNotFound:
		errType = internal.ErrorTypeNotFound
	}
	h.writeAppError(w, &internal.AppError{
		Type:       errType,
		Code:       internal.ErrorCode(strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))),
		Message:    message,
		StatusCode: status,
	})
}

// HandleServiceError maps errors returned by services onto HTTP responses.
// Anything that is not an AppError is logged and hidden behind a 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("service error", "error", appErr, "code", appErr.Code)
		}
		h.writeAppError(w, appErr)
		return
	}

	h.Logger.Error("unexpected service error", "error", err)
	h.writeAppError(w, internal.NewInternalError("internal server error", err))
}

func (h *BaseHandler) writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		h.Logger.Warn("http error", "status", status, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	_, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// DecodeJSON decodes the request body and rejects unknown payload shapes with a 400.
// An empty body decodes to the zero value.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.Warn("invalid request body", "error", err, "path", r.URL.Path)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}

	return strings.TrimSpace(authHeader[7:])
}

// Principal returns the authenticated caller or writes a 401.
func (h *BaseHandler) Principal(w http.ResponseWriter, r *http.Request) (identity.Principal, bool) {
	p, ok := identity.FromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return identity.Principal{}, false
	}
	return p, true
}

// IDParam parses a positive int64 chi URL parameter or writes a 400.
func (h *BaseHandler) IDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// Pagination reads limit/offset query parameters with the usual bounds.
func Pagination(r *http.Request) (limit, offset int) {
	limit = DefaultPageSize
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= MaxPageSize {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// Page is the envelope used by list endpoints.
type Page struct {
	Results interface{} `json:"results"`
	Count   int64       `json:"count"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}
