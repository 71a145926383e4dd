package applicant

import (
	"context"
	"io"
	"net/http"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id int64) (*Profile, error)
	List(ctx context.Context, filter ListFilter) ([]*Profile, int64, error)
	GetMine(ctx context.Context, p identity.Principal) (*Profile, error)
	UpdateMine(ctx context.Context, p identity.Principal, dto UpdateProfileDTO, full bool) (*Profile, error)
	UploadCV(ctx context.Context, p identity.Principal, filename string, r io.Reader, size int64) (*Profile, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListProfiles handles GET /api/perfiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		ExperienceLevel: q.Get("nivel_experiencia"),
		Availability:    q.Get("disponibilidad"),
		Search:          q.Get("search"),
		CompletedOnly:   q.Get("completado") == "true",
	}
	filter.Limit, filter.Offset = transport.Pagination(r)

	profiles, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Page{Results: profiles, Count: total, Limit: filter.Limit, Offset: filter.Offset})
}

// GetProfile handles GET /api/perfiles/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// GetMyProfile handles GET /api/perfiles/mi_perfil
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Principal(w, r)
	if !ok {
		return
	}

	p, err := h.Service.GetMine(r.Context(), principal)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// UpdateMyProfile handles PUT and PATCH /api/perfiles/mi_perfil
func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto UpdateProfileDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.UpdateMine(r.Context(), principal, dto, r.Method == http.MethodPut)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// UploadCV handles POST /api/perfiles/mi_perfil/cv
func (h *Handler) UploadCV(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxCVSize+1<<20)
	file, header, err := r.FormFile("cv")
	if err != nil {
		h.HandleServiceError(w, ErrInvalidCV)
		return
	}
	defer file.Close()

	p, err := h.Service.UploadCV(r.Context(), principal, header.Filename, file, header.Size)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}
