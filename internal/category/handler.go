package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/empleoya/internal/transport"
)

type ServiceAPI interface {
	ListActive(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error)
	Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*Category, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCategories handles GET /api/categorias
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListActive(r.Context())
	if err != nil {
		h.Logger.Error("GetCategories: failed to get categories", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
	})
}

// GetCategory handles GET /api/categorias/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	cat, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cat)
}

// CreateCategory handles POST /api/admin/categorias
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	cat, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, cat)
}

// UpdateCategory handles PATCH /api/admin/categorias/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateCategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	cat, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cat)
}
