package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/videosplus/backend-videos/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/v1/videos.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.ParseListParams(r.URL.Query())
	if err != nil {
		common.JSONError(w, err)
		return
	}
	result, err := h.service.List(r.Context(), params)
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// Detail handles GET /api/v1/videos/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": v})
}

// IncrementViews handles POST /api/v1/videos/{id}/views.
func (h *Handler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.IncrementViews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]int64{"viewCount": count}})
}
