package handler

import (
	"log/slog"
	"net/http"

	"ninescapeland/internal/httputil"
	"ninescapeland/internal/service"
)

// GalleryHandler serves the media browser: folder contents, breadcrumbs and
// per-level search for both the management view and the embedded picker.
type GalleryHandler struct {
	galleryService *service.GalleryService
	logger         *slog.Logger
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService *service.GalleryService, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		logger:         logger,
	}
}

// Browse returns one folder level: breadcrumb, child folders, assets.
// GET /api/gallery?parent_id=&q=
//
// parent_id empty means root. q applies a case-insensitive substring filter
// to folder names and asset file names at this level only.
func (h *GalleryHandler) Browse(w http.ResponseWriter, r *http.Request) {
	parentID := optionalID(r, "parent_id")
	query := r.URL.Query().Get("q")

	result := h.galleryService.Browse(r.Context(), parentID, query)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// HealthCheck responds to load balancer probes
// GET /health
func (h *GalleryHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
