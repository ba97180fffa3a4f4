package handler

import (
	"log/slog"
	"net/http"

	"ninescapeland/internal/httputil"
	"ninescapeland/internal/service"
)

// AssetHandler handles asset HTTP requests
type AssetHandler struct {
	assetService *service.AssetService
	logger       *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService *service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
		logger:       logger,
	}
}

// GetAsset retrieves an asset with its public URLs
// GET /api/assets/{id}
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "asset ID is required")
		return
	}

	asset, err := h.assetService.GetAsset(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}

// DeleteAsset removes an asset's blobs and metadata row. The metadata row
// survives if blob removal fails, so the admin sees the failure instead of
// a silently broken library.
// DELETE /api/assets/{id}
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "asset ID is required")
		return
	}

	if err := h.assetService.DeleteAsset(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
