package handler

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"ninescapeland/internal/config"
	"ninescapeland/internal/httputil"
	"ninescapeland/internal/service"
)

// UploadHandler handles upload batch HTTP requests
type UploadHandler struct {
	uploadService *service.UploadService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// StartBatch accepts a multipart form and starts an upload batch.
// POST /api/uploads
//
// Form fields:
//   - files: one or more file parts. A part filename containing slashes is
//     treated as a folder upload's relative path ("docs/a.png"), the way a
//     directory-selection input reports paths relative to the chosen root.
//   - folder_id: optional target folder (empty = root)
//
// Responds 202 with the initial batch snapshot; clients poll GetBatch for
// progress.
func (h *UploadHandler) StartBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadBatchBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	var folderID *string
	if v := r.FormValue("folder_id"); v != "" {
		folderID = &v
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded file", "file", fh.Filename, "error", err)
			httputil.RespondError(w, http.StatusInternalServerError, "failed to open uploaded file")
			return
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.logger.Error("failed to read uploaded file", "file", fh.Filename, "error", err)
			httputil.RespondError(w, http.StatusInternalServerError, "failed to read uploaded file")
			return
		}

		uf := service.UploadFile{
			Name:        path.Base(fh.Filename),
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
		// Slashes in the part filename carry the folder upload subpath
		if uf.Name != fh.Filename {
			uf.RelativePath = fh.Filename
		}
		files = append(files, uf)
	}

	batch, err := h.uploadService.Start(r.Context(), files, folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("upload batch accepted",
		"batch_id", batch.ID,
		"file_count", len(files),
		"user_id", httputil.GetUserID(r),
	)

	httputil.RespondJSON(w, http.StatusAccepted, batch)
}

// GetBatch returns a progress snapshot for a batch
// GET /api/uploads/{id}
func (h *UploadHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "batch ID is required")
		return
	}

	batch, err := h.uploadService.Get(id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, batch)
}

// CancelBatch requests cooperative cancellation of a batch. The item in
// flight runs to completion; remaining items stay pending.
// POST /api/uploads/{id}/cancel
func (h *UploadHandler) CancelBatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "batch ID is required")
		return
	}

	batch, err := h.uploadService.Cancel(id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, batch)
}
