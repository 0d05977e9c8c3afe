package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"telepost/internal/httputil"
	"telepost/internal/media"
)

// UploadHandler handles media upload and serving
type UploadHandler struct {
	processor *media.Processor
	store     media.Store
	maxBytes  int64
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(processor *media.Processor, store media.Store, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		processor: processor,
		store:     store,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Upload stores one media asset from the multipart field "image"
// POST /upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		httputil.RespondError(w, http.StatusBadRequest, "no selected file")
		return
	}

	upload, err := h.processor.Process(file, header.Filename)
	if err != nil {
		h.logger.Warn("upload rejected", "filename", header.Filename, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, upload)
}

// ServeUpload serves a stored asset
// GET /static/uploads/{filename}
func (h *UploadHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	// Stored names are uuid-based; anything that could escape the upload
	// directory is a 404, not an error worth distinguishing.
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, h.store.Path(name))
}
