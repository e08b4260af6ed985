package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/upload"
)

// maxUploadBytes caps in-memory multipart parsing; larger bodies spill
// to disk.
const maxUploadBytes = 32 << 20

// UploadHandler handles video uploads and upload listing.
type UploadHandler struct {
	store *upload.Store
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store *upload.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadResponse acknowledges a stored upload.
type UploadResponse struct {
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	FilePath   string `json:"file_path"`
	FileSize   int64  `json:"file_size"`
	UploadTime string `json:"upload_time"`
}

// UploadsResponse is the upload listing shape.
type UploadsResponse struct {
	Files     []upload.StoredFile `json:"files"`
	Count     int                 `json:"count"`
	UploadDir string              `json:"upload_dir"`
}

// Upload handles POST /upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	result, err := h.store.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, model.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to upload file: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:    "File uploaded successfully",
		Filename:   result.Filename,
		FilePath:   result.Path,
		FileSize:   result.Size,
		UploadTime: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListUploads handles GET /uploads
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	files, err := h.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list files: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadsResponse{
		Files:     files,
		Count:     len(files),
		UploadDir: h.store.Dir(),
	})
}
