package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"emoscan/internal/constants"
	"emoscan/internal/storage"
)

// Blobs is the slice of the storage layer the upload handler needs.
type Blobs interface {
	Upload(ctx context.Context, srcPath string, dst storage.Locator) error
}

// UploadHandler accepts video uploads and stages them in blob storage.
type UploadHandler struct {
	blobs   Blobs
	workDir string
}

// NewUploadHandler creates a new upload handler. Uploads without an explicit
// destination land in workDir under a fresh name.
func NewUploadHandler(blobs Blobs, workDir string) *UploadHandler {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &UploadHandler{
		blobs:   blobs,
		workDir: workDir,
	}
}

// Upload handles a multipart video upload. The "video" form file is staged
// into blob storage and the handler responds with the resulting locator,
// ready to be passed to the process endpoint.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()

	dst, err := h.destination(r.FormValue("destination"), header.Filename)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tempDir, err := os.MkdirTemp("", "emoscan-upload-*")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create temp directory")
		return
	}
	defer os.RemoveAll(tempDir)

	tempPath := filepath.Join(tempDir, filepath.Base(header.Filename))
	out, err := os.Create(tempPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create temp file")
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		respondError(w, http.StatusInternalServerError, "failed to save file")
		return
	}
	out.Close()

	if err := h.blobs.Upload(r.Context(), tempPath, dst); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store upload: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"locator":  dst.String(),
		"filename": filepath.Base(header.Filename),
	})
}

// destination resolves where the upload lands: an explicit locator when
// given, otherwise a fresh name in the work directory.
func (h *UploadHandler) destination(raw, filename string) (storage.Locator, error) {
	if raw != "" {
		dst, err := storage.ParseLocator(raw)
		if err != nil {
			return storage.Locator{}, fmt.Errorf("destination: %w", err)
		}
		return dst, nil
	}
	name := uuid.NewString() + filepath.Ext(filename)
	return storage.Locator{Key: filepath.Join(h.workDir, name)}, nil
}
