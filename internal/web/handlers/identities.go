package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"emoscan/internal/constants"
	"emoscan/internal/detect"
	"emoscan/internal/registry"
)

// Enroller extracts the single face embedding from an enrollment image.
type Enroller interface {
	DetectSingle(imgData []byte) (detect.Face, error)
}

// IdentitiesHandler manages the identity registry over HTTP.
type IdentitiesHandler struct {
	store    registry.Store
	enroller Enroller
}

// NewIdentitiesHandler creates a new identities handler.
func NewIdentitiesHandler(store registry.Store, enroller Enroller) *IdentitiesHandler {
	return &IdentitiesHandler{
		store:    store,
		enroller: enroller,
	}
}

// List returns all enrolled identities.
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	raw, err := h.store.Scan(r.Context())
	if err != nil {
		log.Printf("identities: scan failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list identities")
		return
	}

	type identity struct {
		Label     string `json:"label"`
		CreatedAt string `json:"created_at,omitempty"`
	}
	out := make([]identity, 0, len(raw))
	for _, id := range raw {
		entry := identity{Label: id.Label}
		if !id.CreatedAt.IsZero() {
			entry.CreatedAt = id.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, entry)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"identities": out,
		"count":      len(out),
	})
}

// Enroll registers a new identity from a face image. The multipart form
// carries the image under "image" and the identity name under "label".
// The image must contain exactly one face.
func (h *IdentitiesHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	label := registry.NormalizeLabel(r.FormValue("label"))
	if label == "" {
		respondError(w, http.StatusBadRequest, "label is required")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	imgData, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	face, err := h.enroller.DetectSingle(imgData)
	switch {
	case errors.Is(err, detect.ErrNoFace):
		respondError(w, http.StatusUnprocessableEntity, "no face found in image")
		return
	case errors.Is(err, detect.ErrMultipleFaces):
		respondError(w, http.StatusUnprocessableEntity, "image must contain exactly one face")
		return
	case err != nil:
		log.Printf("identities: enrollment detection failed: %v", err)
		respondError(w, http.StatusInternalServerError, "face detection failed")
		return
	}

	if err := h.store.Add(r.Context(), label, face.Embedding); err != nil {
		log.Printf("identities: storing %s failed: %v", sanitizeForLog(label), err)
		respondError(w, http.StatusInternalServerError, "failed to store identity")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"label": label,
	})
}

// Remove deletes all embeddings enrolled under a label.
func (h *IdentitiesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	label := registry.NormalizeLabel(chi.URLParam(r, "label"))
	if label == "" {
		respondError(w, http.StatusBadRequest, "missing label")
		return
	}

	removed, err := h.store.Remove(r.Context(), label)
	if err != nil {
		log.Printf("identities: removing %s failed: %v", sanitizeForLog(label), err)
		respondError(w, http.StatusInternalServerError, "failed to remove identity")
		return
	}
	if removed == 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("identity %q not found", label))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"label":   label,
		"removed": removed,
	})
}
