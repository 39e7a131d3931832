package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/generation"
	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/storage"
)

// maxJSONBody bounds request bodies other than uploads
const maxJSONBody = 4 << 20

type Handler struct {
	store                *storage.ProjectStore
	generator            *generation.Service
	fetcher              *images.Fetcher
	illustrationInterval time.Duration
}

func New(store *storage.ProjectStore, generator *generation.Service, fetcher *images.Fetcher, illustrationInterval time.Duration) *Handler {
	return &Handler{
		store:                store,
		generator:            generator,
		fetcher:              fetcher,
		illustrationInterval: illustrationInterval,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}

// fail reports err for the named action with a status derived from its kind
func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	code := statusFor(err)
	message := fmt.Sprintf("Failed to %s: %v", action, err)
	if errors.Is(err, config.ErrMissingCredential) {
		message = fmt.Sprintf("Failed to %s: check your API credential", action)
	}
	h.writeError(w, message, code)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, models.ErrPageIndex):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, images.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidValue), errors.Is(err, images.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, generation.ErrGeneration),
		errors.Is(err, generation.ErrImageGeneration),
		errors.Is(err, generation.ErrRefinement):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, id string) (storage.Session, bool) {
	session, err := h.store.Get(id)
	if err != nil {
		h.writeError(w, "Project not found", http.StatusNotFound)
		return storage.Session{}, false
	}
	return session, true
}

// pageIndex reads the 0-based {index} path value
func (h *Handler) pageIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		h.writeError(w, "Invalid page index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

// update applies fn to the stored project and writes the result
func (h *Handler) update(w http.ResponseWriter, r *http.Request, action string, fn func(storage.Session) (storage.Session, error)) {
	session, err := h.store.Update(r.PathValue("id"), fn)
	if err != nil {
		h.fail(w, action, err)
		return
	}
	h.writeJSON(w, session.Project)
}
