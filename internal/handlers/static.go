package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.generator.Catalog())
}

func (h *Handler) HandlePageImage(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	page, err := session.Project.Page(index)
	if err != nil {
		h.fail(w, "load page", err)
		return
	}
	h.serveImage(w, page.GeneratedImage)
}

func (h *Handler) HandleCoverImage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	h.serveImage(w, session.Project.CoverImage)
}

// serveImage writes the decoded bytes of an inline image
func (h *Handler) serveImage(w http.ResponseWriter, img models.Image) {
	if img.IsZero() {
		h.writeError(w, "No image", http.StatusNotFound)
		return
	}
	data, mimeType, err := img.Decode()
	if err != nil {
		h.fail(w, "decode image", err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write image", "err", err)
	}
}
