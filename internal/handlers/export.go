package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/booklet/internal/export"
)

// HandleExport renders the project and returns it as a download. Nothing is
// sent unless rendering finished.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		h.fail(w, "export", err)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	artifact, err := export.Export(r.Context(), format, session.Project)
	if err != nil {
		h.fail(w, "export "+string(format), err)
		return
	}

	w.Header().Set("Content-Type", artifact.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if _, err := w.Write(artifact.Data); err != nil {
		slog.Error("Unable to write export", "format", format, "err", err)
	}
}
