package handlers

import (
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/booklet/internal/metrics"
)

// Routes registers the API on mux
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/catalog", h.HandleCatalog)

	mux.HandleFunc("POST /api/projects", h.HandleGenerate)
	mux.HandleFunc("POST /api/projects/import", h.HandleImport)
	mux.HandleFunc("GET /api/projects", h.HandleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", h.HandleGetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.HandleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.HandleDeleteProject)
	mux.HandleFunc("GET /api/projects/{id}/save", h.HandleSave)
	mux.HandleFunc("GET /api/projects/{id}/view", h.HandleGetView)
	mux.HandleFunc("PUT /api/projects/{id}/view", h.HandlePutView)

	mux.HandleFunc("POST /api/projects/{id}/pages", h.HandleAddPage)
	mux.HandleFunc("PATCH /api/projects/{id}/pages/{index}", h.HandleUpdatePage)
	mux.HandleFunc("DELETE /api/projects/{id}/pages/{index}", h.HandleRemovePage)
	mux.HandleFunc("POST /api/projects/{id}/pages/{index}/move", h.HandleMovePage)
	mux.HandleFunc("POST /api/projects/{id}/pages/{index}/refine", h.HandleRefine)

	mux.HandleFunc("POST /api/projects/{id}/pages/{index}/illustrate", h.HandleIllustratePage)
	mux.HandleFunc("POST /api/projects/{id}/pages/{index}/upload", h.HandleUploadPageImage)
	mux.HandleFunc("GET /api/projects/{id}/pages/{index}/image", h.HandlePageImage)
	mux.HandleFunc("POST /api/projects/{id}/cover/illustrate", h.HandleIllustrateCover)
	mux.HandleFunc("POST /api/projects/{id}/cover/upload", h.HandleUploadCoverImage)
	mux.HandleFunc("GET /api/projects/{id}/cover/image", h.HandleCoverImage)
	mux.HandleFunc("POST /api/projects/{id}/illustrate-all", h.HandleIllustrateAll)

	mux.HandleFunc("GET /api/projects/{id}/export/{format}", h.HandleExport)
}

// Handler returns the API with request metrics
func (h *Handler) Handler() http.Handler {
	mux := http.NewServeMux()
	h.Routes(mux)
	return metrics.Middleware(mux)
}
