package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/storage"
)

// maxImportBody bounds imported project files, which carry their images inline
const maxImportBody = 512 << 20

type projectSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Topic      string    `json:"topic"`
	TotalPages int       `json:"totalPages"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	sessions := h.store.List()
	list := make([]projectSummary, 0, len(sessions))
	for _, s := range sessions {
		list = append(list, projectSummary{
			ID:         s.Project.ID,
			Title:      s.Project.Title,
			Topic:      s.Project.Topic,
			TotalPages: s.Project.TotalPages,
			CreatedAt:  s.Project.CreatedAt,
		})
	}
	h.writeJSON(w, list)
}

func (h *Handler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	h.writeJSON(w, session.Project)
}

// HandleUpdateProject applies a set of field edits, e.g. {"title": "...", "primaryColor": "#112233"}.
// Either every edit applies or none does.
func (h *Handler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if !h.decodeJSON(w, r, &fields) {
		return
	}
	edits := make([]models.ProjectEdit, 0, len(fields))
	for field, raw := range fields {
		e, err := models.ParseProjectEdit(field, raw)
		if err != nil {
			h.fail(w, "update project", err)
			return
		}
		edits = append(edits, e)
	}

	h.update(w, r, "update project", func(s storage.Session) (storage.Session, error) {
		p := s.Project
		for _, e := range edits {
			var err error
			if p, err = p.Apply(e); err != nil {
				return s, err
			}
		}
		s.Project = p
		return s, nil
	})
}

func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	release, err := h.store.Acquire(id)
	if err != nil {
		h.fail(w, "delete project", err)
		return
	}
	defer release()

	if err := h.store.Delete(id); err != nil {
		h.fail(w, "delete project", err)
		return
	}
	slog.Info("Project deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleImport adopts a project file previously produced by the save endpoint
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	p, err := models.Load(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		h.writeError(w, "Invalid project file: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.store.Put(storage.Session{Project: p})
	slog.Info("Project imported", "id", p.ID, "title", p.Title, "pages", len(p.Pages))
	h.writeJSONStatus(w, http.StatusCreated, p)
}

// HandleSave returns the project as a downloadable JSON file
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := session.Project.Save(&buf); err != nil {
		h.fail(w, "save project", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", session.Project.Filename("json")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write project file", "err", err)
	}
}

func (h *Handler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	h.writeJSON(w, session.View.Clamp(session.Project))
}

func (h *Handler) HandlePutView(w http.ResponseWriter, r *http.Request) {
	var view models.ViewState
	if !h.decodeJSON(w, r, &view) {
		return
	}
	session, err := h.store.Update(r.PathValue("id"), func(s storage.Session) (storage.Session, error) {
		s.View = view
		return s, nil
	})
	if err != nil {
		h.fail(w, "update view", err)
		return
	}
	h.writeJSON(w, session.View)
}
