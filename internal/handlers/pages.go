package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/storage"
)

func (h *Handler) HandleAddPage(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Update(r.PathValue("id"), func(s storage.Session) (storage.Session, error) {
		s.Project = s.Project.AddPage()
		s.View.ActivePage = len(s.Project.Pages) - 1
		return s, nil
	})
	if err != nil {
		h.fail(w, "add page", err)
		return
	}
	h.writeJSONStatus(w, http.StatusCreated, session.Project)
}

// HandleUpdatePage applies field edits to one page, e.g. {"content": "...", "layout": "image-left"}
func (h *Handler) HandleUpdatePage(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	var fields map[string]json.RawMessage
	if !h.decodeJSON(w, r, &fields) {
		return
	}
	edits := make([]models.PageEdit, 0, len(fields))
	for field, raw := range fields {
		e, err := models.ParsePageEdit(field, raw)
		if err != nil {
			h.fail(w, "update page", err)
			return
		}
		edits = append(edits, e)
	}

	h.update(w, r, "update page", func(s storage.Session) (storage.Session, error) {
		p := s.Project
		for _, e := range edits {
			var err error
			if p, err = p.ApplyPage(index, e); err != nil {
				return s, err
			}
		}
		s.Project = p
		return s, nil
	})
}

func (h *Handler) HandleRemovePage(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	h.update(w, r, "remove page", func(s storage.Session) (storage.Session, error) {
		p, err := s.Project.RemovePage(index)
		if err != nil {
			return s, err
		}
		s.Project = p
		return s, nil
	})
}

func (h *Handler) HandleMovePage(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		To int `json:"to"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}
	h.update(w, r, "move page", func(s storage.Session) (storage.Session, error) {
		p, err := s.Project.MovePage(index, req.To)
		if err != nil {
			return s, err
		}
		s.Project = p
		s.View.ActivePage = req.To
		return s, nil
	})
}

// HandleRefine rewrites one text field of a page, content by default
func (h *Handler) HandleRefine(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Instruction string `json:"instruction"`
		Field       string `json:"field"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Instruction) == "" {
		h.writeError(w, "instruction is required", http.StatusBadRequest)
		return
	}

	current := func(pg models.Page) string { return pg.Content }
	edit := func(s string) models.PageEdit { return models.SetPageContent(s) }
	switch req.Field {
	case "", "content":
	case "title":
		current = func(pg models.Page) string { return pg.Title }
		edit = func(s string) models.PageEdit { return models.SetPageTitle(s) }
	case "mascotTip":
		current = func(pg models.Page) string { return pg.MascotTip }
		edit = func(s string) models.PageEdit { return models.SetPageMascotTip(s) }
	default:
		h.writeError(w, "field must be content, title or mascotTip", http.StatusBadRequest)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.update(w, r, "refine text", func(s storage.Session) (storage.Session, error) {
		page, err := s.Project.Page(index)
		if err != nil {
			return s, err
		}
		text, err := h.generator.Refine(ctx, current(page), req.Instruction)
		if err != nil {
			return s, err
		}
		p, err := s.Project.ApplyPage(index, edit(text))
		if err != nil {
			return s, err
		}
		s.Project = p
		return s, nil
	})
}
