package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/booklet/internal/generation"
	"github.com/lehigh-university-libraries/booklet/internal/storage"
)

// HandleGenerate creates a project from a topic. The backend call is not
// tied to the client connection and runs to completion once started.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, "generate booklet", err)
		return
	}

	p, err := h.generator.GenerateStructure(context.WithoutCancel(r.Context()), req)
	if err != nil {
		h.fail(w, "generate booklet", err)
		return
	}

	h.store.Put(storage.Session{Project: p})
	slog.Info("Project created", "id", p.ID, "title", p.Title)
	h.writeJSONStatus(w, http.StatusCreated, p)
}

func (h *Handler) HandleIllustratePage(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	h.update(w, r, "generate image", func(s storage.Session) (storage.Session, error) {
		p, err := h.generator.IllustratePage(ctx, s.Project, index)
		if err != nil {
			return s, err
		}
		s.Project = p
		return s, nil
	})
}

func (h *Handler) HandleIllustrateCover(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	h.update(w, r, "generate cover image", func(s storage.Session) (storage.Session, error) {
		p, err := h.generator.IllustrateCover(ctx, s.Project)
		if err != nil {
			return s, err
		}
		s.Project = p
		return s, nil
	})
}

// HandleIllustrateAll fills in every missing page illustration. Pages
// illustrated before a failure are kept.
func (h *Handler) HandleIllustrateAll(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	var runErr error
	session, err := h.store.Update(r.PathValue("id"), func(s storage.Session) (storage.Session, error) {
		s.Project, runErr = h.generator.IllustrateAll(ctx, s.Project, h.illustrationInterval)
		return s, nil
	})
	if err == nil {
		err = runErr
	}
	if err != nil {
		h.fail(w, "generate images", err)
		return
	}
	h.writeJSON(w, session.Project)
}
