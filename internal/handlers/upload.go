package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/storage"
)

func (h *Handler) HandleUploadPageImage(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pageIndex(w, r)
	if !ok {
		return
	}
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	h.update(w, r, "store page image", func(s storage.Session) (storage.Session, error) {
		p, err := s.Project.ApplyPage(index, models.SetPageImage(img))
		if err != nil {
			return s, err
		}
		s.Project = p
		return s, nil
	})
}

func (h *Handler) HandleUploadCoverImage(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	h.update(w, r, "store cover image", func(s storage.Session) (storage.Session, error) {
		p, err := s.Project.Apply(models.SetCoverImage(img))
		if err != nil {
			return s, err
		}
		s.Project = p
		return s, nil
	})
}

// readUpload accepts either a multipart file ("file" or "files") or a JSON
// body {"image_url": "..."}
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (models.Image, bool) {
	if _, err := h.store.Get(r.PathValue("id")); err != nil {
		h.fail(w, "upload image", err)
		return "", false
	}

	var (
		img models.Image
		err error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		img, err = h.handleURLUpload(w, r)
	} else {
		img, err = h.handleFileUpload(w, r)
	}
	if err != nil {
		h.fail(w, "upload image", err)
		return "", false
	}
	return img, true
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request) (models.Image, error) {
	var request struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&request); err != nil {
		return "", errors.Join(models.ErrInvalidValue, err)
	}
	if request.ImageURL == "" {
		return "", errors.Join(models.ErrInvalidValue, errors.New("image_url is required"))
	}
	return h.imageFromURL(context.WithoutCancel(r.Context()), request.ImageURL)
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) (models.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, images.MaxSize+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", images.ErrTooLarge
		}
		return "", errors.Join(models.ErrInvalidValue, err)
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			return "", errors.Join(models.ErrInvalidValue, err)
		}
	}
	defer file.Close()

	data, err := images.ReadLimited(file)
	if err != nil {
		return "", err
	}
	return h.processImage(data, header.Filename)
}
