package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/metrics"
	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
)

// ImageRequest carries the three layers of an illustration prompt
type ImageRequest struct {
	Prompt         string
	PageContext    string
	VisualIdentity string
	Style          models.ImageStyle
}

// GenerateImage performs one image call and returns the first inline image.
// Every call reaches the backend; nothing is cached.
func (s *Service) GenerateImage(ctx context.Context, req ImageRequest) (models.Image, error) {
	style := ""
	if st, ok := s.catalog.Style(req.Style); ok {
		style = st.Description
	}

	start := time.Now()
	img, err := s.images.GenerateImage(ctx, providers.ImageConfig{
		Model:  s.opts.ImageModel,
		Prompt: composeImagePrompt(req, style),
	})
	if err == nil && (img == nil || len(img.Data) == 0) {
		err = errors.New("response contained no image")
	}
	if err == nil && img.MimeType != "" && !strings.HasPrefix(img.MimeType, "image/") {
		err = fmt.Errorf("response has non-image type %q", img.MimeType)
	}
	if err == nil {
		_, _, err = images.Dimensions(img.Data)
	}
	metrics.ObserveAICall("image", s.opts.ImageModel, start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageGeneration, err)
	}

	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	slog.Debug("Generated image", "model", s.opts.ImageModel, "mime_type", mimeType, "bytes", len(img.Data), "duration", time.Since(start))
	return models.NewImage(img.Data, mimeType), nil
}

// IllustratePage generates the image for the page at index and returns the
// updated project. The input project is not modified.
func (s *Service) IllustratePage(ctx context.Context, p models.Project, index int) (models.Project, error) {
	page, err := p.Page(index)
	if err != nil {
		return p, err
	}

	img, err := s.GenerateImage(ctx, ImageRequest{
		Prompt:         page.ImagePrompt,
		PageContext:    pageContext(page),
		VisualIdentity: p.VisualIdentity,
		Style:          p.ImageStyle,
	})
	if err != nil {
		return p, err
	}
	return p.ApplyPage(index, models.SetPageImage(img))
}

// IllustrateCover generates the cover image and returns the updated project
func (s *Service) IllustrateCover(ctx context.Context, p models.Project) (models.Project, error) {
	prompt := p.CoverImagePrompt
	if prompt == "" {
		prompt = "A cover illustration for " + p.Title
	}

	img, err := s.GenerateImage(ctx, ImageRequest{
		Prompt:         prompt,
		PageContext:    strings.TrimSpace(p.Title + ". " + p.Subtitle),
		VisualIdentity: p.VisualIdentity,
		Style:          p.ImageStyle,
	})
	if err != nil {
		return p, err
	}
	return p.Apply(models.SetCoverImage(img))
}

// IllustrateAll illustrates every page that has no image yet, one call at a
// time, waiting at least interval between calls. It stops at the first
// failure and returns the project as it stood before that failure.
func (s *Service) IllustrateAll(ctx context.Context, p models.Project, interval time.Duration) (models.Project, error) {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	for i, page := range p.Pages {
		if !page.GeneratedImage.IsZero() {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return p, err
		}

		next, err := s.IllustratePage(ctx, p, i)
		if err != nil {
			slog.Error("Illustration stopped", "project", p.ID, "page", i+1, "err", err)
			return p, fmt.Errorf("page %d: %w", i+1, err)
		}
		p = next
		slog.Info("Illustrated page", "project", p.ID, "page", i+1, "of", len(p.Pages))
	}
	return p, nil
}

func pageContext(page models.Page) string {
	if page.Content == "" {
		return page.Title
	}
	return page.Title + ". " + page.Content
}
