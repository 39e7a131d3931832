package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

// processImage validates uploaded bytes and returns them as an inline image
func (h *Handler) processImage(data []byte, source string) (models.Image, error) {
	n, err := images.Normalize(data)
	if err != nil {
		return "", err
	}
	slog.Info("Image accepted", "source", source, "mime_type", n.MIMEType, "width", n.Width, "height", n.Height, "bytes", len(n.Data))
	return models.NewImage(n.Data, n.MIMEType), nil
}

func (h *Handler) imageFromURL(ctx context.Context, imageURL string) (models.Image, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: image_url must be an absolute http(s) URL", models.ErrInvalidValue)
	}
	data, err := h.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}
	return h.processImage(data, imageURL)
}
