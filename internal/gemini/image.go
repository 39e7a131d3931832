package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
	imagegenai "google.golang.org/genai"
)

// ErrNoImage is returned when a response carries no inline image part
var ErrNoImage = errors.New("no image returned from Gemini")

// ImageGenerator generates illustrations with a Gemini image model.
// It uses google.golang.org/genai because image output needs response modalities.
type ImageGenerator struct {
	apiKey string
}

func NewImageGenerator(apiKey string) *ImageGenerator {
	return &ImageGenerator{apiKey: apiKey}
}

// GenerateImage requests one image and returns the first inline image part
func (g *ImageGenerator) GenerateImage(ctx context.Context, cfg providers.ImageConfig) (*providers.Image, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", config.ErrMissingCredential)
	}

	client, err := imagegenai.NewClient(ctx, &imagegenai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: imagegenai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, cfg.Model, imagegenai.Text(cfg.Prompt), &imagegenai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	img := firstInlineImage(resp)
	if img == nil {
		return nil, ErrNoImage
	}
	slog.Debug("Gemini returned image", "mime_type", img.MimeType, "bytes", len(img.Data))
	return img, nil
}

func firstInlineImage(resp *imagegenai.GenerateContentResponse) *providers.Image {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return &providers.Image{
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			}
		}
	}
	return nil
}
