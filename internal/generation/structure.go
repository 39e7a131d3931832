package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/metrics"
	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
)

const (
	MinPages = 2
	MaxPages = 100
)

// Request is what the wizard collects before generating a booklet
type Request struct {
	Topic      string            `json:"topic"`
	Context    string            `json:"context"`
	Genre      models.Genre      `json:"genre"`
	ImageStyle models.ImageStyle `json:"image_style"`
	PageCount  int               `json:"page_count"`
}

// Validate is the caller-side check run before GenerateStructure
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" && strings.TrimSpace(r.Context) == "" {
		return fmt.Errorf("%w: a topic or reference context is required", models.ErrInvalidValue)
	}
	if !r.Genre.Valid() {
		return fmt.Errorf("%w: unknown genre %q", models.ErrInvalidValue, r.Genre)
	}
	if !r.ImageStyle.Valid() {
		return fmt.Errorf("%w: unknown image style %q", models.ErrInvalidValue, r.ImageStyle)
	}
	if r.PageCount < MinPages || r.PageCount > MaxPages {
		return fmt.Errorf("%w: page count must be between %d and %d, got %d", models.ErrInvalidValue, MinPages, MaxPages, r.PageCount)
	}
	return nil
}

type structureResponse struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	VisualIdentity   string `json:"visualIdentity"`
	CoverImagePrompt string `json:"coverImagePrompt"`
	Pages            []struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		ImagePrompt string `json:"imagePrompt"`
		Layout      string `json:"layout"`
		MascotTip   string `json:"mascotTip"`
	} `json:"pages"`
}

// GenerateStructure asks the text backend for a complete booklet and returns
// it as a new project. Either the whole project is returned or an error.
func (s *Service) GenerateStructure(ctx context.Context, req Request) (models.Project, error) {
	start := time.Now()
	slog.Info("Generating booklet structure", "topic", req.Topic, "genre", req.Genre, "style", req.ImageStyle, "pages", req.PageCount)

	raw, err := s.text.GenerateText(ctx, providers.Config{
		Model:             s.opts.TextModel,
		Temperature:       s.opts.Temperature,
		SystemInstruction: structureSystemPrompt,
		Prompt:            s.structurePrompt(req),
		Schema:            structureSchema(),
	})
	if err != nil {
		metrics.ObserveAICall("structure", s.opts.TextModel, start, err)
		return models.Project{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	var resp structureResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		metrics.ObserveAICall("structure", s.opts.TextModel, start, err)
		return models.Project{}, fmt.Errorf("%w: unparseable response: %w", ErrGeneration, err)
	}

	if req.PageCount > 0 && len(resp.Pages) > req.PageCount {
		slog.Warn("Backend returned more pages than requested, truncating", "requested", req.PageCount, "returned", len(resp.Pages))
		resp.Pages = resp.Pages[:req.PageCount]
	}
	if len(resp.Pages) < req.PageCount || len(resp.Pages) == 0 {
		err := fmt.Errorf("%w: requested %d pages, received %d", ErrGeneration, req.PageCount, len(resp.Pages))
		metrics.ObserveAICall("structure", s.opts.TextModel, start, err)
		return models.Project{}, err
	}
	metrics.ObserveAICall("structure", s.opts.TextModel, start, nil)

	project := models.NewProject(s.draft(req, resp), s.now())
	slog.Info("Generated booklet structure", "id", project.ID, "title", project.Title, "pages", project.TotalPages, "duration", time.Since(start))
	return project, nil
}

// draft fills every field the backend left empty with a value derived from the request
func (s *Service) draft(req Request, resp structureResponse) models.Draft {
	subject := subjectOf(req)

	d := models.Draft{
		Title:            strings.TrimSpace(resp.Title),
		Subtitle:         strings.TrimSpace(resp.Subtitle),
		Topic:            strings.TrimSpace(req.Topic),
		Genre:            req.Genre,
		ImageStyle:       req.ImageStyle,
		VisualIdentity:   strings.TrimSpace(resp.VisualIdentity),
		CoverImagePrompt: strings.TrimSpace(resp.CoverImagePrompt),
		Pages:            make([]models.DraftPage, 0, len(resp.Pages)),
	}
	if g, ok := s.catalog.Genre(req.Genre); ok {
		d.PrimaryColor = g.PrimaryColor
		d.SecondaryColor = g.SecondaryColor
	}

	if d.Title == "" {
		d.Title = subject
	}
	if d.Subtitle == "" {
		d.Subtitle = "A step-by-step guide to " + strings.ToLower(subject)
	}
	if d.VisualIdentity == "" {
		style := "clean line art"
		if st, ok := s.catalog.Style(req.ImageStyle); ok {
			style = st.Description
		}
		d.VisualIdentity = fmt.Sprintf("Consistent %s illustrations of %s with the same palette, line weight and perspective on every page.", style, strings.ToLower(subject))
	}
	if d.CoverImagePrompt == "" {
		d.CoverImagePrompt = "A cover illustration showing " + strings.ToLower(subject)
	}

	for i, p := range resp.Pages {
		dp := models.DraftPage{
			Title:       strings.TrimSpace(p.Title),
			Content:     strings.TrimSpace(p.Content),
			ImagePrompt: strings.TrimSpace(p.ImagePrompt),
			Layout:      models.Layout(p.Layout),
			MascotTip:   strings.TrimSpace(p.MascotTip),
		}
		if dp.Title == "" {
			dp.Title = fmt.Sprintf("Step %d", i+1)
		}
		if dp.ImagePrompt == "" {
			dp.ImagePrompt = fmt.Sprintf("%s: %s", subject, dp.Title)
		}
		d.Pages = append(d.Pages, dp)
	}

	return d
}

// subjectOf names the booklet's subject, preferring the topic over the first
// line of the reference context
func subjectOf(req Request) string {
	if t := strings.TrimSpace(req.Topic); t != "" {
		return t
	}
	line, _, _ := strings.Cut(strings.TrimSpace(req.Context), "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > 60 {
		line = strings.TrimSpace(string(r[:60]))
	}
	if line == "" {
		return "Untitled booklet"
	}
	return line
}
