package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a text provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// GenerateText sends one prompt to Gemini and returns the concatenated text parts
func (g *Gemini) GenerateText(ctx context.Context, cfg providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", config.ErrMissingCredential)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	if cfg.SystemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(cfg.SystemInstruction))
	}
	if cfg.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(cfg.Schema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(cfg.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func toGenaiSchema(s *providers.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t providers.Type) genai.Type {
	switch t {
	case providers.TypeObject:
		return genai.TypeObject
	case providers.TypeArray:
		return genai.TypeArray
	case providers.TypeInteger:
		return genai.TypeInteger
	case providers.TypeNumber:
		return genai.TypeNumber
	case providers.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
