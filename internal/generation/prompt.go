package generation

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/booklet/internal/models"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
)

const structureSystemPrompt = `You are an expert instructional designer who writes illustrated step-by-step booklets.

Every booklet you write follows a logical arc: the first page introduces the goal and what is needed,
the middle pages walk through the process one step at a time, and the last page describes the finished
outcome and how to check it.

For every page you write a short title, the body text, a precise illustration prompt describing what the
picture must show, a layout for the picture, and a one-sentence mascot tip with practical advice.

You also write one "visual identity" sentence that fixes the look of every illustration in the booklet
(line weight, palette, perspective, level of detail) so that separately generated images stay consistent,
and a prompt for the cover illustration.

Respond with JSON only.`

// structureSchema is the response shape the text service must produce
func structureSchema() *providers.Schema {
	layouts := make([]string, len(models.AllLayouts))
	for i, l := range models.AllLayouts {
		layouts[i] = string(l)
	}

	str := func(desc string) *providers.Schema {
		return &providers.Schema{Type: providers.TypeString, Description: desc}
	}

	return &providers.Schema{
		Type:     providers.TypeObject,
		Required: []string{"title", "subtitle", "visualIdentity", "coverImagePrompt", "pages"},
		Properties: map[string]*providers.Schema{
			"title":            str("Booklet title"),
			"subtitle":         str("One-line subtitle"),
			"visualIdentity":   str("One sentence fixing the look of every illustration"),
			"coverImagePrompt": str("Prompt for the cover illustration"),
			"pages": {
				Type: providers.TypeArray,
				Items: &providers.Schema{
					Type:     providers.TypeObject,
					Required: []string{"title", "content", "imagePrompt", "layout", "mascotTip"},
					Properties: map[string]*providers.Schema{
						"title":       str("Page title"),
						"content":     str("Body text of the page"),
						"imagePrompt": str("What the illustration must show"),
						"layout":      {Type: providers.TypeString, Enum: layouts},
						"mascotTip":   str("Short practical tip"),
					},
				},
			},
		},
	}
}

func (s *Service) structurePrompt(req Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write a booklet with exactly %d pages.\n\n", req.PageCount)
	if req.Topic != "" {
		fmt.Fprintf(&sb, "TOPIC: %s\n", req.Topic)
	}
	if g, ok := s.catalog.Genre(req.Genre); ok {
		fmt.Fprintf(&sb, "GENRE: %s. %s\n", g.Label, g.Guidance)
	}
	if st, ok := s.catalog.Style(req.ImageStyle); ok {
		fmt.Fprintf(&sb, "ILLUSTRATION STYLE: %s\n", st.Description)
	}
	if req.Context != "" {
		fmt.Fprintf(&sb, "\nREFERENCE MATERIAL (base the content on this):\n%s\n", req.Context)
	}
	sb.WriteString("\nPage 1 must be introductory and the last page must describe the finished outcome.")

	return sb.String()
}

const refineSystemPrompt = `You are an editor for illustrated instruction booklets. Rewrite the text you are given
according to the instruction. Keep the meaning and any safety information. Respond with the rewritten text only,
without quotes, headings or commentary.`

func refinePrompt(currentText, instruction string) string {
	return fmt.Sprintf("INSTRUCTION: %s\n\nTEXT:\n%s", instruction, currentText)
}

const imageRequirements = "Technical requirements: clean line art, clear indicative arrows and circles to call out important parts, " +
	"neutral white background, no text or lettering in the image, high resolution."

// composeImagePrompt layers the request in fixed precedence: visual identity,
// page context, the specific prompt, then technical requirements
func composeImagePrompt(req ImageRequest, style string) string {
	var sb strings.Builder

	sb.WriteString("VISUAL IDENTITY (keep identical across every illustration of this booklet): ")
	sb.WriteString(strings.TrimSpace(req.VisualIdentity))
	if style != "" {
		sb.WriteString(" Style: ")
		sb.WriteString(style)
		sb.WriteString(".")
	}
	sb.WriteString("\n\nPAGE CONTEXT (what the illustration must depict): ")
	sb.WriteString(strings.TrimSpace(req.PageContext))
	sb.WriteString("\n\nILLUSTRATION PROMPT (how to depict it): ")
	sb.WriteString(strings.TrimSpace(req.Prompt))
	sb.WriteString("\n\n")
	sb.WriteString(imageRequirements)

	return sb.String()
}

// stripCodeFence removes a surrounding markdown code block, which some
// backends add even in JSON mode
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
