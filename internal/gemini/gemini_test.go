package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	imagegenai "google.golang.org/genai"
)

func TestToGenaiSchema(t *testing.T) {
	in := &providers.Schema{
		Type:     providers.TypeObject,
		Required: []string{"title", "pages"},
		Properties: map[string]*providers.Schema{
			"title": {Type: providers.TypeString},
			"pages": {
				Type: providers.TypeArray,
				Items: &providers.Schema{
					Type: providers.TypeObject,
					Properties: map[string]*providers.Schema{
						"layout": {Type: providers.TypeString, Enum: []string{"image-top", "full-text"}},
					},
				},
			},
		},
	}

	out := toGenaiSchema(in)
	require.NotNil(t, out)
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"title", "pages"}, out.Required)
	assert.Equal(t, genai.TypeString, out.Properties["title"].Type)
	pages := out.Properties["pages"]
	assert.Equal(t, genai.TypeArray, pages.Type)
	assert.Equal(t, []string{"image-top", "full-text"}, pages.Items.Properties["layout"].Enum)
	assert.Nil(t, toGenaiSchema(nil))
}

func TestMissingKeyFailsBeforeCall(t *testing.T) {
	_, err := New("").GenerateText(context.Background(), providers.Config{Prompt: "hi"})
	assert.ErrorIs(t, err, config.ErrMissingCredential)

	_, err = NewImageGenerator("").GenerateImage(context.Background(), providers.ImageConfig{Prompt: "hi"})
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}

func TestFirstInlineImage(t *testing.T) {
	resp := &imagegenai.GenerateContentResponse{
		Candidates: []*imagegenai.Candidate{
			{Content: &imagegenai.Content{Parts: []*imagegenai.Part{
				{Text: "here you go"},
				{InlineData: &imagegenai.Blob{MIMEType: "image/png", Data: []byte{}}},
				{InlineData: &imagegenai.Blob{MIMEType: "image/png", Data: []byte{1, 2}}},
			}}},
		},
	}

	img := firstInlineImage(resp)
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, []byte{1, 2}, img.Data)

	assert.Nil(t, firstInlineImage(&imagegenai.GenerateContentResponse{}))
	assert.Nil(t, firstInlineImage(nil))
}
