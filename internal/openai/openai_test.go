package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTextSendsSchemaAndSystemPrompt(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	out, err := New("sk-test").WithBaseURL(srv.URL).GenerateText(context.Background(), providers.Config{
		Model:             "gpt-4o",
		SystemInstruction: "be terse",
		Prompt:            "make a booklet",
		Schema:            &providers.Schema{Type: providers.TypeObject},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"ok"}`, out)

	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	format := got["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestGenerateTextErrors(t *testing.T) {
	_, err := New("").GenerateText(context.Background(), providers.Config{})
	assert.ErrorIs(t, err, config.ErrMissingCredential)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	_, err = New("sk-test").WithBaseURL(srv.URL).GenerateText(context.Background(), providers.Config{})
	assert.ErrorContains(t, err, "429")
}
