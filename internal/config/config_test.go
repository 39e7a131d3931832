package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.TextProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.TextModel)
	assert.Equal(t, "8888", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.StoreTTL)
	assert.ErrorIs(t, cfg.RequireCredential(ProviderGemini), ErrMissingCredential)
}

func TestLoadFromEnvAndFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	dir := t.TempDir()
	path := filepath.Join(dir, "booklet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text_provider: openai\nport: \"3000\"\nstore_ttl: 90m\n"), 0644))

	v := viper.New()
	SetDefaults(v)
	used, err := ReadFile(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.TextProvider)
	assert.Equal(t, "gpt-4o", cfg.TextModel)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.StoreTTL)
	assert.Equal(t, "g-key", cfg.GeminiAPIKey)
	assert.NoError(t, cfg.RequireCredential(ProviderGemini))
}

func TestReadFileMissingExplicitFile(t *testing.T) {
	v := viper.New()
	_, err := ReadFile(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("text_provider", "carrier-pigeon")
	_, err := Load(v)
	assert.Error(t, err)
}
