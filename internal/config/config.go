package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredential is returned before any external call when the selected
// provider has no credential configured
var ErrMissingCredential = errors.New("missing API credential")

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds every setting the server and CLI read at startup
type Config struct {
	TextProvider         string        `mapstructure:"text_provider"`
	TextModel            string        `mapstructure:"text_model"`
	ImageModel           string        `mapstructure:"image_model"`
	Temperature          float64       `mapstructure:"temperature"`
	GeminiAPIKey         string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey         string        `mapstructure:"openai_api_key"`
	OllamaURL            string        `mapstructure:"ollama_url"`
	Port                 string        `mapstructure:"port"`
	StoreTTL             time.Duration `mapstructure:"store_ttl"`
	IllustrationInterval time.Duration `mapstructure:"illustration_interval"`
	LogFile              string        `mapstructure:"log_file"`
	LogLevel             string        `mapstructure:"log_level"`
}

// SetDefaults registers default values and environment bindings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("text_provider", ProviderGemini)
	v.SetDefault("text_model", "")
	v.SetDefault("image_model", "gemini-2.5-flash-image")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("port", "8888")
	v.SetDefault("store_ttl", 24*time.Hour)
	v.SetDefault("illustration_interval", 2*time.Second)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("BOOKLET")
	v.AutomaticEnv()

	// Credentials keep their conventional names
	_ = v.BindEnv("gemini_api_key", "BOOKLET_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("openai_api_key", "BOOKLET_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("ollama_url", "BOOKLET_OLLAMA_URL", "OLLAMA_URL", "OLLAMA_HOST")
}

// ReadFile points v at cfgFile, or searches ./booklet.yaml and
// ~/.config/booklet/config.yaml. A missing file is not an error.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("booklet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "booklet"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	switch cfg.TextProvider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", cfg.TextProvider)
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel(cfg.TextProvider)
	}
	return &cfg, nil
}

// DefaultTextModel returns the model used when none is configured
func DefaultTextModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderOllama:
		return "mistral-small3.2:24b"
	default:
		return "gemini-2.5-flash"
	}
}

// RequireCredential fails with ErrMissingCredential when provider cannot be called
func (c *Config) RequireCredential(provider string) error {
	switch provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingCredential)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingCredential)
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("%w: OLLAMA_URL is not set", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unsupported provider: %s", provider)
	}
	return nil
}
