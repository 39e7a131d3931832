package cmd

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/gemini"
	"github.com/lehigh-university-libraries/booklet/internal/generation"
	"github.com/lehigh-university-libraries/booklet/internal/logging"
	"github.com/lehigh-university-libraries/booklet/internal/ollama"
	"github.com/lehigh-university-libraries/booklet/internal/openai"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
)

// app carries settings shared by every subcommand
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "booklet",
		Short: "Generate illustrated step-by-step booklets with LLMs",
		Long: `Booklet turns a topic into a paginated, illustrated how-to guide.

Text is generated by Gemini, OpenAI or Ollama and illustrations by a Gemini
image model. Projects can be edited through the HTTP API and exported to PDF,
Word or PowerPoint.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.load()
		},
	}
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ./booklet.yaml or ~/.config/booklet/config.yaml)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newIllustrateCmd(a))
	cmd.AddCommand(newRefineCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newBatchCmd(a))

	return cmd
}

func (a *app) load() error {
	config.SetDefaults(a.v)
	used, err := config.ReadFile(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFile)
	if used != "" {
		slog.Debug("Loaded config file", "path", used)
	}
	a.cfg = cfg
	return nil
}

// generator wires the configured backends. Credentials are checked by each
// backend on first use so the server can start without them.
func (a *app) generator() (*generation.Service, error) {
	catalog, err := generation.LoadCatalog()
	if err != nil {
		return nil, err
	}

	var text providers.Provider
	switch a.cfg.TextProvider {
	case config.ProviderGemini:
		text = gemini.New(a.cfg.GeminiAPIKey)
	case config.ProviderOpenAI:
		text = openai.New(a.cfg.OpenAIAPIKey)
	case config.ProviderOllama:
		text = ollama.New(a.cfg.OllamaURL)
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", a.cfg.TextProvider)
	}

	slog.Debug("Using text provider", "provider", a.cfg.TextProvider, "model", a.cfg.TextModel, "image_model", a.cfg.ImageModel)
	return generation.NewService(text, gemini.NewImageGenerator(a.cfg.GeminiAPIKey), catalog, generation.Options{
		TextModel:   a.cfg.TextModel,
		ImageModel:  a.cfg.ImageModel,
		Temperature: a.cfg.Temperature,
	}), nil
}
