package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booklet/internal/generation"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		req         generation.Request
		genre       string
		style       string
		contextFile string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a booklet project from a topic",
		Long: `Generates the title, pages, layouts and image prompts for a new booklet
and writes the project as JSON. Illustrations are added with "booklet illustrate".`,
		Example: `  booklet generate --topic "Assembling a bicycle wheel" --pages 6 -o wheel.json

  # Use notes as the source material
  booklet generate --context-file notes.md --genre educational --style watercolor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Genre, err = models.ParseGenre(genre); err != nil {
				return err
			}
			if req.ImageStyle, err = models.ParseImageStyle(style); err != nil {
				return err
			}
			if contextFile != "" {
				data, err := os.ReadFile(contextFile)
				if err != nil {
					return fmt.Errorf("failed to read context file: %w", err)
				}
				req.Context = string(data)
			}
			if err := req.Validate(); err != nil {
				return err
			}

			generator, err := a.generator()
			if err != nil {
				return err
			}
			p, err := generator.GenerateStructure(cmd.Context(), req)
			if err != nil {
				return err
			}

			if output == "" {
				output = p.Filename("json")
			}
			if err := writeProject(output, p); err != nil {
				return err
			}
			slog.Info("Project written", "path", output, "title", p.Title, "pages", len(p.Pages))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Topic, "topic", "", "What the booklet explains")
	cmd.Flags().StringVar(&req.Context, "context", "", "Source material to build the booklet from")
	cmd.Flags().StringVar(&contextFile, "context-file", "", "Read source material from a file")
	cmd.Flags().StringVar(&genre, "genre", string(models.GenreTechnicalManual), "Booklet genre")
	cmd.Flags().StringVar(&style, "style", string(models.StyleLineArt), "Illustration style")
	cmd.Flags().IntVar(&req.PageCount, "pages", 6, "Number of pages")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default derived from the title)")

	return cmd
}
