package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booklet/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Render a project as PDF, Word or PowerPoint",
		Long: `Renders the project to a file. Nothing is written if rendering fails.

Formats:
  pdf   landscape A4 document
  doc   Word-compatible HTML document
  pptx  16:9 slide deck`,
		Example: `  booklet export wheel.json --format pdf
  booklet export wheel.json --format pptx -o slides/wheel.pptx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := readProject(args[0])
			if err != nil {
				return err
			}

			artifact, err := export.Export(cmd.Context(), f, p)
			if err != nil {
				return err
			}
			if output == "" {
				output = artifact.Filename
			}
			if err := os.WriteFile(output, artifact.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			slog.Info("Export written", "path", output, "format", f, "bytes", len(artifact.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPDF), "Output format: pdf, doc or pptx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default derived from the title)")

	return cmd
}
