package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booklet/internal/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		topics     string
		outDir     string
		limit      int
		illustrate bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate one booklet per row of a topics dataset",
		Long: `Reads topic rows from a Parquet or JSONL file and generates a project for
each, one at a time. Rows carry topic, context, genre, image_style and
page_count columns; only topic or context is required.

Each project is written to the output directory together with report.yaml
describing the run. A failed row is recorded and the run continues.`,
		Example: `  booklet batch --topics topics.parquet --out booklets/
  booklet batch --topics topics.jsonl --out booklets/ --limit 10 --illustrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := batch.NewLoader(topics).LoadSample(limit)
			if err != nil {
				return err
			}
			slog.Info("Loaded topics", "path", topics, "rows", len(records))

			generator, err := a.generator()
			if err != nil {
				return err
			}
			runner := &batch.Runner{
				Generator:  generator,
				OutDir:     outDir,
				Illustrate: illustrate,
				Interval:   a.cfg.IllustrationInterval,
			}
			report, err := runner.Run(cmd.Context(), topics, records)
			if report != nil {
				reportPath := filepath.Join(outDir, "report.yaml")
				if saveErr := report.SaveYAML(reportPath); saveErr != nil {
					slog.Error("Unable to save report", "err", saveErr)
				} else {
					slog.Info("Batch finished", "report", reportPath, "succeeded", report.Summary.Succeeded, "failed", report.Summary.Failed)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&topics, "topics", "", "Topics dataset (.parquet or .jsonl)")
	cmd.Flags().StringVar(&outDir, "out", "booklets", "Output directory")
	cmd.Flags().IntVar(&limit, "limit", 0, "Process at most this many rows (0 = all)")
	cmd.Flags().BoolVar(&illustrate, "illustrate", false, "Also generate page illustrations")
	_ = cmd.MarkFlagRequired("topics")

	return cmd
}
