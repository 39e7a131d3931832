package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

func newIllustrateCmd(a *app) *cobra.Command {
	var (
		page  int
		cover bool
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "illustrate <project.json>",
		Short: "Generate illustrations for a project",
		Long: `Generates one page illustration, the cover, or every missing page
illustration, and writes the project back in place. With --all, pages
finished before a failure are kept.`,
		Example: `  booklet illustrate wheel.json --page 2
  booklet illustrate wheel.json --cover
  booklet illustrate wheel.json --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			p, err := readProject(path)
			if err != nil {
				return err
			}
			generator, err := a.generator()
			if err != nil {
				return err
			}

			var runErr error
			switch {
			case cover:
				p, runErr = generator.IllustrateCover(cmd.Context(), p)
			case all:
				p, runErr = generator.IllustrateAll(cmd.Context(), p, a.cfg.IllustrationInterval)
			default:
				index, err := pageIndex(p, page)
				if err != nil {
					return err
				}
				p, runErr = generator.IllustratePage(cmd.Context(), p, index)
			}

			// IllustrateAll returns its progress along with the error
			if runErr != nil && !all {
				return runErr
			}
			if err := writeProject(path, p); err != nil {
				return errors.Join(runErr, err)
			}
			slog.Info("Project updated", "path", path)
			return runErr
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number to illustrate (1-based)")
	cmd.Flags().BoolVar(&cover, "cover", false, "Illustrate the cover")
	cmd.Flags().BoolVar(&all, "all", false, "Illustrate every page without an image")
	cmd.MarkFlagsMutuallyExclusive("page", "cover", "all")
	cmd.MarkFlagsOneRequired("page", "cover", "all")

	return cmd
}
