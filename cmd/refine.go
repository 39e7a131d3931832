package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func newRefineCmd(a *app) *cobra.Command {
	var (
		page        int
		instruction string
		field       string
	)

	cmd := &cobra.Command{
		Use:   "refine <project.json>",
		Short: "Rewrite a page's text following an instruction",
		Example: `  booklet refine wheel.json --page 3 --instruction "simpler words"
  booklet refine wheel.json --page 3 --field mascotTip --instruction "make it funnier"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			p, err := readProject(path)
			if err != nil {
				return err
			}
			index, err := pageIndex(p, page)
			if err != nil {
				return err
			}
			pg, _ := p.Page(index)

			var current string
			var edit func(string) models.PageEdit
			switch field {
			case "content":
				current, edit = pg.Content, func(s string) models.PageEdit { return models.SetPageContent(s) }
			case "title":
				current, edit = pg.Title, func(s string) models.PageEdit { return models.SetPageTitle(s) }
			case "mascotTip":
				current, edit = pg.MascotTip, func(s string) models.PageEdit { return models.SetPageMascotTip(s) }
			default:
				return fmt.Errorf("%w: field must be content, title or mascotTip", models.ErrInvalidValue)
			}

			generator, err := a.generator()
			if err != nil {
				return err
			}
			text, err := generator.Refine(cmd.Context(), current, instruction)
			if err != nil {
				return err
			}
			if p, err = p.ApplyPage(index, edit(text)); err != nil {
				return err
			}
			if err := writeProject(path, p); err != nil {
				return err
			}
			slog.Info("Page refined", "path", path, "page", page, "field", field)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number to refine (1-based)")
	cmd.Flags().StringVar(&instruction, "instruction", "", "How to change the text")
	cmd.Flags().StringVar(&field, "field", "content", "Field to rewrite: content, title or mascotTip")
	_ = cmd.MarkFlagRequired("page")
	_ = cmd.MarkFlagRequired("instruction")

	return cmd
}
