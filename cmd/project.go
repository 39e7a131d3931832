package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func readProject(path string) (models.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to open project: %w", err)
	}
	defer f.Close()

	p, err := models.Load(f)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return p, nil
}

func writeProject(path string, p models.Project) error {
	var buf bytes.Buffer
	if err := p.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// pageIndex converts a 1-based --page flag to a page index
func pageIndex(p models.Project, page int) (int, error) {
	if page < 1 || page > len(p.Pages) {
		return 0, fmt.Errorf("%w: page %d (project has %d pages)", models.ErrPageIndex, page, len(p.Pages))
	}
	return page - 1, nil
}
