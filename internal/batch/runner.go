package batch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/generation"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

// Runner generates one project per topic row and writes it to OutDir
type Runner struct {
	Generator *generation.Service
	OutDir    string
	// Illustrate also renders every page image after the structure
	Illustrate bool
	// Interval spaces image requests when Illustrate is set
	Interval time.Duration

	now func() time.Time
}

// Run processes records one at a time. A failing row is recorded in the
// report and does not stop the run; only a cancelled context or an unusable
// output directory does.
func (r *Runner) Run(ctx context.Context, source string, records []TopicRecord) (*Report, error) {
	if err := os.MkdirAll(r.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	now := r.now
	if now == nil {
		now = time.Now
	}

	report := &Report{
		Config: RunConfig{
			Source:     source,
			TextModel:  r.Generator.Options().TextModel,
			ImageModel: r.Generator.Options().ImageModel,
			Illustrate: r.Illustrate,
			Rows:       len(records),
			Timestamp:  now().UTC().Format(time.RFC3339),
		},
		Results: make([]Result, 0, len(records)),
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		start := now()
		result := r.runOne(ctx, i, record)
		result.DurationSeconds = now().Sub(start).Seconds()
		report.add(result)

		if result.Error != "" {
			slog.Warn("Topic failed", "row", i+1, "topic", result.Topic, "err", result.Error)
		} else {
			slog.Info("Topic generated", "row", i+1, "topic", result.Topic, "file", result.File, "pages", result.Pages)
		}
	}

	return report, nil
}

func (r *Runner) runOne(ctx context.Context, index int, record TopicRecord) Result {
	result := Result{Row: index + 1, Topic: record.Label()}

	req := record.Request()
	if err := req.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}

	p, err := r.Generator.GenerateStructure(ctx, req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.ProjectID = p.ID
	result.Title = p.Title
	result.Pages = len(p.Pages)

	if r.Illustrate {
		p, err = r.Generator.IllustrateAll(ctx, p, r.Interval)
		if err != nil {
			// the partially illustrated project is still written
			result.Error = err.Error()
		}
		result.Illustrated = countIllustrated(p)
	}

	file, err := r.write(index, p)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.File = file
	return result
}

func (r *Runner) write(index int, p models.Project) (string, error) {
	var buf bytes.Buffer
	if err := p.Save(&buf); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%03d-%s", index+1, p.Filename("json"))
	if err := os.WriteFile(filepath.Join(r.OutDir, name), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write project: %w", err)
	}
	return name, nil
}

func countIllustrated(p models.Project) int {
	n := 0
	for _, pg := range p.Pages {
		if !pg.GeneratedImage.IsZero() {
			n++
		}
	}
	return n
}
