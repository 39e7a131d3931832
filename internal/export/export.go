// Package export renders booklets as PDF, Word and PowerPoint files
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/layout"
	"github.com/lehigh-university-libraries/booklet/internal/metrics"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

var ErrExport = errors.New("export failed")

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDoc  Format = "doc"
	FormatPPTX Format = "pptx"
)

var AllFormats = []Format{FormatPDF, FormatDoc, FormatPPTX}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllFormats {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown export format %q", models.ErrInvalidValue, s)
}

// Renderer writes a laid-out document in one file format
type Renderer interface {
	Format() Format
	MIMEType() string
	Extension() string
	Render(doc layout.Document) ([]byte, error)
}

// Artifact is a finished export, ready to be written or served
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// RendererFor returns the renderer of format
func RendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatPDF:
		return PDFRenderer{}, nil
	case FormatDoc:
		return DocRenderer{}, nil
	case FormatPPTX:
		return PPTXRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: unknown export format %q", models.ErrInvalidValue, format)
}

// Export renders p in format. The project is only read, so exports can be
// repeated in any order. On failure no artifact is returned.
func Export(ctx context.Context, format Format, p models.Project) (Artifact, error) {
	r, err := RendererFor(format)
	if err != nil {
		return Artifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	start := time.Now()
	data, err := r.Render(layout.Build(p))
	metrics.ObserveExport(string(format), len(data), err)
	if err != nil {
		slog.Error("Export failed", "project", p.ID, "format", format, "err", err)
		if errors.Is(err, ErrExport) {
			return Artifact{}, err
		}
		return Artifact{}, fmt.Errorf("%w: %s: %w", ErrExport, format, err)
	}

	slog.Info("Exported booklet", "project", p.ID, "format", format, "bytes", len(data), "duration", time.Since(start))
	return Artifact{
		Filename: p.Filename(r.Extension()),
		MIMEType: r.MIMEType(),
		Data:     data,
	}, nil
}

// prepareImage decodes an embedded image into a format every renderer can place
func prepareImage(img models.Image, what string) (images.Normalized, error) {
	data, _, err := img.Decode()
	if err != nil {
		return images.Normalized{}, fmt.Errorf("%w: %s: %w", ErrExport, what, err)
	}
	n, err := images.Normalize(data)
	if err != nil {
		return images.Normalized{}, fmt.Errorf("%w: %s: %w", ErrExport, what, err)
	}
	return n, nil
}

// pageImages prepares every page illustration up front so that a bad image
// fails the export before any output is produced
func pageImages(doc layout.Document) (map[int]images.Normalized, error) {
	out := make(map[int]images.Normalized)
	for _, page := range doc.Pages {
		b, ok := page.Block(layout.BlockIllustration)
		if !ok {
			continue
		}
		n, err := prepareImage(b.Image, fmt.Sprintf("page %d illustration", page.Number))
		if err != nil {
			return nil, err
		}
		out[page.Number] = n
	}
	return out, nil
}

// paragraphs splits body text on blank lines and line breaks
func paragraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
