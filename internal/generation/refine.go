package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/config"
	"github.com/lehigh-university-libraries/booklet/internal/metrics"
	"github.com/lehigh-university-libraries/booklet/internal/providers"
)

// Refine rewrites currentText according to instruction. An empty reply from
// the backend leaves the text unchanged and is not an error.
func (s *Service) Refine(ctx context.Context, currentText, instruction string) (string, error) {
	start := time.Now()
	out, err := s.text.GenerateText(ctx, providers.Config{
		Model:             s.opts.TextModel,
		Temperature:       s.opts.Temperature,
		SystemInstruction: refineSystemPrompt,
		Prompt:            refinePrompt(currentText, instruction),
	})
	metrics.ObserveAICall("refine", s.opts.TextModel, start, err)
	if err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrRefinement, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		slog.Warn("Refinement returned no text, keeping original", "instruction", instruction)
		return currentText, nil
	}
	return out, nil
}
