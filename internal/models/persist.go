package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Save writes the project as indented JSON
func (p Project) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return nil
}

// Load reads a project previously written by Save and checks its invariants
func Load(r io.Reader) (Project, error) {
	var p Project
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Project{}, fmt.Errorf("failed to decode project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Filename derives an artifact name from the project title, e.g. "bike-wheel.pdf"
func (p Project) Filename(ext string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(p.Title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "booklet"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

// TipSeverity controls how the editor highlights mascot tips
type TipSeverity string

const (
	TipInfo    TipSeverity = "info"
	TipWarning TipSeverity = "warning"
	TipDanger  TipSeverity = "danger"
)

// ViewState is editor state kept beside a project. It is never part of the
// project's JSON.
type ViewState struct {
	ActivePage  int         `json:"active_page"`
	TipSeverity TipSeverity `json:"tip_severity"`
}

// Clamp keeps the view pointing at an existing page of p
func (v ViewState) Clamp(p Project) ViewState {
	if v.ActivePage >= len(p.Pages) {
		v.ActivePage = len(p.Pages) - 1
	}
	if v.ActivePage < 0 {
		v.ActivePage = 0
	}
	switch v.TipSeverity {
	case TipInfo, TipWarning, TipDanger:
	default:
		v.TipSeverity = TipInfo
	}
	return v
}
