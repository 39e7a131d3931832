package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig describes how a batch was produced
type RunConfig struct {
	Source     string `yaml:"source"`
	TextModel  string `yaml:"textmodel"`
	ImageModel string `yaml:"imagemodel,omitempty"`
	Illustrate bool   `yaml:"illustrate"`
	Rows       int    `yaml:"rows"`
	Timestamp  string `yaml:"timestamp"`
}

// Result is the outcome for one topic row
type Result struct {
	Row             int     `yaml:"row"`
	Topic           string  `yaml:"topic"`
	ProjectID       string  `yaml:"projectid,omitempty"`
	Title           string  `yaml:"title,omitempty"`
	Pages           int     `yaml:"pages"`
	Illustrated     int     `yaml:"illustrated,omitempty"`
	File            string  `yaml:"file,omitempty"`
	Error           string  `yaml:"error,omitempty"`
	DurationSeconds float64 `yaml:"durationseconds"`
}

type Summary struct {
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
}

// Report is written next to the generated projects as report.yaml
type Report struct {
	Config  RunConfig `yaml:"config"`
	Summary Summary   `yaml:"summary"`
	Results []Result  `yaml:"results"`
}

func (r *Report) add(result Result) {
	r.Results = append(r.Results, result)
	if result.Error != "" {
		r.Summary.Failed++
	} else {
		r.Summary.Succeeded++
	}
}

// SaveYAML writes the report to path
func (r *Report) SaveYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
