package generation

import (
	"errors"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/providers"
)

var (
	// ErrGeneration means the structure request failed or returned unusable content
	ErrGeneration = errors.New("failed to generate booklet structure")
	// ErrImageGeneration means the image request failed or returned no image
	ErrImageGeneration = errors.New("failed to generate image")
	// ErrRefinement means the refinement request itself failed
	ErrRefinement = errors.New("failed to refine text")
)

// Options selects models and sampling for every request the service makes
type Options struct {
	TextModel   string
	ImageModel  string
	Temperature float64
}

// Service turns topics into projects and fills in illustrations and text
// through the configured providers. It keeps no state between calls.
type Service struct {
	text    providers.Provider
	images  providers.ImageProvider
	catalog *Catalog
	opts    Options
	now     func() time.Time
}

// NewService wires a service to its providers
func NewService(text providers.Provider, images providers.ImageProvider, catalog *Catalog, opts Options) *Service {
	return &Service{
		text:    text,
		images:  images,
		catalog: catalog,
		opts:    opts,
		now:     time.Now,
	}
}

// Catalog returns the genres and styles the service understands
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

func (s *Service) Options() Options {
	return s.opts
}
