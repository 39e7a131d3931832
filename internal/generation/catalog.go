package generation

import (
	_ "embed"
	"fmt"

	"github.com/lehigh-university-libraries/booklet/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// GenreInfo describes how a genre is written and colored
type GenreInfo struct {
	ID             models.Genre `yaml:"id" json:"id"`
	Label          string       `yaml:"label" json:"label"`
	Guidance       string       `yaml:"guidance" json:"guidance"`
	PrimaryColor   models.Color `yaml:"primary_color" json:"primary_color"`
	SecondaryColor models.Color `yaml:"secondary_color" json:"secondary_color"`
}

// StyleInfo describes how an illustration style is phrased for the image model
type StyleInfo struct {
	ID          models.ImageStyle `yaml:"id" json:"id"`
	Label       string            `yaml:"label" json:"label"`
	Description string            `yaml:"description" json:"description"`
}

// Catalog is the set of genres and styles offered by the wizard
type Catalog struct {
	Genres  []GenreInfo     `yaml:"genres" json:"genres"`
	Styles  []StyleInfo     `yaml:"styles" json:"styles"`
	Layouts []models.Layout `yaml:"-" json:"layouts"`
}

// LoadCatalog parses the embedded catalog and checks it covers every enum value
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for _, g := range models.AllGenres {
		if _, ok := c.Genre(g); !ok {
			return nil, fmt.Errorf("catalog has no entry for genre %s", g)
		}
	}
	for _, s := range models.AllImageStyles {
		if _, ok := c.Style(s); !ok {
			return nil, fmt.Errorf("catalog has no entry for style %s", s)
		}
	}
	c.Layouts = models.AllLayouts
	return &c, nil
}

func (c *Catalog) Genre(id models.Genre) (GenreInfo, bool) {
	for _, g := range c.Genres {
		if g.ID == id {
			return g, true
		}
	}
	return GenreInfo{}, false
}

func (c *Catalog) Style(id models.ImageStyle) (StyleInfo, bool) {
	for _, s := range c.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return StyleInfo{}, false
}
