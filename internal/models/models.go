package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidValue is returned when an edit carries a value outside its field's domain
	ErrInvalidValue = errors.New("invalid value")
	// ErrPageIndex is returned when a page-scoped operation targets a missing page
	ErrPageIndex = errors.New("page index out of range")
)

// Genre is the kind of booklet being authored
type Genre string

const (
	GenreTechnicalManual   Genre = "technical-manual"
	GenreRecipe            Genre = "recipe"
	GenreDIYCraft          Genre = "diy-craft"
	GenreScienceExperiment Genre = "science-experiment"
	GenreSafetyProcedure   Genre = "safety-procedure"
	GenreEducational       Genre = "educational"
)

// AllGenres lists every supported genre in display order
var AllGenres = []Genre{
	GenreTechnicalManual,
	GenreRecipe,
	GenreDIYCraft,
	GenreScienceExperiment,
	GenreSafetyProcedure,
	GenreEducational,
}

func (g Genre) Valid() bool {
	for _, v := range AllGenres {
		if g == v {
			return true
		}
	}
	return false
}

// ParseGenre converts s into a Genre, rejecting unknown values
func ParseGenre(s string) (Genre, error) {
	g := Genre(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: unknown genre %q", ErrInvalidValue, s)
	}
	return g, nil
}

// ImageStyle is the illustration style applied to every generated image
type ImageStyle string

const (
	StyleLineArt    ImageStyle = "line-art"
	StyleFlatVector ImageStyle = "flat-vector"
	StyleWatercolor ImageStyle = "watercolor"
	StyleIsometric  ImageStyle = "isometric"
	StyleCartoon    ImageStyle = "cartoon"
	StyleBlueprint  ImageStyle = "blueprint"
)

var AllImageStyles = []ImageStyle{
	StyleLineArt,
	StyleFlatVector,
	StyleWatercolor,
	StyleIsometric,
	StyleCartoon,
	StyleBlueprint,
}

func (s ImageStyle) Valid() bool {
	for _, v := range AllImageStyles {
		if s == v {
			return true
		}
	}
	return false
}

func ParseImageStyle(s string) (ImageStyle, error) {
	st := ImageStyle(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown image style %q", ErrInvalidValue, s)
	}
	return st, nil
}

// Layout places the illustration relative to the text of a page
type Layout string

const (
	LayoutImageTop    Layout = "image-top"
	LayoutImageBottom Layout = "image-bottom"
	LayoutImageLeft   Layout = "image-left"
	LayoutImageRight  Layout = "image-right"
	LayoutFullText    Layout = "full-text"
)

var AllLayouts = []Layout{
	LayoutImageTop,
	LayoutImageBottom,
	LayoutImageLeft,
	LayoutImageRight,
	LayoutFullText,
}

// DefaultLayout is used for new pages and for unrecognised layout tags
const DefaultLayout = LayoutImageRight

func (l Layout) Valid() bool {
	for _, v := range AllLayouts {
		if l == v {
			return true
		}
	}
	return false
}

func ParseLayout(s string) (Layout, error) {
	l := Layout(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: unknown layout %q", ErrInvalidValue, s)
	}
	return l, nil
}

// Page is one step of a booklet
type Page struct {
	ID             string `json:"id"`
	PageNumber     int    `json:"pageNumber"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	ImagePrompt    string `json:"imagePrompt"`
	GeneratedImage Image  `json:"generatedImage,omitempty"`
	Layout         Layout `json:"layout"`
	MascotTip      string `json:"mascotTip,omitempty"`
}

// Project is the root aggregate for one booklet
type Project struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Subtitle         string     `json:"subtitle"`
	Topic            string     `json:"topic"`
	Genre            Genre      `json:"genre"`
	ImageStyle       ImageStyle `json:"imageStyle"`
	TotalPages       int        `json:"totalPages"`
	Pages            []Page     `json:"pages"`
	PrimaryColor     Color      `json:"primaryColor"`
	SecondaryColor   Color      `json:"secondaryColor"`
	CoverImage       Image      `json:"coverImage,omitempty"`
	CoverImagePrompt string     `json:"coverImagePrompt,omitempty"`
	VisualIdentity   string     `json:"visualIdentity"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Draft is the partially populated result of structure generation.
// Zero fields are replaced by defaults in NewProject.
type Draft struct {
	Title            string
	Subtitle         string
	Topic            string
	Genre            Genre
	ImageStyle       ImageStyle
	PrimaryColor     Color
	SecondaryColor   Color
	CoverImagePrompt string
	VisualIdentity   string
	Pages            []DraftPage
}

type DraftPage struct {
	Title       string
	Content     string
	ImagePrompt string
	Layout      Layout
	MascotTip   string
}

const (
	DefaultPrimaryColor   Color = "#1E3A5F"
	DefaultSecondaryColor Color = "#F2A541"
)

// NewProject builds a Project from a draft. Pages are numbered by position and
// receive fresh identifiers regardless of what the draft carried.
func NewProject(d Draft, now time.Time) Project {
	p := Project{
		ID:               uuid.NewString(),
		Title:            d.Title,
		Subtitle:         d.Subtitle,
		Topic:            d.Topic,
		Genre:            d.Genre,
		ImageStyle:       d.ImageStyle,
		PrimaryColor:     d.PrimaryColor,
		SecondaryColor:   d.SecondaryColor,
		CoverImagePrompt: d.CoverImagePrompt,
		VisualIdentity:   d.VisualIdentity,
		CreatedAt:        now.UTC(),
		Pages:            make([]Page, 0, len(d.Pages)),
	}

	if p.Title == "" {
		p.Title = d.Topic
	}
	if p.Title == "" {
		p.Title = "Untitled booklet"
	}
	if !p.Genre.Valid() {
		p.Genre = GenreTechnicalManual
	}
	if !p.ImageStyle.Valid() {
		p.ImageStyle = StyleLineArt
	}
	if !p.PrimaryColor.Valid() {
		p.PrimaryColor = DefaultPrimaryColor
	}
	if !p.SecondaryColor.Valid() {
		p.SecondaryColor = DefaultSecondaryColor
	}

	for i, dp := range d.Pages {
		layout := dp.Layout
		if !layout.Valid() {
			layout = DefaultLayout
		}
		p.Pages = append(p.Pages, Page{
			ID:          uuid.NewString(),
			PageNumber:  i + 1,
			Title:       dp.Title,
			Content:     dp.Content,
			ImagePrompt: dp.ImagePrompt,
			Layout:      layout,
			MascotTip:   dp.MascotTip,
		})
	}
	p.TotalPages = len(p.Pages)

	return p
}

// Validate reports the first invariant the project violates
func (p Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: project id is empty", ErrInvalidValue)
	}
	if !p.Genre.Valid() {
		return fmt.Errorf("%w: unknown genre %q", ErrInvalidValue, p.Genre)
	}
	if !p.ImageStyle.Valid() {
		return fmt.Errorf("%w: unknown image style %q", ErrInvalidValue, p.ImageStyle)
	}
	if !p.PrimaryColor.Valid() {
		return fmt.Errorf("%w: primary color %q", ErrInvalidValue, p.PrimaryColor)
	}
	if !p.SecondaryColor.Valid() {
		return fmt.Errorf("%w: secondary color %q", ErrInvalidValue, p.SecondaryColor)
	}
	if !p.CoverImage.IsZero() {
		if err := p.CoverImage.Validate(); err != nil {
			return fmt.Errorf("cover image: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(p.Pages))
	for i, page := range p.Pages {
		if page.PageNumber != i+1 {
			return fmt.Errorf("%w: page %d has number %d", ErrInvalidValue, i+1, page.PageNumber)
		}
		if page.ID == "" {
			return fmt.Errorf("%w: page %d has no id", ErrInvalidValue, i+1)
		}
		if _, dup := seen[page.ID]; dup {
			return fmt.Errorf("%w: duplicate page id %s", ErrInvalidValue, page.ID)
		}
		seen[page.ID] = struct{}{}
		if !page.Layout.Valid() {
			return fmt.Errorf("%w: page %d layout %q", ErrInvalidValue, i+1, page.Layout)
		}
		if !page.GeneratedImage.IsZero() {
			if err := page.GeneratedImage.Validate(); err != nil {
				return fmt.Errorf("page %d image: %w", i+1, err)
			}
		}
	}
	return nil
}

// Page returns a copy of the page at index
func (p Project) Page(index int) (Page, error) {
	if index < 0 || index >= len(p.Pages) {
		return Page{}, fmt.Errorf("%w: %d (project has %d pages)", ErrPageIndex, index, len(p.Pages))
	}
	return p.Pages[index], nil
}
