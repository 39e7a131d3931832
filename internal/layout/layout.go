// Package layout turns a project into the page model shared by every exporter
package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

// Rect is a box in whatever unit the renderer works in
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) IsZero() bool {
	return r.W <= 0 || r.H <= 0
}

// Inset shrinks r by d on every side
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: max(r.W-2*d, 0), H: max(r.H-2*d, 0)}
}

type BlockKind string

const (
	BlockLabel        BlockKind = "label"
	BlockTitle        BlockKind = "title"
	BlockBody         BlockKind = "body"
	BlockCallout      BlockKind = "callout"
	BlockIllustration BlockKind = "illustration"
)

// Block is one element of a page, in reading order
type Block struct {
	Kind  BlockKind
	Text  string
	Image models.Image
}

// Cover is the title page
type Cover struct {
	Title     string
	Subtitle  string
	Image     models.Image
	Primary   models.Color
	Secondary models.Color
}

// Page is one booklet page laid out as ordered blocks
type Page struct {
	Number int
	Layout models.Layout
	Blocks []Block
}

// Block returns the first block of kind
func (p Page) Block(kind BlockKind) (Block, bool) {
	for _, b := range p.Blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}

// HasIllustration reports whether the page carries an image
func (p Page) HasIllustration() bool {
	_, ok := p.Block(BlockIllustration)
	return ok
}

// Regions splits box for this page. Pages without an illustration use the
// whole box for text whatever their layout.
func (p Page) Regions(box Rect) Regions {
	if !p.HasIllustration() {
		return Regions{Text: box}
	}
	return Arrange(p.Layout, box)
}

// Document is the export-ready form of a project
type Document struct {
	Title     string
	Created   time.Time
	Primary   models.Color
	Secondary models.Color
	Cover     Cover
	Pages     []Page
}

// Build converts a project into a document. The project is only read.
func Build(p models.Project) Document {
	doc := Document{
		Title:     p.Title,
		Created:   p.CreatedAt,
		Primary:   p.PrimaryColor,
		Secondary: p.SecondaryColor,
		Cover: Cover{
			Title:     p.Title,
			Subtitle:  p.Subtitle,
			Image:     p.CoverImage,
			Primary:   p.PrimaryColor,
			Secondary: p.SecondaryColor,
		},
		Pages: make([]Page, 0, len(p.Pages)),
	}

	for _, pg := range p.Pages {
		page := Page{
			Number: pg.PageNumber,
			Layout: pg.Layout,
			Blocks: []Block{
				{Kind: BlockLabel, Text: StepLabel(pg.PageNumber)},
				{Kind: BlockTitle, Text: pg.Title},
				{Kind: BlockBody, Text: strings.TrimSpace(pg.Content)},
			},
		}
		if tip := strings.TrimSpace(pg.MascotTip); tip != "" {
			page.Blocks = append(page.Blocks, Block{Kind: BlockCallout, Text: tip})
		}
		if !pg.GeneratedImage.IsZero() {
			page.Blocks = append(page.Blocks, Block{Kind: BlockIllustration, Image: pg.GeneratedImage})
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc
}

func StepLabel(n int) string {
	return fmt.Sprintf("Step %d", n)
}
