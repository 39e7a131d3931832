package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/lehigh-university-libraries/booklet/internal/layout"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

//go:embed templates
var templateFS embed.FS

var docTemplate = template.Must(template.ParseFS(templateFS, "templates/document.html.tmpl"))

// DocRenderer writes an HTML document that Word opens as a .doc file.
// Every booklet page becomes its own page-broken section.
type DocRenderer struct{}

func (DocRenderer) Format() Format { return FormatDoc }
func (DocRenderer) MIMEType() string { return "application/msword" }
func (DocRenderer) Extension() string { return "doc" }

type docData struct {
	Title      string
	Subtitle   string
	Primary    template.CSS
	Secondary  template.CSS
	CoverImage template.URL
	Pages      []docPage
}

type docPage struct {
	Label      string
	Title      string
	Body       template.HTML
	Tip        string
	Image      template.URL
	ImageFirst bool
	SideBySide bool
}

// Render places stored images as they are, without decoding them, so only
// serialization can fail
func (DocRenderer) Render(doc layout.Document) ([]byte, error) {
	data := docData{
		Title:      doc.Cover.Title,
		Subtitle:   doc.Cover.Subtitle,
		Primary:    template.CSS(doc.Primary),
		Secondary:  template.CSS(doc.Secondary),
		CoverImage: docImage(doc.Cover.Image),
		Pages:      make([]docPage, 0, len(doc.Pages)),
	}

	md := goldmark.New()
	for _, page := range doc.Pages {
		dp := docPage{}
		if b, ok := page.Block(layout.BlockLabel); ok {
			dp.Label = b.Text
		}
		if b, ok := page.Block(layout.BlockTitle); ok {
			dp.Title = b.Text
		}
		if b, ok := page.Block(layout.BlockCallout); ok {
			dp.Tip = b.Text
		}
		if b, ok := page.Block(layout.BlockBody); ok {
			var body bytes.Buffer
			if err := md.Convert([]byte(b.Text), &body); err != nil {
				return nil, fmt.Errorf("%w: page %d body: %w", ErrExport, page.Number, err)
			}
			dp.Body = template.HTML(body.String())
		}
		if b, ok := page.Block(layout.BlockIllustration); ok && page.Layout != models.LayoutFullText {
			dp.Image = docImage(b.Image)
		}
		if dp.Image != "" {
			switch page.Layout {
			case models.LayoutImageLeft:
				dp.SideBySide, dp.ImageFirst = true, true
			case models.LayoutImageRight:
				dp.SideBySide = true
			case models.LayoutImageTop:
				dp.ImageFirst = true
			}
		}
		data.Pages = append(data.Pages, dp)
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	return buf.Bytes(), nil
}

// docImage passes through inline image data URIs. Anything else is left out
// of the markup.
func docImage(img models.Image) template.URL {
	if !strings.HasPrefix(string(img), "data:image/") {
		return ""
	}
	return template.URL(img)
}
