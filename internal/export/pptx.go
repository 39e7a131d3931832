package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/layout"
)

// slide geometry in EMU, 16:9
const (
	slideWidth    = 12192000
	slideHeight   = 6858000
	slideMargin   = 457200
	bandHeight    = 1188720
	calloutHeight = 914400
	coverOverlay  = 55000
)

const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var pptxTemplates = texttemplate.Must(texttemplate.New("pptx").Funcs(texttemplate.FuncMap{
	"xml": xmlEscape,
}).ParseFS(templateFS, "templates/pptx/*.tmpl"))

// PPTXRenderer writes an OOXML slide deck: a title slide, then one slide per page
type PPTXRenderer struct{}

func (PPTXRenderer) Format() Format { return FormatPPTX }
func (PPTXRenderer) MIMEType() string {
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}
func (PPTXRenderer) Extension() string { return "pptx" }

type relationship struct {
	ID     string
	Type   string
	Target string
}

type pptxParagraph struct {
	Text   string
	Size   int
	Bold   bool
	Italic bool
	Color  string
	Align  string
}

type pptxCrop struct {
	L, T, R, B int
}

type pptxShape struct {
	ID         int
	Name       string
	X, Y, W, H int64
	Fill       string
	Alpha      int
	Anchor     string
	Paragraphs []pptxParagraph
	Picture    string
	Crop       *pptxCrop
}

type pptxMedia struct {
	Name string
	Data []byte
}

type pptxSlide struct {
	ID         int
	RelID      string
	File       string
	Background string
	Shapes     []pptxShape
	Rels       []relationship
	Media      []pptxMedia
}

// addShape appends s with the next free shape id
func (s *pptxSlide) addShape(shape pptxShape) {
	shape.ID = len(s.Shapes) + 2
	s.Shapes = append(s.Shapes, shape)
}

// addPicture embeds n as slide media and places it at box
func (s *pptxSlide) addPicture(n images.Normalized, mediaName string, box layout.Rect, crop *pptxCrop) {
	relID := fmt.Sprintf("rId%d", len(s.Rels)+1)
	s.Rels = append(s.Rels, relationship{ID: relID, Type: relImage, Target: "../media/" + mediaName})
	s.Media = append(s.Media, pptxMedia{Name: mediaName, Data: n.Data})
	s.addShape(pptxShape{
		Name:    mediaName,
		X:       int64(box.X),
		Y:       int64(box.Y),
		W:       int64(box.W),
		H:       int64(box.H),
		Picture: relID,
		Crop:    crop,
	})
}

func (PPTXRenderer) Render(doc layout.Document) ([]byte, error) {
	pictures, err := pageImages(doc)
	if err != nil {
		return nil, err
	}

	title, err := coverSlide(doc)
	if err != nil {
		return nil, err
	}
	slides := []*pptxSlide{title}
	for _, page := range doc.Pages {
		slides = append(slides, pageSlide(doc, page, pictures))
	}
	for i, s := range slides {
		s.ID = 256 + i
		s.RelID = fmt.Sprintf("rId%d", i+2)
		s.File = fmt.Sprintf("slide%d.xml", i+1)
	}

	var buf bytes.Buffer
	if err := writePackage(&buf, doc, slides); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	return buf.Bytes(), nil
}

func coverSlide(doc layout.Document) (*pptxSlide, error) {
	cover := doc.Cover
	s := &pptxSlide{Rels: []relationship{layoutRel()}}
	textColor := cover.Primary.Hex()

	full := layout.Rect{W: slideWidth, H: slideHeight}
	if cover.Image.IsZero() {
		s.Background = cover.Secondary.Hex()
	} else {
		n, err := prepareImage(cover.Image, "cover image")
		if err != nil {
			return nil, err
		}
		s.addPicture(n, "cover."+n.Format(), full, fillCrop(full, n))
		s.addShape(pptxShape{
			Name:  "Overlay",
			W:     slideWidth,
			H:     slideHeight,
			Fill:  cover.Primary.Hex(),
			Alpha: coverOverlay,
		})
		textColor = "FFFFFF"
	}

	paras := []pptxParagraph{{Text: cover.Title, Size: 4400, Bold: true, Color: textColor, Align: "ctr"}}
	if cover.Subtitle != "" {
		paras = append(paras, pptxParagraph{Text: cover.Subtitle, Size: 2400, Color: textColor, Align: "ctr"})
	}
	s.addShape(pptxShape{
		Name:       "Title",
		X:          slideMargin * 2,
		Y:          slideHeight / 4,
		W:          slideWidth - slideMargin*4,
		H:          slideHeight / 2,
		Anchor:     "ctr",
		Paragraphs: paras,
	})
	return s, nil
}

func pageSlide(doc layout.Document, page layout.Page, pictures map[int]images.Normalized) *pptxSlide {
	s := &pptxSlide{Rels: []relationship{layoutRel()}}

	var header []pptxParagraph
	if b, ok := page.Block(layout.BlockLabel); ok {
		header = append(header, pptxParagraph{Text: b.Text, Size: 1400, Bold: true, Color: doc.Secondary.Hex(), Align: "l"})
	}
	if b, ok := page.Block(layout.BlockTitle); ok {
		header = append(header, pptxParagraph{Text: b.Text, Size: 2800, Bold: true, Color: "FFFFFF", Align: "l"})
	}
	s.addShape(pptxShape{
		Name:       "Header",
		W:          slideWidth,
		H:          bandHeight,
		Fill:       doc.Primary.Hex(),
		Anchor:     "ctr",
		Paragraphs: header,
	})

	content := layout.Rect{
		X: slideMargin,
		Y: bandHeight + slideMargin/2,
		W: slideWidth - 2*slideMargin,
		H: slideHeight - bandHeight - slideMargin*3/2,
	}
	regions := page.Regions(content)

	text := regions.Text
	if b, ok := page.Block(layout.BlockCallout); ok {
		s.addShape(pptxShape{
			Name:       "Tip",
			X:          int64(text.X),
			Y:          int64(text.Y + text.H - calloutHeight),
			W:          int64(text.W),
			H:          calloutHeight,
			Fill:       doc.Secondary.Hex(),
			Anchor:     "ctr",
			Paragraphs: []pptxParagraph{{Text: b.Text, Size: 1600, Italic: true, Color: doc.Primary.Hex(), Align: "l"}},
		})
		text.H -= calloutHeight + slideMargin/4
	}
	if b, ok := page.Block(layout.BlockBody); ok {
		var paras []pptxParagraph
		for _, p := range paragraphs(b.Text) {
			paras = append(paras, pptxParagraph{Text: p, Size: 1800, Color: "1E1E1E", Align: "l"})
		}
		s.addShape(pptxShape{
			Name:       "Body",
			X:          int64(text.X),
			Y:          int64(text.Y),
			W:          int64(text.W),
			H:          int64(text.H),
			Anchor:     "t",
			Paragraphs: paras,
		})
	}

	if n, ok := pictures[page.Number]; ok && !regions.Image.IsZero() {
		name := fmt.Sprintf("page%d.%s", page.Number, n.Format())
		s.addPicture(n, name, layout.Fit(regions.Image, n.Width, n.Height), nil)
	}
	return s
}

// fillCrop crops the picture so that it covers box without distortion.
// srcRect values are in thousandths of a percent.
func fillCrop(box layout.Rect, n images.Normalized) *pptxCrop {
	r := layout.Fill(box, n.Width, n.Height)
	cx := int((box.X - r.X) / r.W * 100000)
	cy := int((box.Y - r.Y) / r.H * 100000)
	return &pptxCrop{L: cx, R: cx, T: cy, B: cy}
}

func layoutRel() relationship {
	return relationship{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"}
}

func writePackage(w io.Writer, doc layout.Document, slides []*pptxSlide) error {
	modified := doc.Created
	if modified.IsZero() {
		modified = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	pkg := &pptxPackage{zw: zip.NewWriter(w), modified: modified}

	pkg.template("[Content_Types].xml", "content_types.xml.tmpl", map[string]any{"Slides": slides})
	pkg.template("_rels/.rels", "rels.xml.tmpl", []relationship{
		{ID: "rId1", Type: relOfficeDocument, Target: "ppt/presentation.xml"},
		{ID: "rId2", Type: relCoreProperties, Target: "docProps/core.xml"},
	})
	pkg.template("docProps/core.xml", "core.xml.tmpl", map[string]any{
		"Title":   doc.Title,
		"Created": modified.UTC().Format(time.RFC3339),
	})

	presRels := []relationship{{ID: "rId1", Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"}}
	for _, s := range slides {
		presRels = append(presRels, relationship{ID: s.RelID, Type: relSlide, Target: "slides/" + s.File})
	}
	presRels = append(presRels, relationship{ID: fmt.Sprintf("rId%d", len(slides)+2), Type: relTheme, Target: "theme/theme1.xml"})
	pkg.template("ppt/presentation.xml", "presentation.xml.tmpl", map[string]any{
		"Slides": slides,
		"Width":  slideWidth,
		"Height": slideHeight,
	})
	pkg.template("ppt/_rels/presentation.xml.rels", "rels.xml.tmpl", presRels)

	pkg.static("ppt/slideMasters/slideMaster1.xml", "slideMaster1.xml")
	pkg.template("ppt/slideMasters/_rels/slideMaster1.xml.rels", "rels.xml.tmpl", []relationship{
		{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		{ID: "rId2", Type: relTheme, Target: "../theme/theme1.xml"},
	})
	pkg.static("ppt/slideLayouts/slideLayout1.xml", "slideLayout1.xml")
	pkg.template("ppt/slideLayouts/_rels/slideLayout1.xml.rels", "rels.xml.tmpl", []relationship{
		{ID: "rId1", Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
	})
	pkg.static("ppt/theme/theme1.xml", "theme1.xml")

	for _, s := range slides {
		pkg.template("ppt/slides/"+s.File, "slide.xml.tmpl", s)
		pkg.template("ppt/slides/_rels/"+s.File+".rels", "rels.xml.tmpl", s.Rels)
		for _, m := range s.Media {
			pkg.write("ppt/media/"+m.Name, m.Data)
		}
	}

	if pkg.err != nil {
		return pkg.err
	}
	return pkg.zw.Close()
}

// pptxPackage writes zip parts, remembering the first error
type pptxPackage struct {
	zw       *zip.Writer
	modified time.Time
	err      error
}

func (p *pptxPackage) write(name string, data []byte) {
	if p.err != nil {
		return
	}
	f, err := p.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: p.modified})
	if err != nil {
		p.err = fmt.Errorf("failed to create %s: %w", name, err)
		return
	}
	if _, err := f.Write(data); err != nil {
		p.err = fmt.Errorf("failed to write %s: %w", name, err)
	}
}

func (p *pptxPackage) template(name, tmpl string, data any) {
	if p.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := pptxTemplates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		p.err = fmt.Errorf("failed to render %s: %w", name, err)
		return
	}
	p.write(name, buf.Bytes())
}

func (p *pptxPackage) static(name, file string) {
	if p.err != nil {
		return
	}
	data, err := templateFS.ReadFile("templates/pptx/" + file)
	if err != nil {
		p.err = fmt.Errorf("failed to read %s: %w", file, err)
		return
	}
	p.write(name, data)
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
