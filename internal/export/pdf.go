package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lehigh-university-libraries/booklet/internal/images"
	"github.com/lehigh-university-libraries/booklet/internal/layout"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

const (
	pdfMargin       = 12.0
	pdfHeaderHeight = 26.0
	pdfFooterHeight = 14.0
	pdfCalloutH     = 26.0
	pdfCoverBlur    = 8
	pdfCoverOverlay = 0.55
	pdfFont         = "Go"
)

// PDFRenderer draws a landscape A4 booklet: a cover page, then one page per step
type PDFRenderer struct{}

func (PDFRenderer) Format() Format { return FormatPDF }
func (PDFRenderer) MIMEType() string { return "application/pdf" }
func (PDFRenderer) Extension() string { return "pdf" }

func (PDFRenderer) Render(doc layout.Document) ([]byte, error) {
	pictures, err := pageImages(doc)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("booklet", false)
	pdf.SetCreationDate(doc.Created)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "BI", gobolditalic.TTF)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: fonts: %w", ErrExport, err)
	}

	w := &pdfWriter{pdf: pdf, doc: doc}

	if err := w.cover(); err != nil {
		return nil, err
	}
	for _, page := range doc.Pages {
		w.page(page, pictures)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrExport, page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	doc layout.Document
}

// pdfText keeps text inside the Basic Multilingual Plane, the range fpdf
// measures for UTF-8 fonts
func pdfText(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '?'
		}
		return r
	}, strings.ToValidUTF8(s, "?"))
}

func (w *pdfWriter) fill(c models.Color) {
	r, g, b := c.RGB()
	w.pdf.SetFillColor(r, g, b)
}

func (w *pdfWriter) text(c models.Color) {
	r, g, b := c.RGB()
	w.pdf.SetTextColor(r, g, b)
}

func (w *pdfWriter) image(name string, n images.Normalized, box layout.Rect) {
	opts := fpdf.ImageOptions{ImageType: n.Format()}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(n.Data))
	w.pdf.ImageOptions(name, box.X, box.Y, box.W, box.H, false, opts, 0, "")
}

func (w *pdfWriter) cover() error {
	pdf := w.pdf
	cover := w.doc.Cover
	pdf.AddPage()
	pw, ph := pdf.GetPageSize()
	page := layout.Rect{W: pw, H: ph}

	if cover.Image.IsZero() {
		w.fill(cover.Primary)
		pdf.Rect(0, 0, pw, ph, "F")
	} else {
		n, err := prepareImage(cover.Image, "cover image")
		if err != nil {
			return err
		}
		blurred, err := images.Blur(n.Data, pdfCoverBlur)
		if err != nil {
			return fmt.Errorf("%w: cover image: %w", ErrExport, err)
		}
		n.Data, n.MIMEType = blurred, "image/jpeg"

		pdf.ClipRect(0, 0, pw, ph, false)
		w.image("cover", n, layout.Fill(page, n.Width, n.Height))
		pdf.ClipEnd()

		pdf.SetAlpha(pdfCoverOverlay, "Normal")
		w.fill(cover.Primary)
		pdf.Rect(0, 0, pw, ph, "F")
		pdf.SetAlpha(1, "Normal")
	}

	w.fill(cover.Secondary)
	pdf.Rect(pdfMargin*3, ph*0.62, pw-pdfMargin*6, 1.5, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(pdfFont, "B", 36)
	pdf.SetXY(pdfMargin*3, ph*0.32)
	pdf.MultiCell(pw-pdfMargin*6, 15, pdfText(cover.Title), "", "C", false)

	if cover.Subtitle != "" {
		pdf.SetFont(pdfFont, "", 18)
		pdf.SetXY(pdfMargin*3, ph*0.66)
		pdf.MultiCell(pw-pdfMargin*6, 9, pdfText(cover.Subtitle), "", "C", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: cover: %w", ErrExport, err)
	}
	return nil
}

func (w *pdfWriter) page(page layout.Page, pictures map[int]images.Normalized) {
	pdf := w.pdf
	pdf.AddPage()
	pw, ph := pdf.GetPageSize()

	// header band with the step label and title
	w.fill(w.doc.Primary)
	pdf.Rect(0, 0, pw, pdfHeaderHeight, "F")
	if label, ok := page.Block(layout.BlockLabel); ok {
		w.text(w.doc.Secondary)
		pdf.SetFont(pdfFont, "B", 11)
		pdf.SetXY(pdfMargin, 4)
		pdf.CellFormat(pw-2*pdfMargin, 6, pdfText(label.Text), "", 0, "L", false, 0, "")
	}
	if title, ok := page.Block(layout.BlockTitle); ok {
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont(pdfFont, "B", 20)
		pdf.SetXY(pdfMargin, 11)
		pdf.CellFormat(pw-2*pdfMargin, 11, pdfText(title.Text), "", 0, "L", false, 0, "")
	}

	content := layout.Rect{
		X: pdfMargin,
		Y: pdfHeaderHeight + pdfMargin/2,
		W: pw - 2*pdfMargin,
		H: ph - pdfHeaderHeight - pdfMargin/2 - pdfFooterHeight,
	}
	regions := page.Regions(content)

	text := regions.Text
	if tip, ok := page.Block(layout.BlockCallout); ok {
		box := layout.Rect{X: text.X, Y: text.Y + text.H - pdfCalloutH, W: text.W, H: pdfCalloutH}
		text.H -= pdfCalloutH + 4
		w.callout(tip.Text, box)
	}
	if body, ok := page.Block(layout.BlockBody); ok {
		w.body(body.Text, text)
	}

	if n, ok := pictures[page.Number]; ok && !regions.Image.IsZero() {
		w.image(fmt.Sprintf("page-%d", page.Number), n, layout.Fit(regions.Image, n.Width, n.Height))
	}

	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont(pdfFont, "", 9)
	pdf.SetXY(pdfMargin, ph-pdfFooterHeight+4)
	pdf.CellFormat(pw-2*pdfMargin, 6, fmt.Sprintf("%d / %d", page.Number, len(w.doc.Pages)), "", 0, "R", false, 0, "")
}

// body writes text into box, shrinking the font until it fits
func (w *pdfWriter) body(text string, box layout.Rect) {
	pdf := w.pdf
	lines := paragraphs(pdfText(text))

	size := 14.0
	for ; size > 8; size-- {
		pdf.SetFont(pdfFont, "", size)
		if w.textHeight(lines, box.W, size) <= box.H {
			break
		}
	}
	pdf.SetFont(pdfFont, "", size)

	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(box.X, box.Y)
	for _, p := range lines {
		pdf.SetX(box.X)
		pdf.MultiCell(box.W, lineHeight(size), p, "", "L", false)
		pdf.SetY(pdf.GetY() + lineHeight(size)/2)
	}
}

func (w *pdfWriter) textHeight(paras []string, width, size float64) float64 {
	h := 0.0
	for _, p := range paras {
		n := len(w.pdf.SplitText(p, width))
		h += float64(n)*lineHeight(size) + lineHeight(size)/2
	}
	return h
}

func (w *pdfWriter) callout(tip string, box layout.Rect) {
	pdf := w.pdf
	w.fill(w.doc.Secondary)
	pdf.SetAlpha(0.35, "Normal")
	pdf.Rect(box.X, box.Y, box.W, box.H, "F")
	pdf.SetAlpha(1, "Normal")
	w.fill(w.doc.Primary)
	pdf.Rect(box.X, box.Y, 2, box.H, "F")

	inner := box.Inset(4)
	w.text(w.doc.Primary)
	pdf.SetFont(pdfFont, "BI", 11)
	pdf.SetXY(inner.X+2, inner.Y)
	pdf.MultiCell(inner.W-2, lineHeight(11), pdfText(tip), "", "L", false)
}

// lineHeight converts a point size to a line height in mm
func lineHeight(size float64) float64 {
	return size * 0.3528 * 1.35
}
