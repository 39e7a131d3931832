package export

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func pngImage(t *testing.T, w, h int) models.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return models.NewImage(buf.Bytes(), "image/png")
}

func bicycleProject(t *testing.T) models.Project {
	t.Helper()
	p := models.NewProject(models.Draft{
		Title:    "Fixing a Flat",
		Subtitle: "Get back on the road",
		Topic:    "Fix a bicycle flat",
		Pages: []models.DraftPage{
			{Title: "What you need", Content: "Tire levers.\nA pump.\nA patch kit.", Layout: models.LayoutImageLeft, MascotTip: "Check the valve type first."},
			{Title: "Remove the wheel", Content: "Open the **quick release**.", Layout: models.LayoutImageTop},
			{Title: "Patch the tube", Content: "Find the hole and apply the patch.", Layout: models.LayoutImageBottom},
			{Title: "Ride again", Content: "Inflate to the pressure on the sidewall.", Layout: models.LayoutFullText},
		},
	}, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))

	var err error
	p, err = p.Apply(models.SetCoverImage(pngImage(t, 40, 20)))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		p, err = p.ApplyPage(i, models.SetPageImage(pngImage(t, 16, 12)))
		require.NoError(t, err)
	}
	return p
}

func zipEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string][]byte{}
	for i, f := range zr.File {
		if i == 0 {
			assert.Equal(t, "[Content_Types].xml", f.Name)
		}
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = b
	}
	return out
}

func countSlides(entries map[string][]byte) int {
	n := 0
	for name := range entries {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			n++
		}
	}
	return n
}

func TestExportPDF(t *testing.T) {
	p := bicycleProject(t)
	a, err := Export(context.Background(), FormatPDF, p)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", a.MIMEType)
	assert.Equal(t, "fixing-a-flat.pdf", a.Filename)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF")))
}

func TestExportPDFNonASCIIText(t *testing.T) {
	p := bicycleProject(t)
	var err error
	p, err = p.Apply(models.SetTitle("Crème brûlée — the “easy” way"))
	require.NoError(t, err)
	p, err = p.Apply(models.SetSubtitle("Ça marche 🍮"))
	require.NoError(t, err)
	p, err = p.ApplyPage(0, models.SetPageTitle("Prépare the ramekins"))
	require.NoError(t, err)
	p, err = p.ApplyPage(0, models.SetPageContent("Tighten — then check.\nWhisk the “crème” until it’s smooth… 🥄"))
	require.NoError(t, err)
	p, err = p.ApplyPage(0, models.SetPageMascotTip("Don’t overheat — 82 °C is plenty."))
	require.NoError(t, err)
	p.Pages[1].Content = "invalid \xff utf-8"

	a, err := Export(context.Background(), FormatPDF, p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF")))
	assert.Equal(t, "crème-brûlée-the-easy-way.pdf", a.Filename)
}

func TestPDFText(t *testing.T) {
	assert.Equal(t, "Crème — “ok”", pdfText("Crème — “ok”"))
	assert.Equal(t, "tip ?", pdfText("tip 🍮"))
	assert.Equal(t, "a?b", pdfText("a\xffb"))
}

func TestExportDoc(t *testing.T) {
	p := bicycleProject(t)
	a, err := Export(context.Background(), FormatDoc, p)
	require.NoError(t, err)
	assert.Equal(t, "application/msword", a.MIMEType)
	assert.Equal(t, "fixing-a-flat.doc", a.Filename)

	html := string(a.Data)
	assert.Contains(t, html, `xmlns:w="urn:schemas-microsoft-com:office:word"`)
	assert.Contains(t, html, "Step 4")
	assert.Contains(t, html, "<strong>quick release</strong>")
	assert.Contains(t, html, "Check the valve type first.")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Equal(t, 4, strings.Count(html, "page-break-before"))
	assert.Contains(t, html, "#1E3A5F")
}

func TestExportDocEscapesText(t *testing.T) {
	p := bicycleProject(t)
	p, err := p.Apply(models.SetTitle("<script>alert(1)</script>"))
	require.NoError(t, err)

	a, err := Export(context.Background(), FormatDoc, p)
	require.NoError(t, err)
	assert.NotContains(t, string(a.Data), "<script>")
}

func TestExportPPTX(t *testing.T) {
	p := bicycleProject(t)
	a, err := Export(context.Background(), FormatPPTX, p)
	require.NoError(t, err)
	assert.Equal(t, "fixing-a-flat.pptx", a.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", a.MIMEType)

	entries := zipEntries(t, a.Data)
	assert.Equal(t, 5, countSlides(entries))
	assert.Contains(t, entries, "ppt/presentation.xml")
	assert.Contains(t, entries, "ppt/theme/theme1.xml")
	assert.Contains(t, entries, "ppt/media/cover.png")
	assert.Contains(t, entries, "ppt/media/page1.png")
	assert.NotContains(t, entries, "ppt/media/page4.png")

	title := string(entries["ppt/slides/slide1.xml"])
	assert.Contains(t, title, "Fixing a Flat")
	assert.Contains(t, title, `<a:alpha val="55000"/>`)
	assert.Contains(t, title, `val="1E3A5F"`)
	assert.NotContains(t, title, `val="#`)

	slide2 := string(entries["ppt/slides/slide2.xml"])
	assert.Contains(t, slide2, "Step 1")
	assert.Contains(t, slide2, "Check the valve type first.")

	pres := string(entries["ppt/presentation.xml"])
	assert.Equal(t, 5, strings.Count(pres, "<p:sldId "))
}

func TestExportPPTXWithoutCoverImage(t *testing.T) {
	p := bicycleProject(t)
	p.CoverImage = ""
	a, err := Export(context.Background(), FormatPPTX, p)
	require.NoError(t, err)

	title := string(zipEntries(t, a.Data)["ppt/slides/slide1.xml"])
	assert.Contains(t, title, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="F2A541"/>`)
}

func TestExportZeroPages(t *testing.T) {
	p := models.NewProject(models.Draft{Title: "Empty"}, time.Now())

	for _, f := range AllFormats {
		t.Run(string(f), func(t *testing.T) {
			a, err := Export(context.Background(), f, p)
			require.NoError(t, err)
			assert.NotEmpty(t, a.Data)
			if f == FormatPPTX {
				assert.Equal(t, 1, countSlides(zipEntries(t, a.Data)))
			}
		})
	}
}

func TestExportIsRepeatableAndReadOnly(t *testing.T) {
	p := bicycleProject(t)
	before := p

	for _, f := range []Format{FormatDoc, FormatPPTX} {
		first, err := Export(context.Background(), f, p)
		require.NoError(t, err)
		_, err = Export(context.Background(), FormatPDF, p)
		require.NoError(t, err)
		second, err := Export(context.Background(), f, p)
		require.NoError(t, err)
		assert.Equal(t, first.Data, second.Data, f)
	}
	assert.Equal(t, before, p)
}

// Formats that rasterize illustrations fail on images they cannot decode
func TestExportBadImageFails(t *testing.T) {
	tests := []struct {
		name  string
		image models.Image
	}{
		{"not base64", models.Image("data:image/png;base64,!!!")},
		{"not an image", models.NewImage([]byte("hello, world"), "image/png")},
	}

	for _, tt := range tests {
		for _, f := range []Format{FormatPDF, FormatPPTX} {
			t.Run(tt.name+"/"+string(f), func(t *testing.T) {
				p := bicycleProject(t)
				p.Pages[1].GeneratedImage = tt.image
				a, err := Export(context.Background(), f, p)
				assert.ErrorIs(t, err, ErrExport)
				assert.Empty(t, a.Data)
				assert.Empty(t, a.Filename)
			})
		}
	}

	p := bicycleProject(t)
	p.CoverImage = models.NewImage([]byte("garbage"), "image/jpeg")
	for _, f := range []Format{FormatPDF, FormatPPTX} {
		_, err := Export(context.Background(), f, p)
		assert.ErrorIs(t, err, ErrExport, f)
	}
}

func TestExportDocKeepsMalformedImage(t *testing.T) {
	p := bicycleProject(t)
	p.Pages[1].GeneratedImage = models.NewImage([]byte("hello, world"), "image/png")
	p.Pages[2].GeneratedImage = models.Image("javascript:alert(1)")
	p.CoverImage = models.NewImage([]byte("garbage"), "image/jpeg")

	a, err := Export(context.Background(), FormatDoc, p)
	require.NoError(t, err)

	html := string(a.Data)
	assert.Contains(t, html, "data:image/png;base64,aGVsbG8sIHdvcmxk")
	assert.Contains(t, html, "data:image/jpeg;base64,Z2FyYmFnZQ==")
	assert.NotContains(t, html, "javascript:")
	assert.Equal(t, 4, strings.Count(html, "page-break-before"))
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(context.Background(), Format("odt"), bicycleProject(t))
	assert.ErrorIs(t, err, models.ErrInvalidValue)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PPTX ")
	require.NoError(t, err)
	assert.Equal(t, FormatPPTX, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, models.ErrInvalidValue)
}
