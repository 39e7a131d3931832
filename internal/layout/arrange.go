package layout

import "github.com/lehigh-university-libraries/booklet/internal/models"

const (
	// share of the box given to the illustration in split layouts
	imageShare = 0.5
	// gap between text and illustration, as a share of the split dimension
	gutterShare = 0.04
)

// Regions is where a page's text and illustration go
type Regions struct {
	Text  Rect
	Image Rect
}

// Arrange splits box into text and image regions for a layout tag. Unknown
// tags fall back to the default layout. full-text gives no image region.
func Arrange(tag models.Layout, box Rect) Regions {
	if !tag.Valid() {
		tag = models.DefaultLayout
	}

	switch tag {
	case models.LayoutFullText:
		return Regions{Text: box}

	case models.LayoutImageLeft, models.LayoutImageRight:
		gap := box.W * gutterShare
		iw := (box.W - gap) * imageShare
		tw := box.W - gap - iw
		img := Rect{X: box.X, Y: box.Y, W: iw, H: box.H}
		text := Rect{X: box.X + iw + gap, Y: box.Y, W: tw, H: box.H}
		if tag == models.LayoutImageRight {
			text.X = box.X
			img.X = box.X + tw + gap
		}
		return Regions{Text: text, Image: img}

	default:
		gap := box.H * gutterShare
		ih := (box.H - gap) * imageShare
		th := box.H - gap - ih
		img := Rect{X: box.X, Y: box.Y, W: box.W, H: ih}
		text := Rect{X: box.X, Y: box.Y + ih + gap, W: box.W, H: th}
		if tag == models.LayoutImageBottom {
			text.Y = box.Y
			img.Y = box.Y + th + gap
		}
		return Regions{Text: text, Image: img}
	}
}

// Fit scales a w by h image to fit inside box, keeping its aspect ratio, and
// centers it
func Fit(box Rect, w, h int) Rect {
	if w <= 0 || h <= 0 || box.IsZero() {
		return box
	}
	scale := min(box.W/float64(w), box.H/float64(h))
	fw, fh := float64(w)*scale, float64(h)*scale
	return Rect{
		X: box.X + (box.W-fw)/2,
		Y: box.Y + (box.H-fh)/2,
		W: fw,
		H: fh,
	}
}

// Fill scales a w by h image to cover box completely, cropping the overflow
// evenly on both sides
func Fill(box Rect, w, h int) Rect {
	if w <= 0 || h <= 0 || box.IsZero() {
		return box
	}
	scale := max(box.W/float64(w), box.H/float64(h))
	fw, fh := float64(w)*scale, float64(h)*scale
	return Rect{
		X: box.X + (box.W-fw)/2,
		Y: box.Y + (box.H-fh)/2,
		W: fw,
		H: fh,
	}
}
