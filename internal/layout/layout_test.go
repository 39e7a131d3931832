package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

func sampleProject() models.Project {
	p := models.NewProject(models.Draft{
		Title:    "Fixing a Flat",
		Subtitle: "Four steps",
		Topic:    "Fix a bicycle flat",
		Pages: []models.DraftPage{
			{Title: "What you need", Content: "Levers and a pump.", MascotTip: "Check the valve.", Layout: models.LayoutImageLeft},
			{Title: "Remove the wheel", Content: "Open the quick release.", Layout: models.LayoutImageTop},
		},
	}, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	p.Pages[1].GeneratedImage = models.NewImage([]byte("png"), "image/png")
	return p
}

func TestBuild(t *testing.T) {
	p := sampleProject()
	doc := Build(p)

	assert.Equal(t, "Fixing a Flat", doc.Cover.Title)
	assert.Equal(t, "Four steps", doc.Cover.Subtitle)
	assert.True(t, doc.Cover.Image.IsZero())
	assert.Equal(t, p.PrimaryColor, doc.Primary)
	require.Len(t, doc.Pages, 2)

	first := doc.Pages[0]
	assert.Equal(t, 1, first.Number)
	kinds := []BlockKind{}
	for _, b := range first.Blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []BlockKind{BlockLabel, BlockTitle, BlockBody, BlockCallout}, kinds)
	label, _ := first.Block(BlockLabel)
	assert.Equal(t, "Step 1", label.Text)
	assert.False(t, first.HasIllustration())

	second := doc.Pages[1]
	_, hasTip := second.Block(BlockCallout)
	assert.False(t, hasTip)
	assert.True(t, second.HasIllustration())
}

func TestBuildEmptyProject(t *testing.T) {
	p := models.NewProject(models.Draft{Topic: "Nothing yet"}, time.Now())
	doc := Build(p)
	assert.Empty(t, doc.Pages)
	assert.Equal(t, "Nothing yet", doc.Cover.Title)
}

func TestArrange(t *testing.T) {
	box := Rect{X: 10, Y: 20, W: 104, H: 52}

	tests := []struct {
		layout models.Layout
		check  func(t *testing.T, r Regions)
	}{
		{models.LayoutImageLeft, func(t *testing.T, r Regions) {
			assert.Less(t, r.Image.X, r.Text.X)
			assert.Equal(t, box.H, r.Image.H)
		}},
		{models.LayoutImageRight, func(t *testing.T, r Regions) {
			assert.Less(t, r.Text.X, r.Image.X)
			assert.Equal(t, box.X, r.Text.X)
		}},
		{models.LayoutImageTop, func(t *testing.T, r Regions) {
			assert.Less(t, r.Image.Y, r.Text.Y)
			assert.Equal(t, box.W, r.Image.W)
		}},
		{models.LayoutImageBottom, func(t *testing.T, r Regions) {
			assert.Less(t, r.Text.Y, r.Image.Y)
		}},
		{models.LayoutFullText, func(t *testing.T, r Regions) {
			assert.Equal(t, box, r.Text)
			assert.True(t, r.Image.IsZero())
		}},
		{"unknown", func(t *testing.T, r Regions) {
			assert.Equal(t, Arrange(models.DefaultLayout, box), r)
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.layout), func(t *testing.T) {
			r := Arrange(tt.layout, box)
			tt.check(t, r)
			if !r.Image.IsZero() {
				// regions stay inside the box and do not overlap
				assert.GreaterOrEqual(t, r.Text.X, box.X)
				assert.LessOrEqual(t, r.Text.X+r.Text.W, box.X+box.W+1e-9)
				assert.LessOrEqual(t, r.Image.Y+r.Image.H, box.Y+box.H+1e-9)
				overlapX := r.Text.X < r.Image.X+r.Image.W && r.Image.X < r.Text.X+r.Text.W
				overlapY := r.Text.Y < r.Image.Y+r.Image.H && r.Image.Y < r.Text.Y+r.Text.H
				assert.False(t, overlapX && overlapY)
			}
		})
	}
}

func TestPageRegionsWithoutImage(t *testing.T) {
	box := Rect{W: 100, H: 50}
	page := Page{Layout: models.LayoutImageLeft}
	assert.Equal(t, Regions{Text: box}, page.Regions(box))
}

func TestFitAndFill(t *testing.T) {
	box := Rect{X: 0, Y: 0, W: 100, H: 50}

	fit := Fit(box, 200, 200)
	assert.Equal(t, Rect{X: 25, Y: 0, W: 50, H: 50}, fit)

	fill := Fill(box, 200, 200)
	assert.Equal(t, Rect{X: 0, Y: -25, W: 100, H: 100}, fill)

	assert.Equal(t, box, Fit(box, 0, 10))
}
