package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ProjectEdit replaces one project-level field. Each variant names the field it writes.
type ProjectEdit interface {
	applyProject(p *Project) error
}

type (
	SetTitle            string
	SetSubtitle         string
	SetTopic            string
	SetGenre            Genre
	SetImageStyle       ImageStyle
	SetPrimaryColor     string
	SetSecondaryColor   string
	SetCoverImage       Image
	SetCoverImagePrompt string
	SetVisualIdentity   string
)

func (v SetTitle) applyProject(p *Project) error    { p.Title = string(v); return nil }
func (v SetSubtitle) applyProject(p *Project) error { p.Subtitle = string(v); return nil }
func (v SetTopic) applyProject(p *Project) error    { p.Topic = string(v); return nil }

func (v SetGenre) applyProject(p *Project) error {
	if !Genre(v).Valid() {
		return fmt.Errorf("%w: unknown genre %q", ErrInvalidValue, string(v))
	}
	p.Genre = Genre(v)
	return nil
}

func (v SetImageStyle) applyProject(p *Project) error {
	if !ImageStyle(v).Valid() {
		return fmt.Errorf("%w: unknown image style %q", ErrInvalidValue, string(v))
	}
	p.ImageStyle = ImageStyle(v)
	return nil
}

func (v SetPrimaryColor) applyProject(p *Project) error {
	c, err := ParseColor(string(v))
	if err != nil {
		return err
	}
	p.PrimaryColor = c
	return nil
}

func (v SetSecondaryColor) applyProject(p *Project) error {
	c, err := ParseColor(string(v))
	if err != nil {
		return err
	}
	p.SecondaryColor = c
	return nil
}

func (v SetCoverImage) applyProject(p *Project) error {
	if !Image(v).IsZero() {
		if err := Image(v).Validate(); err != nil {
			return err
		}
	}
	p.CoverImage = Image(v)
	return nil
}

func (v SetCoverImagePrompt) applyProject(p *Project) error {
	p.CoverImagePrompt = string(v)
	return nil
}

func (v SetVisualIdentity) applyProject(p *Project) error {
	p.VisualIdentity = string(v)
	return nil
}

// PageEdit replaces one field of a single page
type PageEdit interface {
	applyPage(pg *Page) error
}

type (
	SetPageTitle       string
	SetPageContent     string
	SetPageImagePrompt string
	SetPageImage       Image
	SetPageLayout      Layout
	SetPageMascotTip   string
)

func (v SetPageTitle) applyPage(pg *Page) error       { pg.Title = string(v); return nil }
func (v SetPageContent) applyPage(pg *Page) error     { pg.Content = string(v); return nil }
func (v SetPageImagePrompt) applyPage(pg *Page) error { pg.ImagePrompt = string(v); return nil }
func (v SetPageMascotTip) applyPage(pg *Page) error   { pg.MascotTip = string(v); return nil }

func (v SetPageImage) applyPage(pg *Page) error {
	if !Image(v).IsZero() {
		if err := Image(v).Validate(); err != nil {
			return err
		}
	}
	pg.GeneratedImage = Image(v)
	return nil
}

func (v SetPageLayout) applyPage(pg *Page) error {
	if !Layout(v).Valid() {
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidValue, string(v))
	}
	pg.Layout = Layout(v)
	return nil
}

// Apply returns a copy of p with the edit applied. The receiver is left untouched.
func (p Project) Apply(e ProjectEdit) (Project, error) {
	next := p
	if err := e.applyProject(&next); err != nil {
		return p, err
	}
	return next, nil
}

// ApplyPage returns a copy of p with the edit applied to the page at index.
// The page slice is copied; every other page keeps its value.
func (p Project) ApplyPage(index int, e PageEdit) (Project, error) {
	page, err := p.Page(index)
	if err != nil {
		return p, err
	}
	if err := e.applyPage(&page); err != nil {
		return p, err
	}
	next := p
	next.Pages = slices.Clone(p.Pages)
	next.Pages[index] = page
	return next, nil
}

// AddPage appends an empty page numbered after the last one
func (p Project) AddPage() Project {
	next := p
	next.Pages = append(slices.Clone(p.Pages), Page{
		ID:         uuid.NewString(),
		PageNumber: len(p.Pages) + 1,
		Title:      fmt.Sprintf("Step %d", len(p.Pages)+1),
		Layout:     DefaultLayout,
	})
	next.TotalPages = len(next.Pages)
	return next
}

// RemovePage drops the page at index and renumbers the pages after it
func (p Project) RemovePage(index int) (Project, error) {
	if _, err := p.Page(index); err != nil {
		return p, err
	}
	next := p
	next.Pages = slices.Delete(slices.Clone(p.Pages), index, index+1)
	renumber(next.Pages)
	next.TotalPages = len(next.Pages)
	return next, nil
}

// MovePage moves the page at from to position to, renumbering every page
func (p Project) MovePage(from, to int) (Project, error) {
	page, err := p.Page(from)
	if err != nil {
		return p, err
	}
	if _, err := p.Page(to); err != nil {
		return p, err
	}
	next := p
	pages := slices.Delete(slices.Clone(p.Pages), from, from+1)
	next.Pages = slices.Insert(pages, to, page)
	renumber(next.Pages)
	return next, nil
}

func renumber(pages []Page) {
	for i := range pages {
		pages[i].PageNumber = i + 1
	}
}

// ParseProjectEdit decodes a {field, value} pair as sent by the editor
func ParseProjectEdit(field string, raw json.RawMessage) (ProjectEdit, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: value for %q must be a string", ErrInvalidValue, field)
	}
	switch field {
	case "title":
		return SetTitle(v), nil
	case "subtitle":
		return SetSubtitle(v), nil
	case "topic":
		return SetTopic(v), nil
	case "genre":
		return SetGenre(v), nil
	case "imageStyle":
		return SetImageStyle(v), nil
	case "primaryColor":
		return SetPrimaryColor(v), nil
	case "secondaryColor":
		return SetSecondaryColor(v), nil
	case "coverImage":
		return SetCoverImage(v), nil
	case "coverImagePrompt":
		return SetCoverImagePrompt(v), nil
	case "visualIdentity":
		return SetVisualIdentity(v), nil
	default:
		return nil, fmt.Errorf("%w: project field %q is not editable", ErrInvalidValue, field)
	}
}

// ParsePageEdit is the page-scoped counterpart of ParseProjectEdit
func ParsePageEdit(field string, raw json.RawMessage) (PageEdit, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: value for %q must be a string", ErrInvalidValue, field)
	}
	switch field {
	case "title":
		return SetPageTitle(v), nil
	case "content":
		return SetPageContent(v), nil
	case "imagePrompt":
		return SetPageImagePrompt(v), nil
	case "generatedImage":
		return SetPageImage(v), nil
	case "layout":
		l, err := ParseLayout(v)
		if err != nil {
			return nil, err
		}
		return SetPageLayout(l), nil
	case "mascotTip":
		return SetPageMascotTip(v), nil
	default:
		return nil, fmt.Errorf("%w: page field %q is not editable", ErrInvalidValue, field)
	}
}
