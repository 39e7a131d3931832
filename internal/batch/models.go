package batch

import (
	"strings"

	"github.com/lehigh-university-libraries/booklet/internal/generation"
	"github.com/lehigh-university-libraries/booklet/internal/models"
)

// DefaultPageCount is used for rows that leave page_count empty
const DefaultPageCount = 6

// TopicRecord is one row of a topics dataset
type TopicRecord struct {
	Topic      string `json:"topic" parquet:"topic"`
	Context    string `json:"context" parquet:"context,optional"`
	Genre      string `json:"genre" parquet:"genre,optional"`
	ImageStyle string `json:"image_style" parquet:"image_style,optional"`
	PageCount  int    `json:"page_count" parquet:"page_count,optional"`
}

// Request turns the row into a generation request. Empty columns fall back
// to a technical manual in line art.
func (r TopicRecord) Request() generation.Request {
	req := generation.Request{
		Topic:      strings.TrimSpace(r.Topic),
		Context:    strings.TrimSpace(r.Context),
		Genre:      models.Genre(strings.TrimSpace(r.Genre)),
		ImageStyle: models.ImageStyle(strings.TrimSpace(r.ImageStyle)),
		PageCount:  r.PageCount,
	}
	if req.Genre == "" {
		req.Genre = models.GenreTechnicalManual
	}
	if req.ImageStyle == "" {
		req.ImageStyle = models.StyleLineArt
	}
	if req.PageCount == 0 {
		req.PageCount = DefaultPageCount
	}
	return req
}

// Label is a short name for logs and reports
func (r TopicRecord) Label() string {
	if t := strings.TrimSpace(r.Topic); t != "" {
		return t
	}
	line, _, _ := strings.Cut(strings.TrimSpace(r.Context), "\n")
	return line
}
