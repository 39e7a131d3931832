package models

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strconv"
	"strings"

	_ "golang.org/x/image/webp"
)

// Image is an inline image encoded as a data URI (data:<mime>;base64,<payload>)
type Image string

// NewImage encodes raw bytes as an inline image
func NewImage(data []byte, mimeType string) Image {
	return Image("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func (i Image) IsZero() bool {
	return i == ""
}

// Decode returns the raw bytes and MIME type carried by the data URI
func (i Image) Decode() ([]byte, string, error) {
	s := string(i)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", fmt.Errorf("%w: image is not a data URI", ErrInvalidValue)
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: data URI has no payload", ErrInvalidValue)
	}
	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, "", fmt.Errorf("%w: unsupported data URI encoding %q", ErrInvalidValue, encoding)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode image payload: %v", ErrInvalidValue, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: image payload is empty", ErrInvalidValue)
	}
	return data, mimeType, nil
}

// Validate checks that the data URI declares an image type and carries
// bytes a decoder recognizes
func (i Image) Validate() error {
	data, mimeType, err := i.Decode()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: %q is not an image type", ErrInvalidValue, mimeType)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: image payload is not a supported image: %v", ErrInvalidValue, err)
	}
	return nil
}

// MIMEType returns the declared type without decoding the payload
func (i Image) MIMEType() string {
	s := strings.TrimPrefix(string(i), "data:")
	mimeType, _, _ := strings.Cut(s, ";")
	return mimeType
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Color is a hex-encoded RGB color in #RRGGBB form
type Color string

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c := Color(strings.ToUpper(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q is not a #RRGGBB color", ErrInvalidValue, s)
	}
	return c, nil
}

func (c Color) Valid() bool {
	return hexColor.MatchString(string(c))
}

// Hex returns the color without the leading '#', as slide decks expect
func (c Color) Hex() string {
	return strings.ToUpper(strings.TrimPrefix(string(c), "#"))
}

// RGB splits the color into its components. Invalid colors yield black.
func (c Color) RGB() (r, g, b int) {
	if !c.Valid() {
		return 0, 0, 0
	}
	v, _ := strconv.ParseUint(c.Hex(), 16, 32)
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
