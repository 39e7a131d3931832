// Package images decodes, normalizes and resamples the illustrations stored in booklets
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupported = errors.New("unsupported image data")

// MaxPixels caps width times height so a small file cannot declare a canvas
// that exhausts memory once decoded
const MaxPixels = 40_000_000

// Normalized is an image re-encoded to a format every exporter can embed
type Normalized struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Format returns the short format name used by document writers
func (n Normalized) Format() string {
	if n.MIMEType == "image/jpeg" {
		return "jpg"
	}
	return "png"
}

// Normalize decodes data and returns it as PNG or JPEG. PNG and JPEG input is
// kept byte for byte; everything else is re-encoded to PNG.
func Normalize(data []byte) (Normalized, error) {
	cfg, format, err := decodeConfig(data)
	if err != nil {
		return Normalized{}, err
	}

	switch format {
	case "png":
		return Normalized{Data: data, MIMEType: "image/png", Width: cfg.Width, Height: cfg.Height}, nil
	case "jpeg":
		return Normalized{Data: data, MIMEType: "image/jpeg", Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Normalized{}, fmt.Errorf("failed to encode %s as png: %w", format, err)
	}
	return Normalized{Data: buf.Bytes(), MIMEType: "image/png", Width: cfg.Width, Height: cfg.Height}, nil
}

// Dimensions reports the pixel size of data without decoding the pixels
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := decodeConfig(data)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func decodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupported, cfg.Width, cfg.Height, MaxPixels)
	}
	return cfg, format, nil
}

// Blur softens an image by shrinking it by factor and scaling it back up.
// The result is a JPEG.
func Blur(data []byte, factor int) ([]byte, error) {
	if _, _, err := Dimensions(data); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	if factor < 2 {
		factor = 2
	}

	b := src.Bounds()
	sw, sh := max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)

	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), src, b, draw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	// JPEG has no alpha, so transparent areas become white
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(out, out.Bounds(), small, small.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode blurred image: %w", err)
	}
	return buf.Bytes(), nil
}
