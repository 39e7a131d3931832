package images

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, testImage(w, h))
	case "jpeg":
		err = jpeg.Encode(&buf, testImage(w, h), nil)
	case "gif":
		err = gif.Encode(&buf, testImage(w, h), nil)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	pngData := encode(t, "png", 8, 6)
	n, err := Normalize(pngData)
	require.NoError(t, err)
	assert.Equal(t, "image/png", n.MIMEType)
	assert.Equal(t, pngData, n.Data)
	assert.Equal(t, 8, n.Width)
	assert.Equal(t, 6, n.Height)
	assert.Equal(t, "png", n.Format())

	n, err = Normalize(encode(t, "jpeg", 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", n.MIMEType)
	assert.Equal(t, "jpg", n.Format())

	n, err = Normalize(encode(t, "gif", 5, 3))
	require.NoError(t, err)
	assert.Equal(t, "image/png", n.MIMEType)
	assert.True(t, bytes.HasPrefix(n.Data, []byte("\x89PNG")))
	assert.Equal(t, 5, n.Width)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDimensions(t *testing.T) {
	w, h, err := Dimensions(encode(t, "png", 12, 7))
	require.NoError(t, err)
	assert.Equal(t, 12, w)
	assert.Equal(t, 7, h)
}

// hugeCanvas returns a tiny PNG whose header declares a w by h canvas
func hugeCanvas(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := encode(t, "png", 1, 1)
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestPixelCap(t *testing.T) {
	data := hugeCanvas(t, 60000, 60000)

	_, _, err := Dimensions(data)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Normalize(data)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Blur(data, 4)
	assert.ErrorIs(t, err, ErrUnsupported)

	w, h, err := Dimensions(hugeCanvas(t, 4000, 3000))
	require.NoError(t, err)
	assert.Equal(t, 4000, w)
	assert.Equal(t, 3000, h)
}

func TestBlur(t *testing.T) {
	out, err := Blur(encode(t, "png", 20, 10), 4)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())

	_, err = Blur([]byte("nope"), 4)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFetch(t *testing.T) {
	data := encode(t, "png", 3, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(data)
		case "/big.png":
			_, _ = w.Write(bytes.Repeat([]byte{0}, MaxSize+10))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher()

	got, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = f.Fetch(context.Background(), srv.URL+"/big.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"))
}
