package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestImage renders a simple gradient so BlurHash has something
// to work with.
func encodeTestImage(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func encodePNG(buf *bytes.Buffer, img image.Image) error {
	return png.Encode(buf, img)
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return jpeg.Encode(buf, img, nil)
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(slog.New(slog.DiscardHandler))

	data := encodeTestImage(t, 1200, 800, encodePNG)

	result, err := p.Process(data)
	require.NoError(t, err)

	assert.Equal(t, 1200, result.Width)
	assert.Equal(t, 800, result.Height)
	assert.NotEmpty(t, result.BlurHash)

	thumb, format, err := image.Decode(bytes.NewReader(result.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 480, thumb.Bounds().Dx())
	assert.Equal(t, 320, thumb.Bounds().Dy())
}

func TestProcessor_SmallImageKeptAsIs(t *testing.T) {
	p := NewProcessor(slog.New(slog.DiscardHandler))

	data := encodeTestImage(t, 100, 60, encodeJPEG)

	result, err := p.Process(data)
	require.NoError(t, err)

	thumb, _, err := image.Decode(bytes.NewReader(result.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Bounds().Dx())
	assert.Equal(t, 60, thumb.Bounds().Dy())
}

func TestProcessor_RejectsGarbage(t *testing.T) {
	p := NewProcessor(slog.New(slog.DiscardHandler))

	_, err := p.Process([]byte("this is not an image"))
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"landscape", 1200, 800, 480, 480, 320},
		{"portrait", 800, 1200, 480, 320, 480},
		{"square", 1000, 1000, 480, 480, 480},
		{"extreme aspect stays positive", 10000, 10, 64, 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}
