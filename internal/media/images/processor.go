// Package images derives display assets from uploaded photos: a JPEG
// thumbnail for gallery grids and a BlurHash placeholder shown while
// the full image loads.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// thumbnailSize is the maximum dimension of generated thumbnails.
const thumbnailSize = 480

// thumbnailQuality is the JPEG quality for thumbnails. Grids show them
// small, so aggressive compression is fine.
const thumbnailQuality = 80

// Result holds the derived assets for one uploaded image.
type Result struct {
	BlurHash  string
	Thumbnail []byte
	Width     int
	Height    int
}

// Processor turns uploaded image bytes into thumbnails and BlurHash
// placeholders.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Process decodes an uploaded image and derives its display assets.
// Supports JPEG, PNG, GIF, and WebP.
func (p *Processor) Process(data []byte) (*Result, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()

	hash, err := ComputeBlurHash(img)
	if err != nil {
		return nil, fmt.Errorf("compute blurhash: %w", err)
	}

	thumb, err := p.encodeThumbnail(img)
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	p.logger.Debug("processed image",
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"thumbnail_bytes", len(thumb),
	)

	return &Result{
		BlurHash:  hash,
		Thumbnail: thumb,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

// encodeThumbnail downscales the image to fit thumbnailSize and encodes
// it as JPEG. Images already small enough are re-encoded as-is.
func (p *Processor) encodeThumbnail(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth > thumbnailSize || srcHeight > thumbnailSize {
		dstWidth, dstHeight := fitWithin(srcWidth, srcHeight, thumbnailSize)
		dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// fitWithin scales (w, h) to fit inside a max-by-max square, preserving
// aspect ratio. Never returns a dimension below 1.
func fitWithin(w, h, max int) (int, int) {
	if w > h {
		scaled := (h * max) / w
		if scaled < 1 {
			scaled = 1
		}
		return max, scaled
	}

	scaled := (w * max) / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, max
}
