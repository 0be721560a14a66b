package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/ledongthuc/pdf"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PDFPreview is the preview sentinel for PDF documents. No decode is needed to produce it.
const PDFPreview = "pdf-document"

// Decoder turns an image file into a preview data URI.
type Decoder interface {
	Decode(ctx context.Context, f *File) (string, error)
}

// ImageDecoder verifies the file decodes as an image and returns its data URI.
// When MaxDimension is positive, larger images are downscaled and re-encoded as PNG.
type ImageDecoder struct {
	MaxDimension int
}

// Decode implements Decoder.
func (d ImageDecoder) Decode(ctx context.Context, f *File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("decoding image header: %w", err)
	}
	if d.MaxDimension <= 0 || (cfg.Width <= d.MaxDimension && cfg.Height <= d.MaxDimension) {
		return DataURI(f.ContentType, f.Data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	thumb := image.NewRGBA(scaledBounds(cfg.Width, cfg.Height, d.MaxDimension))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	return DataURI("image/png", buf.Bytes()), nil
}

func scaledBounds(w, h, limit int) image.Rectangle {
	if w >= h {
		return image.Rect(0, 0, limit, maxInt(1, h*limit/w))
	}
	return image.Rect(0, 0, maxInt(1, w*limit/h), limit)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// DataURI encodes data as a base64 data URI.
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PDFPageCount returns the number of pages in a PDF document.
// The pdf reader panics on some malformed inputs; those are reported as errors.
func PDFPageCount(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("reading pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	return r.NumPage(), nil
}
