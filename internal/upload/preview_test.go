package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, uri string) (string, []byte) {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:"))
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ";base64,")
	require.True(t, ok)
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	return meta, raw
}

func TestImageDecoder_PassThrough(t *testing.T) {
	data := pngBytes(t, 20, 10)
	f := &File{Name: "a.png", ContentType: "image/png", Size: int64(len(data)), Data: data}

	uri, err := ImageDecoder{MaxDimension: 64}.Decode(context.Background(), f)
	require.NoError(t, err)

	ct, raw := decodeDataURI(t, uri)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, data, raw)
}

func TestImageDecoder_Downscales(t *testing.T) {
	data := pngBytes(t, 64, 32)
	f := &File{Name: "a.png", ContentType: "image/png", Size: int64(len(data)), Data: data}

	uri, err := ImageDecoder{MaxDimension: 16}.Decode(context.Background(), f)
	require.NoError(t, err)

	_, raw := decodeDataURI(t, uri)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestImageDecoder_Invalid(t *testing.T) {
	f := &File{Name: "a.png", ContentType: "image/png", Size: 3, Data: []byte("bad")}
	_, err := ImageDecoder{}.Decode(context.Background(), f)
	assert.Error(t, err)
}

func TestImageDecoder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ImageDecoder{}.Decode(ctx, &File{Data: pngBytes(t, 2, 2)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScaledBounds(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 100, 50), scaledBounds(400, 200, 100))
	assert.Equal(t, image.Rect(0, 0, 25, 100), scaledBounds(100, 400, 100))
	assert.Equal(t, image.Rect(0, 0, 100, 1), scaledBounds(10000, 1, 100))
}

// minimalPDF builds a PDF with a valid cross-reference table and the given number of empty pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestPDFPageCount(t *testing.T) {
	n, err := PDFPageCount(minimalPDF(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPDFPageCount_Malformed(t *testing.T) {
	_, err := PDFPageCount([]byte("%PDF-1.4 not really"))
	assert.Error(t, err)
}
