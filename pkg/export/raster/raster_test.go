package raster

import (
	"bytes"
	"context"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/bill-tools/smart-bill/pkg/models/domain"
	"github.com/bill-tools/smart-bill/pkg/services/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writeTestFont(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	return path
}

func testDocument() domain.Document {
	return domain.Document{
		Header: domain.Header{
			Provider:  "한빛건설",
			BizNumber: "1234567890",
			Customer:  "김철수",
		},
		Items: []domain.Item{
			{ID: "a", Name: "철근", Spec: "HD10", Count: domain.NewNumber(2), Price: domain.NewNumber(1000)},
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New(Options{FontPath: "regular.ttf"})
	assert.Equal(t, DefaultQuality, r.opts.Quality)
	assert.Equal(t, "regular.ttf", r.opts.BoldFontPath)

	r = New(Options{FontPath: "regular.ttf", BoldFontPath: "bold.ttf", Quality: 80})
	assert.Equal(t, 80, r.opts.Quality)
	assert.Equal(t, "bold.ttf", r.opts.BoldFontPath)

	// Out-of-range quality falls back rather than producing a broken encoder.
	r = New(Options{FontPath: "regular.ttf", Quality: 250})
	assert.Equal(t, DefaultQuality, r.opts.Quality)
}

func TestRender_ProducesOpaqueWhiteJPEG(t *testing.T) {
	r := New(Options{FontPath: writeTestFont(t)})

	data, err := r.Render(context.Background(), layout.Build(testDocument()))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 0)

	// The canvas is cleared to opaque white before anything is drawn.
	red, green, blue, _ := img.At(0, 0).RGBA()
	assert.Greater(t, red, uint32(0xf000))
	assert.Greater(t, green, uint32(0xf000))
	assert.Greater(t, blue, uint32(0xf000))
}

func TestRender_WithStamp(t *testing.T) {
	doc := testDocument()
	// Minimal 1x1 PNG.
	doc.Stamp = domain.Stamp{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
		0x42, 0x60, 0x82,
	}

	r := New(Options{FontPath: writeTestFont(t)})
	data, err := r.Render(context.Background(), layout.Build(doc))
	require.NoError(t, err)

	_, err = jpeg.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRender_MissingFont(t *testing.T) {
	r := New(Options{FontPath: "/nonexistent/font.ttf"})

	_, err := r.Render(context.Background(), layout.Build(domain.Document{}))
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestRender_MalformedFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	r := New(Options{FontPath: path})
	_, err := r.Render(context.Background(), layout.Build(domain.Document{}))
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Options{FontPath: "/nonexistent/font.ttf"})
	_, err := r.Render(ctx, layout.Build(domain.Document{}))
	assert.Error(t, err)
}
