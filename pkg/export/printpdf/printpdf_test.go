package printpdf

import (
	"bytes"
	"context"
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

// Fonts are configured by absolute path; the renderer must not resolve them
// against gofpdf's font directory.
func TestRender_AbsoluteFontPath(t *testing.T) {
	path := writeTestFont(t)
	require.True(t, filepath.IsAbs(path))

	r := New(Options{FontPath: path})
	data, err := r.Render(context.Background(), layout.Build(testDocument()))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "not a pdf: %.8s", data)
}

func TestRender_MissingFont(t *testing.T) {
	r := New(Options{FontPath: "/nonexistent/font.ttf"})

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
