// Package export coordinates the document's download targets. It owns
// artifact naming, the per-target in-flight guard and the post-export
// observer hook; the actual rendering lives in the per-target subpackages.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bill-tools/smart-bill/pkg/models/domain"
	"github.com/bill-tools/smart-bill/pkg/services/layout"
)

// Kind identifies one export target.
type Kind string

const (
	KindRaster Kind = "jpg"
	KindSheet  Kind = "xlsx"
	KindPrint  Kind = "pdf"
)

// ErrExportInFlight is returned when an export of the same kind is already
// running. Duplicate triggers are ignored rather than queued, so one click
// yields one download.
var ErrExportInFlight = errors.New("export already in flight")

// ErrUnsupportedKind is returned for a kind with no registered renderer.
var ErrUnsupportedKind = errors.New("unsupported export kind")

// artifactTitle is the document-name prefix of every export filename.
const artifactTitle = "견적서"

// unspecifiedCustomer substitutes a blank customer name in filenames.
const unspecifiedCustomer = "미지정"

// Artifact is one finished download.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// Renderer turns a laid-out document into one artifact's bytes.
type Renderer interface {
	Render(ctx context.Context, l *layout.Layout) ([]byte, error)
}

// Observer is notified after a successful export. It never gates the
// export's completion; failures inside the observer are the observer's
// problem.
type Observer func(kind Kind, name string)

// Filename derives "<title>_<customer>.<ext>" with the fixed placeholder
// for a blank customer name.
func Filename(customer string, kind Kind) string {
	c := strings.TrimSpace(customer)
	if c == "" {
		c = unspecifiedCustomer
	}
	return fmt.Sprintf("%s_%s.%s", artifactTitle, c, kind)
}

func mimeFor(kind Kind) string {
	switch kind {
	case KindRaster:
		return "image/jpeg"
	case KindSheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case KindPrint:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Manager fans a document out to the registered renderers. Each kind runs at
// most one export at a time; the document is snapshotted and laid out before
// encoding starts, so a renderer never observes a half-edited model.
type Manager struct {
	mu        sync.Mutex
	inFlight  map[Kind]bool
	renderers map[Kind]Renderer
	observer  Observer
}

// NewManager creates a manager with the given renderer per kind.
func NewManager(renderers map[Kind]Renderer) *Manager {
	return &Manager{
		inFlight:  make(map[Kind]bool),
		renderers: renderers,
	}
}

// SetObserver installs the post-export hook.
func (m *Manager) SetObserver(obs Observer) {
	m.observer = obs
}

// Export lays out the given document state and renders it to the requested
// kind. A concurrent request for the same kind gets ErrExportInFlight; a
// renderer failure yields no artifact at all.
func (m *Manager) Export(ctx context.Context, doc domain.Document, kind Kind) (Artifact, error) {
	renderer, ok := m.renderers[kind]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	m.mu.Lock()
	if m.inFlight[kind] {
		m.mu.Unlock()
		return Artifact{}, ErrExportInFlight
	}
	m.inFlight[kind] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight[kind] = false
		m.mu.Unlock()
	}()

	tree := layout.Build(doc)
	data, err := renderer.Render(ctx, tree)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render %s export: %w", kind, err)
	}

	artifact := Artifact{
		Name: Filename(doc.Header.Customer, kind),
		MIME: mimeFor(kind),
		Data: data,
	}

	if m.observer != nil {
		m.observer(kind, artifact.Name)
	}

	return artifact, nil
}
