// Package document exposes the editing session over HTTP for the external
// form UI. One handler owns one session; mutations are serialized by a lock
// so exports always encode a consistent snapshot.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/bill-tools/smart-bill/pkg/export"
	"github.com/bill-tools/smart-bill/pkg/models/api"
	"github.com/bill-tools/smart-bill/pkg/models/domain"
	docsvc "github.com/bill-tools/smart-bill/pkg/services/document"
	"github.com/bill-tools/smart-bill/pkg/services/layout"
	"github.com/bill-tools/smart-bill/pkg/store/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	mu      sync.Mutex
	svc     *docsvc.Service
	exports *export.Manager
	store   *snapshot.Store
}

func NewHandler(svc *docsvc.Service, exports *export.Manager, store *snapshot.Store) *Handler {
	return &Handler{
		svc:     svc,
		exports: exports,
		store:   store,
	}
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	doc := h.svc.Document()
	h.mu.Unlock()
	writeJSON(w, r, doc)
}

func (h *Handler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var upd api.FieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	err := h.svc.UpdateHeader(upd.Field, upd.Value)
	doc := h.svc.Document()
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, doc.Header)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	item := h.svc.AddItem()
	h.mu.Unlock()
	writeJSON(w, r, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd api.FieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	err := h.svc.UpdateItem(id, upd.Field, upd.Value)
	h.mu.Unlock()

	if err != nil {
		// An unknown identity is "no such resource"; an unknown field is a
		// malformed request against an existing one.
		if errors.Is(err, docsvc.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Removing an unknown identity is a no-op, not an error.
	h.mu.Lock()
	h.svc.RemoveItem(id)
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetStamp(w http.ResponseWriter, r *http.Request) {
	var upload api.StampUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	h.svc.SetStamp(domain.ParseStamp(upload.Image))
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearStamp(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.svc.ClearStamp()
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	viewport := 0.0
	if raw := r.URL.Query().Get("viewport"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'viewport' value")
			return
		}
		viewport = v
	}

	h.mu.Lock()
	doc := h.svc.Document()
	h.mu.Unlock()

	tree := layout.Build(doc)
	totals := doc.Totals()
	writeJSON(w, r, api.Preview{
		Layout:        tree,
		TotalAmount:   totals.Amount,
		TotalQuantity: totals.Quantity.Float(),
		Scale:         layout.Scale(viewport),
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	kind := export.Kind(chi.URLParam(r, "kind"))
	logger := zerolog.Ctx(r.Context())

	h.mu.Lock()
	doc := h.svc.Document()
	h.mu.Unlock()

	artifact, err := h.exports.Export(r.Context(), doc, kind)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrExportInFlight):
			writeError(w, http.StatusConflict, "export already running, try again shortly")
		case errors.Is(err, export.ErrUnsupportedKind):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			// The session stays fully usable; only this download failed.
			logger.Error().Err(err).Str("kind", string(kind)).Msg("export failed")
			writeError(w, http.StatusBadGateway, "export failed, no file was produced")
		}
		return
	}

	w.Header().Set("Content-Type", artifact.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(artifact.Name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if _, err := w.Write(artifact.Data); err != nil {
		logger.Error().Err(err).Msg("failed to stream artifact")
	}
}

func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	h.mu.Lock()
	doc := h.svc.Document()
	h.mu.Unlock()

	if err := h.store.Save(doc); err != nil {
		logger.Error().Err(err).Msg("failed to save snapshot")
		writeError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Load()
	if err != nil {
		// "Nothing to load" leaves the current state untouched.
		writeError(w, http.StatusNotFound, "no saved draft")
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore draft")
		return
	}

	h.mu.Lock()
	err = h.svc.Restore(data)
	restored := h.svc.Document()
	h.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore draft")
		return
	}
	writeJSON(w, r, restored)
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Error: msg})
}
