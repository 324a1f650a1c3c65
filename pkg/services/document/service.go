// Package document owns the in-memory estimate and every mutation the form
// boundary is allowed to make. Derived totals are recomputed on read, so the
// model can never serve a stale total.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bill-tools/smart-bill/pkg/format"
	"github.com/bill-tools/smart-bill/pkg/models/domain"
	"github.com/google/uuid"
)

// ErrItemNotFound reports a line identity that is not in the document.
var ErrItemNotFound = errors.New("item not found")

// Header field names accepted by UpdateHeader.
const (
	FieldProvider  = "provider"
	FieldBizNumber = "bizNumber"
	FieldAddress   = "address"
	FieldCategory  = "category"
	FieldSector    = "sector"
	FieldCustomer  = "customer"
	FieldDate      = "date"
	FieldRemark    = "remark"
)

// Item field names accepted by UpdateItem.
const (
	ItemFieldName  = "name"
	ItemFieldSpec  = "spec"
	ItemFieldCount = "count"
	ItemFieldPrice = "price"
)

// Service wraps one editing session's document. It is not safe for
// concurrent use; the serving layer funnels mutations through one goroutine
// or a lock of its own.
type Service struct {
	doc domain.Document
}

// New starts a session with header defaults, today's issue date and one
// blank seed line the form can type into.
func New() *Service {
	s := &Service{
		doc: domain.Document{
			Header: domain.Header{IssuedAt: domain.Today()},
		},
	}
	s.AddItem()
	return s
}

// Document returns a copy of the current state, including a copy of the
// item list so exporters never observe a mid-edit slice.
func (s *Service) Document() domain.Document {
	doc := s.doc
	doc.Items = append([]domain.Item(nil), s.doc.Items...)
	return doc
}

// Totals recomputes the derived sums from the current item list.
func (s *Service) Totals() domain.Totals {
	return s.doc.Totals()
}

// AddItem appends a blank line and returns it. Identity is a UUID, so items
// added within the same instant still get distinct IDs.
func (s *Service) AddItem() domain.Item {
	item := domain.Item{ID: uuid.New().String()}
	s.doc.Items = append(s.doc.Items, item)
	return item
}

// RemoveItem deletes a line by identity. An unknown identity is a no-op;
// the model places no minimum-count restriction.
func (s *Service) RemoveItem(id string) {
	for i, it := range s.doc.Items {
		if it.ID == id {
			s.doc.Items = append(s.doc.Items[:i], s.doc.Items[i+1:]...)
			return
		}
	}
}

// UpdateItem sets one field of one line. Numeric fields accept blank or a
// non-negative number; anything else silently degrades to blank per the
// input normalization policy. Unknown fields are rejected.
func (s *Service) UpdateItem(id, field, raw string) error {
	for i := range s.doc.Items {
		if s.doc.Items[i].ID != id {
			continue
		}
		switch field {
		case ItemFieldName:
			s.doc.Items[i].Name = raw
		case ItemFieldSpec:
			s.doc.Items[i].Spec = raw
		case ItemFieldCount:
			s.doc.Items[i].Count = domain.ParseNumber(raw)
		case ItemFieldPrice:
			s.doc.Items[i].Price = domain.ParseNumber(raw)
		default:
			return fmt.Errorf("unknown item field %q", field)
		}
		return nil
	}
	return fmt.Errorf("item %q: %w", id, ErrItemNotFound)
}

// UpdateHeader sets one header field from raw form input. The registration
// number is normalized to at most ten digits, the date must parse as
// YYYY-MM-DD; free-text fields are stored verbatim.
func (s *Service) UpdateHeader(field, raw string) error {
	switch field {
	case FieldProvider:
		s.doc.Header.Provider = raw
	case FieldBizNumber:
		s.doc.Header.BizNumber = format.NormalizeBizNumber(raw)
	case FieldAddress:
		s.doc.Header.Address = raw
	case FieldCategory:
		s.doc.Header.Category = raw
	case FieldSector:
		s.doc.Header.Sector = raw
	case FieldCustomer:
		s.doc.Header.Customer = raw
	case FieldDate:
		if strings.TrimSpace(raw) == "" {
			s.doc.Header.IssuedAt = domain.Today()
			return nil
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", raw, err)
		}
		s.doc.Header.IssuedAt = d
	case FieldRemark:
		s.doc.Header.Remark = raw
	default:
		return fmt.Errorf("unknown header field %q", field)
	}
	return nil
}

// SetStamp stores the uploaded seal payload verbatim.
func (s *Service) SetStamp(payload domain.Stamp) {
	s.doc.Stamp = payload
}

// ClearStamp removes the seal.
func (s *Service) ClearStamp() {
	s.doc.Stamp = nil
}

// Snapshot serializes the session as the single scratch-save blob
// ({header, items, stampImage}).
func (s *Service) Snapshot() ([]byte, error) {
	data, err := json.Marshal(s.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return data, nil
}

// Restore re-hydrates the session from a snapshot blob. On a malformed blob
// the current state is left untouched.
func (s *Service) Restore(data []byte) error {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}
	doc.Header.BizNumber = format.NormalizeBizNumber(doc.Header.BizNumber)
	if doc.Header.IssuedAt.IsZero() {
		// A snapshot without a date hydrates like a blank date edit.
		doc.Header.IssuedAt = domain.Today()
	}
	for i := range doc.Items {
		if doc.Items[i].ID == "" {
			doc.Items[i].ID = uuid.New().String()
		}
	}
	s.doc = doc
	return nil
}
