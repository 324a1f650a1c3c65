// Package api holds the wire shapes of the form-boundary HTTP surface.
package api

import "github.com/bill-tools/smart-bill/pkg/services/layout"

// FieldUpdate is one raw form-field edit. Values arrive as strings; the
// document service applies typing and normalization.
type FieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// StampUpload carries the seal payload as the file picker produced it,
// typically a base64 data URL.
type StampUpload struct {
	Image string `json:"image"`
}

// Preview bundles the laid-out tree with the derived totals and the scale
// factor for the caller's viewport.
type Preview struct {
	Layout        *layout.Layout `json:"layout"`
	TotalAmount   float64        `json:"totalAmount"`
	TotalQuantity float64        `json:"totalQuantity"`
	Scale         float64        `json:"scale"`
}

// Error is the uniform error body.
type Error struct {
	Error string `json:"error"`
}
