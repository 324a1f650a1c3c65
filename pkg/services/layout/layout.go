// Package layout builds the backend-agnostic layout tree for one estimate
// document. The raster, spreadsheet and print renderers all consume the same
// tree, so the three outputs cannot drift apart on structure or derived
// values.
package layout

// Align is the horizontal alignment of a cell's text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Cell is one grid cell of a laid-out table.
type Cell struct {
	Text string `json:"text"`
	// Value carries the numeric form of Text for grid backends that store
	// real numbers with a number format. Nil for non-numeric or blank cells.
	Value    *float64 `json:"value,omitempty"`
	Align    Align    `json:"align"`
	Bold     bool     `json:"bold,omitempty"`
	Fill     bool     `json:"fill,omitempty"`
	Vertical bool     `json:"vertical,omitempty"`
	ColSpan  int      `json:"colSpan,omitempty"`
	RowSpan  int      `json:"rowSpan,omitempty"`
	// StampAnchor marks the signature cell. A present stamp image overlays
	// this cell without displacing the "(인)" placeholder.
	StampAnchor bool `json:"stampAnchor,omitempty"`
}

// Row is one table row with its height in page units.
type Row struct {
	Height float64 `json:"height"`
	Cells  []Cell  `json:"cells"`
}

// Table is a bordered grid. Column widths are in page units and sum to the
// table's width.
type Table struct {
	ColWidths []float64 `json:"colWidths"`
	Rows      []Row     `json:"rows"`
}

// Width returns the total table width in page units.
func (t Table) Width() float64 {
	var w float64
	for _, c := range t.ColWidths {
		w += c
	}
	return w
}

// InfoBlock is the left-hand block under the title: issue date, addressee,
// the fixed introductory sentence and the total summary line.
type InfoBlock struct {
	DateLine   string `json:"dateLine"`
	Customer   string `json:"customer"`
	Intro      string `json:"intro"`
	TotalLabel string `json:"totalLabel"`
	TotalValue string `json:"totalValue"`
}

// RemarksBlock is the bordered box at the bottom of the page.
type RemarksBlock struct {
	Heading    string   `json:"heading"`
	FixedNotes []string `json:"fixedNotes"`
	Remark     string   `json:"remark"`
}

// Layout is the laid-out document at the fixed virtual page width.
type Layout struct {
	Title      string       `json:"title"`
	PageWidth  float64      `json:"pageWidth"`
	PageMargin float64      `json:"pageMargin"`
	Info       InfoBlock    `json:"info"`
	Supplier   Table        `json:"supplier"`
	Items      Table        `json:"items"`
	Remarks    RemarksBlock `json:"remarks"`
	// StampImage is the verbatim seal payload, nil when absent.
	StampImage []byte `json:"stampImage,omitempty"`
	// TotalAmount mirrors the document's derived total so consumers can
	// cross-check their rendered totals row against the model.
	TotalAmount float64 `json:"totalAmount"`
}

// Scale maps a caller-supplied viewport width to the preview scale factor.
// Pure function of the argument; the page itself is always laid out at
// PageWidth units.
func Scale(viewportWidth float64) float64 {
	if viewportWidth <= 0 {
		return 1
	}
	s := (viewportWidth - 32) / pageWidth
	if s >= 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}
