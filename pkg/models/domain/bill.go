package domain

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Number models a "value or blank" numeric form field. A blank field is not
// the same as an explicit zero: blank cells render empty while a computed
// zero renders as "0".
type Number struct {
	Set   bool
	Value float64
}

func NewNumber(v float64) Number {
	return Number{Set: true, Value: v}
}

// Float returns the canonical computation value: blank counts as zero.
func (n Number) Float() float64 {
	if !n.Set {
		return 0
	}
	return n.Value
}

// ParseNumber coerces raw form input. Blank input stays blank, negative or
// malformed input also degrades to blank rather than failing.
func ParseNumber(raw string) Number {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return Number{}
	}
	return Number{Set: true, Value: v}
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = Number{}
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || v < 0 {
		*n = Number{}
		return nil
	}
	*n = Number{Set: true, Value: v}
	return nil
}

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD, the shape the form and
// the scratch snapshot exchange.
type Date struct {
	time.Time
}

func Today() Date {
	y, m, d := time.Now().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Header holds the master fields of one estimate document.
type Header struct {
	Provider  string `json:"provider"`
	BizNumber string `json:"bizNumber"`
	Address   string `json:"address"`
	Category  string `json:"category"`
	Sector    string `json:"sector"`
	Customer  string `json:"customer"`
	IssuedAt  Date   `json:"date"`
	Remark    string `json:"remark"`
}

// Item is one line of the estimate. ID is a UUID assigned by the document
// service and stays stable for the lifetime of the editing session.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Spec  string `json:"spec"`
	Count Number `json:"count"`
	Price Number `json:"price"`
}

// Amount is the derived line total. A blank count or price contributes zero.
func (it Item) Amount() float64 {
	return it.Count.Float() * it.Price.Float()
}

// Priced reports whether the line carries a displayable amount. Lines with a
// blank factor render an empty amount cell instead of "0".
func (it Item) Priced() bool {
	return it.Count.Set && it.Price.Set
}

// Stamp is the uploaded seal graphic, stored verbatim. JSON accepts either a
// browser-style data URL or plain base64 and marshals back to base64.
type Stamp []byte

func (s Stamp) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(s))
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil
	}
	*s = ParseStamp(raw)
	return nil
}

// ParseStamp decodes a seal payload from a data URL or bare base64 string.
// Undecodable input yields an absent stamp.
func ParseStamp(raw string) Stamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if idx := strings.Index(raw, "base64,"); idx >= 0 {
		raw = raw[idx+len("base64,"):]
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	return decoded
}

// Totals are derived from the item list on every read and never stored.
type Totals struct {
	Amount   float64
	Quantity Number
}

// Document is the canonical in-memory estimate. Its JSON form doubles as the
// scratch snapshot blob ({header, items, stampImage}).
type Document struct {
	Header Header `json:"header"`
	Items  []Item `json:"items"`
	Stamp  Stamp  `json:"stampImage"`
}

// Totals sums quantity and amount across all items, treating blank factors
// as zero. Quantity stays blank until at least one line has a quantity.
func (d Document) Totals() Totals {
	t := Totals{}
	for _, it := range d.Items {
		t.Amount += it.Amount()
		if it.Count.Set {
			t.Quantity.Set = true
			t.Quantity.Value += it.Count.Value
		}
	}
	return t
}
