// Package format turns numeric form values into the display strings shared
// by the preview, the raster export and the spreadsheet export.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/bill-tools/smart-bill/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol is the glyph prefixed to amount displays.
const CurrencySymbol = "₩"

var printer = message.NewPrinter(language.Korean)

// Group renders a non-negative value with thousands separators.
// Fractional values keep two digits, whole values render as integers.
func Group(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// Currency renders an amount with the currency glyph, e.g. "₩1,234,000".
// A legitimate zero renders as "₩0".
func Currency(v float64) string {
	return CurrencySymbol + Group(v)
}

// Quantity renders a count field. Blank fields stay blank so empty preview
// rows do not show a spurious "0".
func Quantity(n domain.Number) string {
	if !n.Set {
		return ""
	}
	return Group(n.Value)
}

// Amount renders an optional amount under the same blank policy as Quantity.
func Amount(n domain.Number) string {
	if !n.Set {
		return ""
	}
	return Group(n.Value)
}

// NormalizeBizNumber applies the registration number input rule: non-digit
// characters are dropped and the result is capped at ten digits.
func NormalizeBizNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

// BizNumber renders a registration number for display. Exactly ten digits
// get the fixed XXX-XX-XXXXX grouping, any other length is shown as-is.
func BizNumber(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("%s-%s-%s", digits[:3], digits[3:5], digits[5:])
}

// Date renders an issue date as "YYYY. MM. DD", the document's date style.
func Date(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006. 01. 02")
}
