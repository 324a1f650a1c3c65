package layout

import (
	"fmt"

	"github.com/bill-tools/smart-bill/pkg/format"
	"github.com/bill-tools/smart-bill/pkg/models/domain"
)

// Fixed page geometry, in page units. The canonical page is 800 units wide
// with a 56-unit margin; print and preview scale the whole page, never
// individual blocks.
const (
	pageWidth  = 800.0
	pageMargin = 56.0

	// MinItemRows is the minimum visual row count of the item table. Short
	// documents are padded with blank rows up to this count, longer ones are
	// never truncated.
	MinItemRows = 10

	itemRowHeight   = 40.0
	totalsRowHeight = 44.0
)

// Document title and the fixed phrases of the canonical layout.
const (
	Title           = "견 적 서"
	honorific       = "귀하"
	introSentence   = "아래와 같이 견적합니다."
	totalLabel      = "합계금액:"
	supplierLabel   = "공급자"
	sealPlaceholder = "(인)"
	totalsLabel     = "합 계 (TOTAL)"
	remarksHeading  = "※ 비고 및 특약사항"
	remarkPrefix    = "• 추가사항: "
	remarkEmpty     = "- 추가 특이사항 없음"
)

var fixedRemarkNotes = []string{
	"• 이 견적서는 검인받지 않고 사용할 수 있음.",
	"• 공사 절충 합의 견적",
	"• 공사 착수금 : 30% / 공사 중도금 : 50% / 공사 잔금 : 20%",
	"• 부가세 별도 첨부",
}

// Item table columns: NO, name+spec, quantity, unit price, amount.
var itemColWidths = []float64{40, 352, 56, 112, 128}

// Supplier table columns: vertical label, field label, value, second field
// label, second value.
var supplierColWidths = []float64{28, 64, 148, 40, 120}

// Build lays out a document into the shared tree. Derived values are taken
// from the document model, so every renderer of the same tree reports the
// same totals.
func Build(doc domain.Document) *Layout {
	totals := doc.Totals()

	return &Layout{
		Title:       Title,
		PageWidth:   pageWidth,
		PageMargin:  pageMargin,
		Info:        buildInfo(doc.Header, totals),
		Supplier:    buildSupplier(doc.Header),
		Items:       buildItems(doc.Items, totals),
		Remarks:     buildRemarks(doc.Header.Remark),
		StampImage:  doc.Stamp,
		TotalAmount: totals.Amount,
	}
}

func buildInfo(h domain.Header, totals domain.Totals) InfoBlock {
	customer := h.Customer
	if customer != "" {
		customer += " "
	}
	return InfoBlock{
		DateLine:   "일자: " + format.Date(h.IssuedAt),
		Customer:   customer + honorific,
		Intro:      introSentence,
		TotalLabel: totalLabel,
		TotalValue: format.Currency(totals.Amount),
	}
}

func buildSupplier(h domain.Header) Table {
	return Table{
		ColWidths: supplierColWidths,
		Rows: []Row{
			{
				Height: 48,
				Cells: []Cell{
					{Text: supplierLabel, Align: AlignCenter, Bold: true, Fill: true, Vertical: true, RowSpan: 4},
					{Text: "사업자등록번호", Align: AlignCenter, Bold: true, Fill: true},
					{Text: format.BizNumber(h.BizNumber), Align: AlignLeft, Bold: true, ColSpan: 3},
				},
			},
			{
				Height: 56,
				Cells: []Cell{
					{Text: "상호", Align: AlignCenter, Bold: true, Fill: true},
					{Text: h.Provider, Align: AlignLeft, Bold: true},
					{Text: "성명", Align: AlignCenter, Bold: true, Fill: true},
					{Text: sealPlaceholder, Align: AlignRight, StampAnchor: true},
				},
			},
			{
				Height: 48,
				Cells: []Cell{
					{Text: "주소", Align: AlignCenter, Bold: true, Fill: true},
					{Text: h.Address, Align: AlignLeft, ColSpan: 3},
				},
			},
			{
				Height: 48,
				Cells: []Cell{
					{Text: "업태", Align: AlignCenter, Bold: true, Fill: true},
					{Text: h.Category, Align: AlignCenter},
					{Text: "종목", Align: AlignCenter, Bold: true, Fill: true},
					{Text: h.Sector, Align: AlignCenter},
				},
			},
		},
	}
}

func buildItems(items []domain.Item, totals domain.Totals) Table {
	rows := make([]Row, 0, len(items)+MinItemRows+2)

	rows = append(rows, Row{
		Height: itemRowHeight,
		Cells: []Cell{
			{Text: "NO", Align: AlignCenter, Bold: true, Fill: true},
			{Text: "품 명 / 규 격", Align: AlignCenter, Bold: true, Fill: true},
			{Text: "수 량", Align: AlignCenter, Bold: true, Fill: true},
			{Text: "단 가", Align: AlignCenter, Bold: true, Fill: true},
			{Text: "금 액", Align: AlignCenter, Bold: true, Fill: true},
		},
	})

	for i, it := range items {
		amount := domain.Number{}
		if it.Priced() {
			amount = domain.NewNumber(it.Amount())
		}
		rows = append(rows, Row{
			Height: itemRowHeight,
			Cells: []Cell{
				{Text: fmt.Sprintf("%d", i+1), Align: AlignCenter},
				{Text: ItemDisplayName(it.Name, it.Spec), Align: AlignLeft, Bold: true},
				{Text: format.Quantity(it.Count), Value: numPtr(it.Count), Align: AlignCenter},
				{Text: format.Amount(it.Price), Value: numPtr(it.Price), Align: AlignRight},
				{Text: format.Amount(amount), Value: numPtr(amount), Align: AlignRight, Bold: true},
			},
		})
	}

	for i := 0; i < PaddingRows(len(items)); i++ {
		rows = append(rows, Row{
			Height: itemRowHeight,
			Cells:  []Cell{{ColSpan: len(itemColWidths)}},
		})
	}

	rows = append(rows, Row{
		Height: totalsRowHeight,
		Cells: []Cell{
			{Text: totalsLabel, Align: AlignCenter, Bold: true, Fill: true, ColSpan: 2},
			{Text: format.Quantity(totals.Quantity), Value: numPtr(totals.Quantity), Align: AlignCenter, Bold: true, Fill: true},
			{Fill: true},
			{Text: format.Currency(totals.Amount), Value: &totals.Amount, Align: AlignRight, Bold: true, Fill: true},
		},
	})

	return Table{ColWidths: itemColWidths, Rows: rows}
}

func buildRemarks(remark string) RemarksBlock {
	line := remarkEmpty
	if remark != "" {
		line = remarkPrefix + remark
	}
	return RemarksBlock{
		Heading:    remarksHeading,
		FixedNotes: fixedRemarkNotes,
		Remark:     line,
	}
}

func numPtr(n domain.Number) *float64 {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

// PaddingRows returns the number of blank rows appended below the real item
// rows: exactly max(0, MinItemRows-count). Real rows are never truncated.
func PaddingRows(itemCount int) int {
	if itemCount >= MinItemRows {
		return 0
	}
	return MinItemRows - itemCount
}

// ItemDisplayName joins the item name with its specification, appending the
// spec in parentheses only when it is non-empty.
func ItemDisplayName(name, spec string) string {
	if spec == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, spec)
}
