package layout

import (
	"fmt"
	"testing"

	"github.com/bill-tools/smart-bill/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() domain.Document {
	return domain.Document{
		Header: domain.Header{
			Provider:  "한빛건설",
			BizNumber: "1234567890",
			Address:   "서울시 강남구",
			Category:  "건설업",
			Sector:    "종합건설",
			Customer:  "김철수",
		},
		Items: []domain.Item{
			{ID: "a", Name: "철근", Spec: "HD10", Count: domain.NewNumber(2), Price: domain.NewNumber(1000)},
			{ID: "b", Name: "시멘트", Count: domain.NewNumber(3), Price: domain.NewNumber(500)},
		},
	}
}

func TestBuild_TitleAndInfo(t *testing.T) {
	l := Build(testDocument())

	assert.Equal(t, "견 적 서", l.Title)
	assert.Equal(t, 800.0, l.PageWidth)
	assert.Equal(t, 56.0, l.PageMargin)
	assert.Equal(t, "김철수 귀하", l.Info.Customer)
	assert.Equal(t, "아래와 같이 견적합니다.", l.Info.Intro)
	assert.Equal(t, "₩3,500", l.Info.TotalValue)
	assert.Equal(t, 3500.0, l.TotalAmount)
}

func TestBuild_EmptyCustomerStillAddressed(t *testing.T) {
	doc := testDocument()
	doc.Header.Customer = ""
	l := Build(doc)
	assert.Equal(t, "귀하", l.Info.Customer)
}

func TestBuild_SupplierTable(t *testing.T) {
	l := Build(testDocument())
	sup := l.Supplier

	require.Len(t, sup.Rows, 4)
	label := sup.Rows[0].Cells[0]
	assert.Equal(t, "공급자", label.Text)
	assert.True(t, label.Vertical)
	assert.Equal(t, 4, label.RowSpan)

	assert.Equal(t, "123-45-67890", sup.Rows[0].Cells[2].Text)

	seal := sup.Rows[1].Cells[3]
	assert.Equal(t, "(인)", seal.Text)
	assert.True(t, seal.StampAnchor)
}

func TestBuild_ItemTable(t *testing.T) {
	l := Build(testDocument())
	rows := l.Items.Rows

	// Header + 2 items + padding to 10 + totals.
	require.Len(t, rows, 1+MinItemRows+1)

	header := rows[0]
	assert.Equal(t, "품 명 / 규 격", header.Cells[1].Text)

	first := rows[1]
	assert.Equal(t, "1", first.Cells[0].Text)
	assert.Equal(t, "철근 (HD10)", first.Cells[1].Text)
	assert.Equal(t, "2", first.Cells[2].Text)
	assert.Equal(t, "1,000", first.Cells[3].Text)
	assert.Equal(t, "2,000", first.Cells[4].Text)
	require.NotNil(t, first.Cells[4].Value)
	assert.Equal(t, 2000.0, *first.Cells[4].Value)

	second := rows[2]
	assert.Equal(t, "시멘트", second.Cells[1].Text)

	padding := rows[3]
	require.Len(t, padding.Cells, 1)
	assert.Equal(t, len(l.Items.ColWidths), padding.Cells[0].ColSpan)

	totals := rows[len(rows)-1]
	assert.Equal(t, "합 계 (TOTAL)", totals.Cells[0].Text)
	assert.Equal(t, 2, totals.Cells[0].ColSpan)
	assert.Equal(t, "5", totals.Cells[1].Text)
	assert.Equal(t, "₩3,500", totals.Cells[3].Text)
	require.NotNil(t, totals.Cells[3].Value)
	assert.Equal(t, 3500.0, *totals.Cells[3].Value)
}

func TestBuild_BlankAmountsStayBlank(t *testing.T) {
	doc := domain.Document{Items: []domain.Item{
		{ID: "a", Name: "미정", Price: domain.NewNumber(5000)},
	}}
	l := Build(doc)

	// A priced line with no quantity shows its unit price but a blank amount,
	// and contributes zero to the total.
	row := l.Items.Rows[1]
	assert.Equal(t, "", row.Cells[2].Text)
	assert.Equal(t, "5,000", row.Cells[3].Text)
	assert.Equal(t, "", row.Cells[4].Text)
	assert.Nil(t, row.Cells[4].Value)
	assert.Equal(t, 0.0, l.TotalAmount)

	// No quantities at all leaves the totals quantity cell blank too.
	empty := Build(domain.Document{Items: []domain.Item{{ID: "x"}}})
	totals := empty.Items.Rows[len(empty.Items.Rows)-1]
	assert.Equal(t, "", totals.Cells[1].Text)
	assert.Nil(t, totals.Cells[1].Value)
}

func TestPaddingRows(t *testing.T) {
	for count := 0; count <= 50; count++ {
		got := PaddingRows(count)
		if count >= MinItemRows {
			assert.Equal(t, 0, got, "count=%d", count)
		} else {
			assert.Equal(t, MinItemRows-count, got, "count=%d", count)
		}
	}
}

func TestBuild_LongDocumentNotTruncated(t *testing.T) {
	doc := domain.Document{}
	for i := 0; i < 25; i++ {
		doc.Items = append(doc.Items, domain.Item{ID: fmt.Sprintf("i%d", i), Name: "줄"})
	}
	l := Build(doc)
	assert.Len(t, l.Items.Rows, 1+25+1)
}

func TestItemDisplayName(t *testing.T) {
	assert.Equal(t, "철근 (HD10)", ItemDisplayName("철근", "HD10"))
	assert.Equal(t, "철근", ItemDisplayName("철근", ""))
	assert.Equal(t, " (HD10)", ItemDisplayName("", "HD10"))
}

func TestBuild_Remarks(t *testing.T) {
	doc := testDocument()
	doc.Header.Remark = "현장 사정에 따라 변동 가능"
	l := Build(doc)

	assert.Equal(t, "※ 비고 및 특약사항", l.Remarks.Heading)
	assert.Len(t, l.Remarks.FixedNotes, 4)
	assert.Equal(t, "• 추가사항: 현장 사정에 따라 변동 가능", l.Remarks.Remark)

	doc.Header.Remark = ""
	assert.Equal(t, "- 추가 특이사항 없음", Build(doc).Remarks.Remark)
}

func TestBuild_SingleItemDocument(t *testing.T) {
	issued, err := domain.ParseDate("2024-01-15")
	require.NoError(t, err)

	doc := domain.Document{
		Header: domain.Header{
			Provider:  "ABC Corp",
			BizNumber: "1234567890",
			Customer:  "Kim",
			IssuedAt:  issued,
		},
		Items: []domain.Item{
			{ID: "w", Name: "Widget", Count: domain.NewNumber(2), Price: domain.NewNumber(1000)},
		},
	}
	l := Build(doc)

	assert.Equal(t, 2000.0, l.TotalAmount)
	assert.Equal(t, "일자: 2024. 01. 15", l.Info.DateLine)
	assert.Equal(t, "123-45-67890", l.Supplier.Rows[0].Cells[2].Text)

	rows := l.Items.Rows
	require.Len(t, rows, 1+1+9+1)
	assert.Equal(t, "Widget", rows[1].Cells[1].Text)

	totals := rows[len(rows)-1]
	assert.Equal(t, "2", totals.Cells[1].Text)
	assert.Equal(t, "₩2,000", totals.Cells[3].Text)
}

func TestBuild_EmptyDocument(t *testing.T) {
	l := Build(domain.Document{})

	assert.Equal(t, 0.0, l.TotalAmount)
	assert.Equal(t, "합계금액: ₩0", l.Info.TotalLabel+" "+l.Info.TotalValue)

	rows := l.Items.Rows
	require.Len(t, rows, 1+MinItemRows+1)

	totals := rows[len(rows)-1]
	assert.Equal(t, "", totals.Cells[1].Text)
	assert.Equal(t, "₩0", totals.Cells[3].Text)
}

func TestScale(t *testing.T) {
	assert.Equal(t, 1.0, Scale(0))
	assert.Equal(t, 1.0, Scale(-100))
	assert.Equal(t, 1.0, Scale(5000))
	assert.InDelta(t, 0.46, Scale(400), 1e-9)
	assert.Equal(t, 0.0, Scale(10))
}

func TestTable_WidthHeight(t *testing.T) {
	l := Build(testDocument())
	margin := l.PageWidth - 2*l.PageMargin

	assert.Equal(t, margin, l.Items.Width())
	assert.Equal(t, 400.0, l.Supplier.Width())
	assert.Equal(t, 200.0, l.Supplier.Height())
}
