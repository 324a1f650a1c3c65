// Package sheet renders the laid-out document into a single-sheet xlsx
// workbook with the same visual structure as the raster export: merged
// regions, bordered grid cells, header fills and grouped number formats.
package sheet

import (
	"context"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/bill-tools/smart-bill/pkg/services/layout"
	"github.com/xuri/excelize/v2"
)

const sheetName = "견적서"

// Grid columns A..F carry the whole page. The five layout columns of each
// table map onto them with fixed merges (the name+spec column spans B:C in
// the item table, the seal/value column spans E:F in the supplier table).
var (
	colWidths = []float64{6, 16, 20, 9, 14, 16}

	itemColStart = []string{"A", "B", "D", "E", "F"}
	itemColEnd   = []string{"A", "C", "D", "E", "F"}

	supplierColStart = []string{"A", "B", "C", "D", "E"}
	supplierColEnd   = []string{"A", "B", "C", "D", "F"}
)

// Excel row heights are in points; the layout tree is in px-like page units.
const rowHeightScale = 0.75

const headerFill = "F1F5F9"

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

type styleSet struct {
	title     int
	infoText  int
	infoBig   int
	label     int
	text      int
	textBold  int
	center    int
	numeric   int
	numCenter int
	numFill   int
	currency  int
	remark    int
}

// Render builds the workbook in memory and returns the serialized bytes.
// Any build or serialization failure surfaces as an error with no partial
// artifact.
func (r *Renderer) Render(ctx context.Context, l *layout.Layout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, w := range colWidths {
		col := string(rune('A' + i))
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	row := 1
	row, err = writeTitle(f, styles, l, row)
	if err != nil {
		return nil, err
	}
	row, err = writeInfo(f, styles, l, row)
	if err != nil {
		return nil, err
	}
	row, err = writeTable(f, styles, l.Supplier, supplierColStart, supplierColEnd, row, l)
	if err != nil {
		return nil, err
	}
	row++ // spacer
	row, err = writeTable(f, styles, l.Items, itemColStart, itemColEnd, row, l)
	if err != nil {
		return nil, err
	}
	row++ // spacer
	if _, err = writeRemarks(f, styles, l, row); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (*styleSet, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	fill := excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1}
	grouped := "#,##0"
	won := "\"₩\"#,##0"

	s := &styleSet{}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 24},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 6}},
	}); err != nil {
		return nil, fmt.Errorf("failed to build title style: %w", err)
	}
	if s.infoText, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return nil, fmt.Errorf("failed to build info style: %w", err)
	}
	if s.infoBig, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return nil, fmt.Errorf("failed to build info heading style: %w", err)
	}
	if s.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
		Fill:      fill,
	}); err != nil {
		return nil, fmt.Errorf("failed to build label style: %w", err)
	}
	if s.text, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    thin,
	}); err != nil {
		return nil, fmt.Errorf("failed to build text style: %w", err)
	}
	if s.textBold, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    thin,
	}); err != nil {
		return nil, fmt.Errorf("failed to build bold text style: %w", err)
	}
	if s.center, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thin,
	}); err != nil {
		return nil, fmt.Errorf("failed to build centered style: %w", err)
	}
	if s.numeric, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       thin,
		CustomNumFmt: &grouped,
	}); err != nil {
		return nil, fmt.Errorf("failed to build numeric style: %w", err)
	}
	if s.numCenter, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:       thin,
		CustomNumFmt: &grouped,
	}); err != nil {
		return nil, fmt.Errorf("failed to build centered numeric style: %w", err)
	}
	if s.numFill, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 10},
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:       thin,
		Fill:         fill,
		CustomNumFmt: &grouped,
	}); err != nil {
		return nil, fmt.Errorf("failed to build filled numeric style: %w", err)
	}
	if s.currency, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       thin,
		Fill:         fill,
		CustomNumFmt: &won,
	}); err != nil {
		return nil, fmt.Errorf("failed to build currency style: %w", err)
	}
	if s.remark, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 9},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    thin,
	}); err != nil {
		return nil, fmt.Errorf("failed to build remark style: %w", err)
	}
	return s, nil
}

func writeTitle(f *excelize.File, styles *styleSet, l *layout.Layout, row int) (int, error) {
	ref := fmt.Sprintf("A%d", row)
	end := fmt.Sprintf("F%d", row)
	if err := f.MergeCell(sheetName, ref, end); err != nil {
		return 0, fmt.Errorf("failed to merge title: %w", err)
	}
	if err := f.SetCellValue(sheetName, ref, l.Title); err != nil {
		return 0, fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.SetCellStyle(sheetName, ref, end, styles.title); err != nil {
		return 0, fmt.Errorf("failed to style title: %w", err)
	}
	if err := f.SetRowHeight(sheetName, row, 44); err != nil {
		return 0, fmt.Errorf("failed to size title row: %w", err)
	}
	return row + 2, nil
}

func writeInfo(f *excelize.File, styles *styleSet, l *layout.Layout, row int) (int, error) {
	lines := []struct {
		text  string
		style int
	}{
		{l.Info.DateLine, styles.infoText},
		{l.Info.Customer, styles.infoBig},
		{l.Info.Intro, styles.infoText},
		{l.Info.TotalLabel + " " + l.Info.TotalValue, styles.infoBig},
	}
	for _, line := range lines {
		ref := fmt.Sprintf("A%d", row)
		end := fmt.Sprintf("F%d", row)
		if err := f.MergeCell(sheetName, ref, end); err != nil {
			return 0, fmt.Errorf("failed to merge info row: %w", err)
		}
		if err := f.SetCellValue(sheetName, ref, line.text); err != nil {
			return 0, fmt.Errorf("failed to write info row: %w", err)
		}
		if err := f.SetCellStyle(sheetName, ref, end, line.style); err != nil {
			return 0, fmt.Errorf("failed to style info row: %w", err)
		}
		row++
	}
	return row + 1, nil
}

// writeTable maps one laid-out table onto the sheet grid. colStart/colEnd
// translate layout columns (plus spans) into sheet column ranges.
func writeTable(f *excelize.File, styles *styleSet, t layout.Table,
	colStart, colEnd []string, startRow int, l *layout.Layout) (int, error) {
	rowSpanSkip := make([]int, len(colStart))
	row := startRow

	for _, tr := range t.Rows {
		if err := f.SetRowHeight(sheetName, row, tr.Height*rowHeightScale); err != nil {
			return 0, fmt.Errorf("failed to set row height: %w", err)
		}

		col := 0
		for col < len(colStart) && rowSpanSkip[col] > 0 {
			rowSpanSkip[col]--
			col++
		}

		for _, cell := range tr.Cells {
			colSpan := cell.ColSpan
			if colSpan < 1 {
				colSpan = 1
			}
			rowSpan := cell.RowSpan
			if rowSpan < 1 {
				rowSpan = 1
			}
			if col >= len(colStart) {
				break
			}
			endCol := col + colSpan - 1
			if endCol >= len(colEnd) {
				endCol = len(colEnd) - 1
			}

			ref := colStart[col] + fmt.Sprint(row)
			end := colEnd[endCol] + fmt.Sprint(row+rowSpan-1)
			if ref != end {
				if err := f.MergeCell(sheetName, ref, end); err != nil {
					return 0, fmt.Errorf("failed to merge cell %s:%s: %w", ref, end, err)
				}
			}
			if err := writeCell(f, styles, cell, ref, end, l); err != nil {
				return 0, err
			}

			if rowSpan > 1 {
				for i := col; i <= endCol; i++ {
					rowSpanSkip[i] = rowSpan - 1
				}
			}
			col = endCol + 1
			for col < len(colStart) && rowSpanSkip[col] > 0 {
				rowSpanSkip[col]--
				col++
			}
		}
		row++
	}
	return row, nil
}

func writeCell(f *excelize.File, styles *styleSet, cell layout.Cell, ref, end string, l *layout.Layout) error {
	style := pickStyle(styles, cell)
	if err := f.SetCellStyle(sheetName, ref, end, style); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", ref, err)
	}

	switch {
	case cell.Value != nil:
		if err := f.SetCellValue(sheetName, ref, *cell.Value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", ref, err)
		}
	case cell.Text != "":
		text := cell.Text
		if cell.Vertical {
			text = strings.Join(strings.Split(text, ""), "\n")
		}
		if err := f.SetCellValue(sheetName, ref, text); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", ref, err)
		}
	}

	if cell.StampAnchor && len(l.StampImage) > 0 {
		if err := embedStamp(f, ref, l.StampImage); err != nil {
			return err
		}
	}
	return nil
}

func writeRemarks(f *excelize.File, styles *styleSet, l *layout.Layout, row int) (int, error) {
	lines := append([]string{l.Remarks.Heading}, l.Remarks.FixedNotes...)
	lines = append(lines, l.Remarks.Remark)

	for i, line := range lines {
		ref := fmt.Sprintf("A%d", row)
		end := fmt.Sprintf("F%d", row)
		if err := f.MergeCell(sheetName, ref, end); err != nil {
			return 0, fmt.Errorf("failed to merge remark row: %w", err)
		}
		if err := f.SetCellValue(sheetName, ref, line); err != nil {
			return 0, fmt.Errorf("failed to write remark row: %w", err)
		}
		style := styles.remark
		if i == 0 {
			style = styles.textBold
		}
		if err := f.SetCellStyle(sheetName, ref, end, style); err != nil {
			return 0, fmt.Errorf("failed to style remark row: %w", err)
		}
		row++
	}
	return row, nil
}

func pickStyle(styles *styleSet, cell layout.Cell) int {
	switch {
	case cell.Fill && cell.Value != nil && cell.Align == layout.AlignRight:
		return styles.currency
	case cell.Fill && cell.Value != nil:
		return styles.numFill
	case cell.Fill:
		return styles.label
	case cell.Value != nil && cell.Align == layout.AlignCenter:
		return styles.numCenter
	case cell.Value != nil:
		return styles.numeric
	case cell.Align == layout.AlignCenter:
		return styles.center
	case cell.Bold:
		return styles.textBold
	default:
		return styles.text
	}
}

// embedStamp floats the seal image over the signature cell, proportioned to
// roughly one cell's footprint. The "(인)" placeholder keeps its cell value.
func embedStamp(f *excelize.File, ref string, payload []byte) error {
	ext := stampExtension(payload)
	if ext == "" {
		// Unknown payloads are skipped rather than failing the export.
		return nil
	}
	err := f.AddPictureFromBytes(sheetName, ref, &excelize.Picture{
		Extension: ext,
		File:      payload,
		Format: &excelize.GraphicOptions{
			AutoFit:         true,
			OffsetX:         2,
			OffsetY:         2,
			LockAspectRatio: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to embed stamp image: %w", err)
	}
	return nil
}

func stampExtension(payload []byte) string {
	switch http.DetectContentType(payload) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
