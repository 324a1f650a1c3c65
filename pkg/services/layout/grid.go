package layout

// CellBox is a table cell with its resolved geometry, relative to the
// table's origin in page units. Geometry renderers (raster, print) consume
// boxes so span arithmetic lives in exactly one place.
type CellBox struct {
	Cell Cell
	X    float64
	Y    float64
	W    float64
	H    float64
}

// CellBoxes resolves row and column spans into one box per visible cell,
// in row-major order.
func (t Table) CellBoxes() []CellBox {
	boxes := make([]CellBox, 0, len(t.Rows)*len(t.ColWidths))
	rowSpanSkip := make([]int, len(t.ColWidths))

	colX := make([]float64, len(t.ColWidths)+1)
	for i, w := range t.ColWidths {
		colX[i+1] = colX[i] + w
	}
	rowY := make([]float64, len(t.Rows)+1)
	for i, row := range t.Rows {
		rowY[i+1] = rowY[i] + row.Height
	}

	for ri, row := range t.Rows {
		col := 0
		for col < len(t.ColWidths) && rowSpanSkip[col] > 0 {
			rowSpanSkip[col]--
			col++
		}
		for _, cell := range row.Cells {
			if col >= len(t.ColWidths) {
				break
			}
			colSpan := cell.ColSpan
			if colSpan < 1 {
				colSpan = 1
			}
			rowSpan := cell.RowSpan
			if rowSpan < 1 {
				rowSpan = 1
			}
			endCol := col + colSpan
			if endCol > len(t.ColWidths) {
				endCol = len(t.ColWidths)
			}
			endRow := ri + rowSpan
			if endRow > len(t.Rows) {
				endRow = len(t.Rows)
			}

			boxes = append(boxes, CellBox{
				Cell: cell,
				X:    colX[col],
				Y:    rowY[ri],
				W:    colX[endCol] - colX[col],
				H:    rowY[endRow] - rowY[ri],
			})

			if rowSpan > 1 {
				for i := col; i < endCol; i++ {
					rowSpanSkip[i] = rowSpan - 1
				}
			}
			col = endCol
			for col < len(t.ColWidths) && rowSpanSkip[col] > 0 {
				rowSpanSkip[col]--
				col++
			}
		}
	}
	return boxes
}

// Height returns the total table height in page units.
func (t Table) Height() float64 {
	var h float64
	for _, row := range t.Rows {
		h += row.Height
	}
	return h
}
