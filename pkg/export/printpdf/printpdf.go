// Package printpdf renders the laid-out document to an A4 PDF for the print
// boundary. The 800-unit page is scaled as a whole to the printable width,
// so the printed sheet matches the preview and the raster export.
package printpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/bill-tools/smart-bill/pkg/services/layout"
	"github.com/jung-kurt/gofpdf"
)

// ErrFontUnavailable mirrors the raster renderer's not-ready failure: a PDF
// without a Hangul-capable face would render boxes, so the export refuses
// to start.
var ErrFontUnavailable = errors.New("print font face unavailable")

const (
	pageMarginMM    = 10.0
	printableWidth  = 190.0 // A4 210mm minus margins
	fontFamily      = "doc"
	fillGrayLevel   = 241
	stampBoxUnits   = 48.0
	remarkLineUnits = 22.0
)

type Options struct {
	FontPath     string
	BoldFontPath string
}

type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.BoldFontPath == "" {
		opts.BoldFontPath = opts.FontPath
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) Render(ctx context.Context, l *layout.Layout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	regular, err := readFont(r.opts.FontPath)
	if err != nil {
		return nil, err
	}
	bold := regular
	if r.opts.BoldFontPath != r.opts.FontPath {
		if bold, err = readFont(r.opts.BoldFontPath); err != nil {
			return nil, err
		}
	}

	// Fonts are registered from bytes: gofpdf resolves font paths against its
	// own font directory, which would mangle absolute paths.
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", bold)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(false, pageMarginMM)
	pdf.AddPage()

	p := &page{
		pdf:   pdf,
		l:     l,
		scale: printableWidth / l.PageWidth,
	}

	y := l.PageMargin * 0.5 // the physical page margin already frames the sheet
	y = p.drawTitle(y)
	p.drawInfo(y)
	p.drawTable(l.Supplier, l.PageWidth-l.PageMargin-l.Supplier.Width(), y)
	y += 200 + 40

	p.drawTable(l.Items, l.PageMargin, y)
	y += l.Items.Height() + 32

	p.drawRemarks(y)

	if pdf.Err() {
		return nil, fmt.Errorf("failed to build pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func readFont(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrFontUnavailable
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFontUnavailable, path)
	}
	return data, nil
}

// page converts page units to millimeters while drawing.
type page struct {
	pdf   *gofpdf.Fpdf
	l     *layout.Layout
	scale float64
}

func (p *page) mm(u float64) float64 {
	return pageMarginMM + u*p.scale
}

// pt converts a page-unit font size to points, tracking the page scale.
func (p *page) pt(u float64) float64 {
	return u * p.scale * 72 / 25.4
}

func (p *page) setFont(sizeUnits float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	p.pdf.SetFont(fontFamily, style, p.pt(sizeUnits))
}

func (p *page) text(xU, yU float64, s string) {
	p.pdf.Text(p.mm(xU), p.mm(yU), s)
}

func (p *page) drawTitle(y float64) float64 {
	p.setFont(42, true)
	w := p.pdf.GetStringWidth(p.l.Title)
	p.pdf.Text(p.mm(p.l.PageWidth/2)-w/2, p.mm(y+44), p.l.Title)

	lineY := p.mm(y + 102)
	p.pdf.SetLineWidth(0.5)
	p.pdf.Line(p.mm(p.l.PageMargin), lineY, p.mm(p.l.PageWidth-p.l.PageMargin), lineY)
	p.pdf.Line(p.mm(p.l.PageMargin), lineY+1, p.mm(p.l.PageWidth-p.l.PageMargin), lineY+1)

	return y + 110 + 40
}

func (p *page) drawInfo(y float64) {
	x := p.l.PageMargin

	p.setFont(12, false)
	p.text(x, y+14, p.l.Info.DateLine)

	p.setFont(24, true)
	p.text(x, y+52, p.l.Info.Customer)
	p.pdf.SetLineWidth(0.5)
	p.pdf.Line(p.mm(x), p.mm(y+62), p.mm(x+220), p.mm(y+62))

	p.setFont(13, false)
	p.text(x, y+90, p.l.Info.Intro)

	p.setFont(22, true)
	p.text(x, y+150, p.l.Info.TotalLabel+" "+p.l.Info.TotalValue)
}

func (p *page) drawTable(t layout.Table, xU, yU float64) {
	for _, box := range t.CellBoxes() {
		p.drawCell(box, xU, yU)
	}
	p.pdf.SetLineWidth(0.5)
	p.pdf.Rect(p.mm(xU), p.mm(yU), t.Width()*p.scale, t.Height()*p.scale, "D")
}

func (p *page) drawCell(box layout.CellBox, tableX, tableY float64) {
	cell := box.Cell
	x := p.mm(tableX + box.X)
	y := p.mm(tableY + box.Y)
	w := box.W * p.scale
	h := box.H * p.scale

	style := "D"
	if cell.Fill {
		p.pdf.SetFillColor(fillGrayLevel, fillGrayLevel, fillGrayLevel)
		style = "FD"
	}
	p.pdf.SetLineWidth(0.2)
	p.pdf.Rect(x, y, w, h, style)

	if cell.Text != "" {
		p.setFont(12, cell.Bold)
		if cell.Vertical {
			runes := []rune(cell.Text)
			step := h / float64(len(runes)+1)
			for i, rn := range runes {
				rw := p.pdf.GetStringWidth(string(rn))
				p.pdf.Text(x+w/2-rw/2, y+step*float64(i+1)+1, string(rn))
			}
		} else {
			pad := 8 * p.scale
			tw := p.pdf.GetStringWidth(cell.Text)
			baseline := y + h/2 + 1.2
			switch cell.Align {
			case layout.AlignCenter:
				p.pdf.Text(x+(w-tw)/2, baseline, cell.Text)
			case layout.AlignRight:
				p.pdf.Text(x+w-pad-tw, baseline, cell.Text)
			default:
				p.pdf.Text(x+pad, baseline, cell.Text)
			}
		}
	}

	if cell.StampAnchor && len(p.l.StampImage) > 0 {
		p.drawStamp(x, y, w, h)
	}
}

func (p *page) drawStamp(cellX, cellY, cellW, cellH float64) {
	imgType := ""
	switch http.DetectContentType(p.l.StampImage) {
	case "image/png":
		imgType = "PNG"
	case "image/jpeg":
		imgType = "JPG"
	default:
		return
	}
	opts := gofpdf.ImageOptions{ImageType: imgType}
	p.pdf.RegisterImageOptionsReader("stamp", opts, bytes.NewReader(p.l.StampImage))

	box := stampBoxUnits * p.scale
	p.pdf.ImageOptions("stamp", cellX+cellW-box-1, cellY+(cellH-box)/2, box, box, false, opts, 0, "")
}

func (p *page) drawRemarks(yU float64) {
	x := p.l.PageMargin
	w := p.l.PageWidth - p.l.PageMargin*2
	lines := float64(len(p.l.Remarks.FixedNotes)) + 1
	h := 20*2 + remarkLineUnits + lines*remarkLineUnits + 20

	p.pdf.SetLineWidth(0.5)
	p.pdf.Rect(p.mm(x), p.mm(yU), w*p.scale, h*p.scale, "D")

	textY := yU + 28
	p.setFont(12, true)
	p.text(x+20, textY, p.l.Remarks.Heading)
	textY += remarkLineUnits

	p.setFont(11, false)
	for _, note := range p.l.Remarks.FixedNotes {
		p.text(x+20, textY, note)
		textY += remarkLineUnits
	}
	p.text(x+20, textY, p.l.Remarks.Remark)
}
