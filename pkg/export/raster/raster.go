// Package raster renders the laid-out document to a JPEG at the fixed
// virtual page width.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/bill-tools/smart-bill/pkg/services/layout"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
)

// ErrFontUnavailable means the render target is not ready: without a font
// face there is nothing to measure or draw, so the export fails cleanly
// instead of emitting a corrupt file.
var ErrFontUnavailable = errors.New("raster font face unavailable")

// DefaultQuality is the JPEG encoder quality used when none is configured.
const DefaultQuality = 95

const (
	fillGray    = 0.945 // header cell fill
	borderWidth = 1.0

	titleBandHeight = 110.0
	infoBlockHeight = 200.0
	blockGap        = 40.0
	tableGap        = 32.0
	remarkLine      = 22.0
	remarkPad       = 20.0
	stampBox        = 48.0
)

// Options configure the renderer. FontPath is required and must point to a
// TTF with Hangul coverage; BoldFontPath falls back to FontPath.
type Options struct {
	FontPath     string
	BoldFontPath string
	Quality      int
}

type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	if opts.BoldFontPath == "" {
		opts.BoldFontPath = opts.FontPath
	}
	return &Renderer{opts: opts}
}

// Render draws the layout tree onto an opaque white canvas and encodes it
// as JPEG. The canvas is never transparent so downstream viewers can
// composite it on any background.
func (r *Renderer) Render(ctx context.Context, l *layout.Layout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fonts, err := loadFonts(r.opts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(int(l.PageWidth), int(pageHeight(l)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	c := &canvas{dc: dc, l: l, fonts: fonts}
	y := l.PageMargin
	y = c.drawTitle(y)
	c.drawInfo(y)
	c.drawTable(l.Supplier, l.PageWidth-l.PageMargin-l.Supplier.Width(), y)
	y += infoBlockHeight + blockGap

	c.drawTable(l.Items, l.PageMargin, y)
	y += l.Items.Height() + tableGap

	c.drawRemarks(y)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: r.opts.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fontSet holds both faces parsed once per render; cells switch between them
// without touching the disk again.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

func loadFonts(opts Options) (*fontSet, error) {
	regular, err := parseFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	bold := regular
	if opts.BoldFontPath != opts.FontPath {
		if bold, err = parseFont(opts.BoldFontPath); err != nil {
			return nil, err
		}
	}
	return &fontSet{regular: regular, bold: bold}, nil
}

func parseFont(path string) (*truetype.Font, error) {
	if path == "" {
		return nil, ErrFontUnavailable
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFontUnavailable, path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFontUnavailable, path)
	}
	return f, nil
}

func pageHeight(l *layout.Layout) float64 {
	return l.PageMargin*2 +
		titleBandHeight + blockGap +
		infoBlockHeight + blockGap +
		l.Items.Height() + tableGap +
		remarksHeight(l)
}

func remarksHeight(l *layout.Layout) float64 {
	lines := float64(len(l.Remarks.FixedNotes)) + 1 // notes + remark line
	return remarkPad*2 + remarkLine /* heading */ + lines*remarkLine + remarkPad
}

// canvas carries one render's drawing state, the gg counterpart of the print
// renderer's page struct.
type canvas struct {
	dc    *gg.Context
	l     *layout.Layout
	fonts *fontSet
}

func (c *canvas) setFace(size float64, bold bool) {
	f := c.fonts.regular
	if bold {
		f = c.fonts.bold
	}
	c.dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))
}

func (c *canvas) drawTitle(y float64) float64 {
	dc, l := c.dc, c.l

	c.setFace(42, true)
	dc.DrawStringAnchored(l.Title, l.PageWidth/2, y+32, 0.5, 0.5)

	// Double rule under the title band.
	lineY := y + titleBandHeight - 8
	dc.SetLineWidth(2)
	dc.DrawLine(l.PageMargin, lineY, l.PageWidth-l.PageMargin, lineY)
	dc.DrawLine(l.PageMargin, lineY+4, l.PageWidth-l.PageMargin, lineY+4)
	dc.Stroke()

	return y + titleBandHeight + blockGap
}

func (c *canvas) drawInfo(y float64) {
	dc, l := c.dc, c.l
	x := l.PageMargin

	c.setFace(12, false)
	dc.DrawString(l.Info.DateLine, x, y+14)

	c.setFace(24, true)
	dc.DrawString(l.Info.Customer, x, y+52)
	dc.SetLineWidth(2)
	dc.DrawLine(x, y+62, x+220, y+62)
	dc.Stroke()

	c.setFace(13, false)
	dc.DrawString(l.Info.Intro, x, y+90)

	c.setFace(22, true)
	dc.DrawString(l.Info.TotalLabel+" "+l.Info.TotalValue, x, y+150)
}

func (c *canvas) drawTable(t layout.Table, x, y float64) {
	for _, box := range t.CellBoxes() {
		c.drawCell(box, x, y)
	}

	// Outer border, slightly heavier like the inner grid's enclosing rule.
	c.dc.SetLineWidth(2)
	c.dc.DrawRectangle(x, y, t.Width(), t.Height())
	c.dc.Stroke()
}

func (c *canvas) drawCell(box layout.CellBox, tableX, tableY float64) {
	dc := c.dc
	cell := box.Cell
	x := tableX + box.X
	y := tableY + box.Y
	w := box.W
	h := box.H

	if cell.Fill {
		dc.SetRGB(fillGray, fillGray, fillGray)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
	}
	dc.SetLineWidth(borderWidth)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()

	if cell.Text != "" {
		c.setFace(12, cell.Bold)
		if cell.Vertical {
			runes := []rune(cell.Text)
			step := h / float64(len(runes)+1)
			for i, rn := range runes {
				dc.DrawStringAnchored(string(rn), x+w/2, y+step*float64(i+1), 0.5, 0.5)
			}
		} else {
			const pad = 8.0
			switch cell.Align {
			case layout.AlignCenter:
				dc.DrawStringAnchored(cell.Text, x+w/2, y+h/2, 0.5, 0.5)
			case layout.AlignRight:
				dc.DrawStringAnchored(cell.Text, x+w-pad, y+h/2, 1, 0.5)
			default:
				dc.DrawStringAnchored(cell.Text, x+pad, y+h/2, 0, 0.5)
			}
		}
	}

	// The stamp overlays the placeholder text, vertically centered at the
	// right edge of the signature cell.
	if cell.StampAnchor && len(c.l.StampImage) > 0 {
		if img, _, err := image.Decode(bytes.NewReader(c.l.StampImage)); err == nil {
			drawStamp(dc, img, x+w-stampBox-4, y+(h-stampBox)/2)
		}
	}
}

func drawStamp(dc *gg.Context, img image.Image, x, y float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	scale := stampBox / float64(b.Dx())
	if sy := stampBox / float64(b.Dy()); sy < scale {
		scale = sy
	}
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	if w < 1 || h < 1 {
		return
	}

	// Resample instead of nearest-neighbor scaling; seal uploads are usually
	// much larger than the 48-unit box.
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Over, nil)
	dc.DrawImage(scaled, int(x), int(y))
}

func (c *canvas) drawRemarks(y float64) {
	dc, l := c.dc, c.l
	x := l.PageMargin
	w := l.PageWidth - l.PageMargin*2

	dc.SetLineWidth(2)
	dc.DrawRectangle(x, y, w, remarksHeight(l))
	dc.Stroke()

	textY := y + remarkPad + 8
	c.setFace(12, true)
	dc.DrawString(l.Remarks.Heading, x+remarkPad, textY)
	textY += remarkLine

	c.setFace(11, false)
	for _, note := range l.Remarks.FixedNotes {
		dc.DrawString(note, x+remarkPad, textY)
		textY += remarkLine
	}
	dc.DrawString(l.Remarks.Remark, x+remarkPad, textY)
}
