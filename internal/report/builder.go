package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 10.0
	marginTop    = 10.0
	marginBottom = 10.0
	contentWidth = pageWidth - 2*marginLeft
	lineHeight   = 4.0
	headerHeight = 5.0
)

// Builder assembles the dashboard PDF. It tracks a running vertical cursor
// and breaks pages so tables are never split across a boundary.
type Builder struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	y        float64
	imageSeq int
}

// NewBuilder starts an A4 portrait document with page numbering.
func NewBuilder() *Builder {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	return &Builder{pdf: pdf, tr: tr, y: marginTop}
}

// ensureSpace breaks the page when the next block would cross the bottom
// margin.
func (b *Builder) ensureSpace(needed float64) {
	if b.y+needed > pageHeight-marginBottom {
		b.pdf.AddPage()
		b.y = marginTop
	}
}

// Title writes the document title line.
func (b *Builder) Title(text string) {
	b.ensureSpace(10)
	b.pdf.SetFont("Arial", "B", 16)
	b.pdf.SetXY(marginLeft, b.y)
	b.pdf.CellFormat(contentWidth, 8, b.tr(text), "", 0, "C", false, 0, "")
	b.y += 10
	b.pdf.SetFont("Arial", "", 10)
}

// Subtitle writes a centered secondary line under the title.
func (b *Builder) Subtitle(text string) {
	b.ensureSpace(7)
	b.pdf.SetFont("Arial", "", 11)
	b.pdf.SetTextColor(90, 90, 90)
	b.pdf.SetXY(marginLeft, b.y)
	b.pdf.CellFormat(contentWidth, 5, b.tr(text), "", 0, "C", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.y += 7
	b.pdf.SetFont("Arial", "", 10)
}

// SectionTitle writes a bold section heading, keeping a little lead space for
// the content that follows so a heading never strands at a page bottom.
func (b *Builder) SectionTitle(text string) {
	b.ensureSpace(8 + 3*lineHeight)
	b.pdf.SetFont("Arial", "B", 12)
	b.pdf.SetXY(marginLeft, b.y)
	b.pdf.CellFormat(contentWidth, 6, b.tr(text), "", 0, "L", false, 0, "")
	b.y += 8
	b.pdf.SetFont("Arial", "", 10)
}

// Line writes one plain text line.
func (b *Builder) Line(text string) {
	b.ensureSpace(lineHeight + 1)
	b.pdf.SetXY(marginLeft, b.y)
	b.pdf.CellFormat(contentWidth, lineHeight, b.tr(text), "", 0, "L", false, 0, "")
	b.y += lineHeight + 1
}

// Spacer advances the cursor without drawing.
func (b *Builder) Spacer(h float64) {
	b.y += h
}

// Divider draws a light horizontal rule.
func (b *Builder) Divider() {
	b.ensureSpace(4)
	b.pdf.SetDrawColor(200, 200, 200)
	b.pdf.Line(marginLeft, b.y+1, pageWidth-marginLeft, b.y+1)
	b.pdf.SetDrawColor(0, 0, 0)
	b.y += 4
}

// Image places PNG bytes at the current cursor, scaled to the given width in
// millimetres. Invalid image data is a no-op for the document flow: the
// caller degrades by skipping the chart.
func (b *Builder) Image(png []byte, widthMM, heightMM float64) error {
	if len(png) == 0 {
		return fmt.Errorf("report: empty image")
	}
	b.ensureSpace(heightMM + 2)
	b.imageSeq++
	name := fmt.Sprintf("chart_%d", b.imageSeq)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if b.pdf.Err() {
		err := b.pdf.Error()
		b.pdf.ClearError()
		return fmt.Errorf("report: register image: %w", err)
	}
	x := marginLeft + (contentWidth-widthMM)/2
	if x < marginLeft {
		x = marginLeft
	}
	b.pdf.ImageOptions(name, x, b.y, widthMM, heightMM, false, opts, 0, "")
	b.y += heightMM + 2
	return nil
}

// Table holds the rows of one report table. Column widths are fractions of
// the content width.
type Table struct {
	Headers   []string
	Widths    []float64
	Rows      [][]string
	FontSize  float64
	ZebraFill bool
}

func (t Table) fontSize() float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return 8
}

// rowHeight is the wrapped height of one row: the tallest cell wins.
func (b *Builder) rowHeight(t Table, row []string) float64 {
	b.pdf.SetFont("Arial", "", t.fontSize())
	maxLines := 1
	for i, cell := range row {
		if i >= len(t.Widths) {
			break
		}
		w := t.Widths[i]*contentWidth - 2
		lines := b.pdf.SplitText(b.tr(cell), w)
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	return float64(maxLines) * lineHeight
}

// EstimateTableHeight returns the full drawn height of the table, header row
// included, so the caller can place it on a fresh page when it cannot fit.
func (b *Builder) EstimateTableHeight(t Table) float64 {
	total := headerHeight
	for _, row := range t.Rows {
		total += b.rowHeight(t, row)
	}
	return total
}

// DrawTable renders the table at the cursor. The whole table moves to a new
// page when it would cross the bottom margin but still fits on an empty page;
// oversized tables fall back to per-row breaks, repeating the header. Rows
// are never split.
func (b *Builder) DrawTable(t Table) {
	if len(t.Headers) == 0 || len(t.Widths) != len(t.Headers) {
		return
	}
	estimated := b.EstimateTableHeight(t)
	if b.y+estimated > pageHeight-marginBottom && estimated <= pageHeight-marginTop-marginBottom {
		b.pdf.AddPage()
		b.y = marginTop
	}

	b.drawHeaderRow(t)
	for _, row := range t.Rows {
		h := b.rowHeight(t, row)
		if b.y+h > pageHeight-marginBottom {
			b.pdf.AddPage()
			b.y = marginTop
			b.drawHeaderRow(t)
		}
		b.drawRow(t, row, h)
	}
	b.y += 2
}

func (b *Builder) drawHeaderRow(t Table) {
	b.ensureSpace(headerHeight + lineHeight)
	b.pdf.SetFont("Arial", "B", t.fontSize())
	b.pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, header := range t.Headers {
		w := t.Widths[i] * contentWidth
		b.pdf.SetXY(x, b.y)
		b.pdf.CellFormat(w, headerHeight, b.tr(header), "1", 0, "L", true, 0, "")
		x += w
	}
	b.y += headerHeight
	b.pdf.SetFont("Arial", "", t.fontSize())
}

func (b *Builder) drawRow(t Table, row []string, h float64) {
	x := marginLeft
	for i := range t.Headers {
		w := t.Widths[i] * contentWidth
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		b.pdf.Rect(x, b.y, w, h, "D")
		b.pdf.SetXY(x+1, b.y)
		b.pdf.MultiCell(w-2, lineHeight, b.tr(cell), "", "L", false)
		x += w
	}
	b.y += h
}

// Output finalises the document.
func (b *Builder) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
