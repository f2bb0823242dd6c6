// Package vectorpdf draws report documents onto fixed-size pages with
// gofpdf, handling pagination, repeated headers and footer stamping.
package vectorpdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/export/assets"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/agri-tools/fruit-atlas/pkg/services/format"
)

// Page geometry in millimeters, A4 portrait.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 25.0 // reserves the footer band
	contentWidth = pageWidth - marginLeft - marginRight

	logoSize     = 18.0
	headerHeight = 32.0 // logo block + three lines + rule

	lineHeight    = 5.0
	rowHeight     = 7.0
	gridHeaderH   = 8.0
	titleHeight   = 8.0
	sectionGap    = 5.0
	kvLabelWidth  = 70.0
)

// Options carries the institution identity stamped on every page.
type Options struct {
	HeaderLines []string // up to three centered lines
	FooterLabel string   // left footer "report identity" label
}

// Renderer is the vector-draw backend.
type Renderer struct {
	opts   Options
	cache  *assets.Cache
	logger zerolog.Logger

	// trace records drawn grid-row bounds for layout assertions.
	trace renderTrace
}

type rowBounds struct {
	page     int
	top, bot float64
}

type renderTrace struct {
	pageCount int
	rows      []rowBounds
}

func NewRenderer(opts Options, cache *assets.Cache, logger zerolog.Logger) *Renderer {
	return &Renderer{opts: opts, cache: cache, logger: logger}
}

func (r *Renderer) Format() export.Format { return export.FormatPDF }

// Render draws the document page by page. The page cursor lives only for
// the duration of this call; footers are stamped in a final pass once
// the total page count is known.
func (r *Renderer) Render(_ context.Context, doc *domain.Document) ([]byte, error) {
	r.trace = renderTrace{}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(format.Sanitize(doc.Title), false)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(format.Sanitize(s)) }

	logo := r.embedLogo(pdf)

	generated := doc.GeneratedAt.Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(pageHeight - marginBottom + 6)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentWidth/3, 4, text(r.opts.FooterLabel), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/3, 4, generated, "", 0, "C", false, 0, "")
		pdf.CellFormat(contentWidth/3, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	cur := &cursor{pdf: pdf, renderer: r, logo: logo, text: text}
	cur.newPage(doc)

	for _, section := range doc.Sections {
		cur.drawSection(doc, section)
	}

	r.trace.pageCount = pdf.PageCount()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// embedLogo registers the cached logo with the drawing backend. A failed
// embed degrades to the drawn placeholder, it never fails the report.
func (r *Renderer) embedLogo(pdf *gofpdf.Fpdf) *assets.Image {
	if r.cache == nil {
		return nil
	}
	img := r.cache.Logo()
	if img == nil {
		return nil
	}
	opt := gofpdf.ImageOptions{ImageType: img.Format}
	pdf.RegisterImageOptionsReader("institution-logo", opt, bytes.NewReader(img.Data))
	if pdf.Err() {
		r.logger.Warn().Err(pdf.Error()).Msg("logo embed rejected by drawing backend, using placeholder")
		pdf.ClearError()
		return nil
	}
	return img
}

// cursor is the ephemeral per-render layout state.
type cursor struct {
	pdf      *gofpdf.Fpdf
	renderer *Renderer
	logo     *assets.Image
	text     func(string) string
	y        float64
}

func (c *cursor) bottom() float64 { return pageHeight - marginBottom }

func (c *cursor) remaining() float64 { return c.bottom() - c.y }

// contentHeight is the usable vertical extent of one page below the
// repeated header block.
func contentHeight() float64 {
	return pageHeight - marginBottom - marginTop - headerHeight
}

func (c *cursor) newPage(doc *domain.Document) {
	c.pdf.AddPage()
	c.drawHeader(doc)
	c.y = marginTop + headerHeight
}

func (c *cursor) drawHeader(doc *domain.Document) {
	pdf := c.pdf

	if c.logo != nil {
		opt := gofpdf.ImageOptions{ImageType: c.logo.Format}
		pdf.ImageOptions("institution-logo", marginLeft, marginTop, logoSize, logoSize, false, opt, 0, "")
	} else {
		c.drawLogoPlaceholder()
	}

	lines := c.renderer.opts.HeaderLines
	y := marginTop + 2
	sizes := []float64{12, 10, 9}
	styles := []string{"B", "", ""}
	for i, line := range lines {
		if i >= 3 {
			break
		}
		pdf.SetFont("Helvetica", styles[i], sizes[i])
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 5, c.text(line), "", 0, "C", false, 0, "")
		y += 5.5
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y+1)
	pdf.CellFormat(contentWidth, 5, c.text(doc.Title+" - "+doc.Subtitle), "", 0, "C", false, 0, "")

	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.4)
	pdf.Line(marginLeft, marginTop+headerHeight-2, pageWidth-marginRight, marginTop+headerHeight-2)
	pdf.SetLineWidth(0.2)
}

// drawLogoPlaceholder renders the fallback mark: a circle with the
// institution's initials.
func (c *cursor) drawLogoPlaceholder() {
	pdf := c.pdf
	cx := marginLeft + logoSize/2
	cy := marginTop + logoSize/2
	pdf.SetDrawColor(60, 60, 60)
	pdf.Circle(cx, cy, logoSize/2, "D")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, cy-2.5)
	pdf.CellFormat(logoSize, 5, c.text(initials(c.renderer.opts.HeaderLines)), "", 0, "C", false, 0, "")
}

func initials(lines []string) string {
	if len(lines) == 0 || lines[0] == "" {
		return "TA"
	}
	var b strings.Builder
	for _, word := range strings.Fields(lines[0]) {
		r := []rune(word)[0]
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
		if b.Len() >= 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "TA"
	}
	return b.String()
}

func (c *cursor) drawSection(doc *domain.Document, s domain.Section) {
	// A section that fits on a fresh page never starts on a partially
	// filled one; taller sections flow row by row instead, but still
	// need room for their title, header and first row so no orphan
	// lead block lands in the footer band.
	est := c.estimate(s)
	if est > c.remaining() && (est <= contentHeight() || c.remaining() < minLead(s)) {
		c.newPage(doc)
	}

	switch s.Kind {
	case domain.KindSummaryText:
		c.drawParagraph(doc, s.Text)
	case domain.KindKeyValueTable:
		c.drawKeyValueTable(doc, s)
	case domain.KindDataGrid:
		c.drawDataGrid(doc, s)
	}
	c.y += sectionGap
}

// minLead is the height a flowing section needs before its first row:
// title plus grid header plus one data row. Rows past that break to
// continuation pages on their own.
func minLead(s domain.Section) float64 {
	switch s.Kind {
	case domain.KindSummaryText:
		return lineHeight
	case domain.KindKeyValueTable:
		return titleHeight + rowHeight
	case domain.KindDataGrid:
		return titleHeight + gridHeaderH + rowHeight
	default:
		return 0
	}
}

func (c *cursor) estimate(s domain.Section) float64 {
	switch s.Kind {
	case domain.KindSummaryText:
		c.pdf.SetFont("Helvetica", "", 10)
		lines := c.pdf.SplitLines([]byte(c.text(s.Text)), contentWidth)
		return float64(len(lines)) * lineHeight
	case domain.KindKeyValueTable:
		return titleHeight + float64(len(s.Rows))*rowHeight
	case domain.KindDataGrid:
		return titleHeight + gridHeaderH + float64(len(s.GridRows))*rowHeight
	default:
		return 0
	}
}

func (c *cursor) drawParagraph(doc *domain.Document, body string) {
	pdf := c.pdf
	pdf.SetFont("Helvetica", "", 10)
	lines := pdf.SplitLines([]byte(c.text(body)), contentWidth)
	for _, line := range lines {
		if c.y+lineHeight > c.bottom() {
			c.newPage(doc)
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.SetXY(marginLeft, c.y)
		pdf.CellFormat(contentWidth, lineHeight, string(line), "", 0, "L", false, 0, "")
		c.y += lineHeight
	}
}

func (c *cursor) drawSectionTitle(title string) {
	pdf := c.pdf
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, c.y)
	pdf.CellFormat(contentWidth, titleHeight-2, c.text(title), "", 0, "L", false, 0, "")
	c.y += titleHeight
}

func (c *cursor) drawKeyValueTable(doc *domain.Document, s domain.Section) {
	c.drawSectionTitle(s.Title)

	pdf := c.pdf
	for i, kv := range s.Rows {
		if c.y+rowHeight > c.bottom() {
			c.newPage(doc)
			c.drawSectionTitle(s.Title + " (continued)")
		}
		fill := i%2 == 1
		pdf.SetFillColor(240, 243, 240)
		pdf.SetDrawColor(180, 180, 180)

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(marginLeft, c.y)
		pdf.CellFormat(kvLabelWidth, rowHeight, c.fit(kv[0], kvLabelWidth), "1", 0, "L", fill, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentWidth-kvLabelWidth, rowHeight, c.fit(kv[1], contentWidth-kvLabelWidth), "1", 0, "L", fill, 0, "")

		c.recordRow()
		c.y += rowHeight
	}
}

func (c *cursor) drawDataGrid(doc *domain.Document, s domain.Section) {
	c.drawSectionTitle(s.Title)
	colWidth := contentWidth / float64(len(s.Headers))
	c.drawGridHeader(s.Headers, colWidth)

	pdf := c.pdf
	for i, row := range s.GridRows {
		// Rows never split: break before the row when it cannot fit.
		if c.y+rowHeight > c.bottom() {
			c.newPage(doc)
			c.drawSectionTitle(s.Title + " (continued)")
			c.drawGridHeader(s.Headers, colWidth)
		}
		fill := i%2 == 1
		pdf.SetFillColor(240, 243, 240)
		pdf.SetDrawColor(180, 180, 180)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(marginLeft, c.y)
		for _, cell := range row {
			pdf.CellFormat(colWidth, rowHeight, c.fit(cell, colWidth), "1", 0, "L", fill, 0, "")
		}
		c.recordRow()
		c.y += rowHeight
	}
}

func (c *cursor) drawGridHeader(headers []string, colWidth float64) {
	pdf := c.pdf
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(60, 90, 60)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(60, 90, 60)
	pdf.SetXY(marginLeft, c.y)
	for _, h := range headers {
		pdf.CellFormat(colWidth, gridHeaderH, c.fit(h, colWidth), "1", 0, "C", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	c.y += gridHeaderH
}

// fit truncates cell text that would overflow its column.
func (c *cursor) fit(s string, width float64) string {
	t := c.text(s)
	avail := width - 2 // cell padding
	if c.pdf.GetStringWidth(t) <= avail {
		return t
	}
	for len(t) > 0 && c.pdf.GetStringWidth(t+"...") > avail {
		t = t[:len(t)-1]
	}
	return t + "..."
}

func (c *cursor) recordRow() {
	c.renderer.trace.rows = append(c.renderer.trace.rows, rowBounds{
		page: c.pdf.PageNo(),
		top:  c.y,
		bot:  c.y + rowHeight,
	})
}
