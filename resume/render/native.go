package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"resume-builder/resume/layout"
	"resume-builder/resume/templates"
)

const (
	pageMargin   = 15.0
	sidebarWidth = 58.0
	columnGap    = 6.0
	lineHeight   = 5.0
)

type rgb struct{ r, g, b int }

// parseHex reads #rgb or #rrggbb. Invalid input yields fallback.
func parseHex(v string, fallback rgb) rgb {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return fallback
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return fallback
	}
	return rgb{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}
}

// NativeEngine draws the resume directly with fpdf. It needs no browser.
type NativeEngine struct {
	now func() time.Time
}

func NewNativeEngine() *NativeEngine {
	return &NativeEngine{now: time.Now}
}

func (e *NativeEngine) Name() string { return "native" }

func (e *NativeEngine) PDF(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := NewView(req)
	d := newDrawer(v)
	d.pdf.SetCreationDate(e.now().UTC())
	d.draw()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyDocument
	}
	return buf.Bytes(), nil
}

type drawer struct {
	pdf     *fpdf.Fpdf
	view    View
	tr      func(string) string
	family  string
	primary rgb
	second  rgb
	accent  rgb
	text    rgb
	muted   rgb
	// column bounds for the block currently being drawn
	left  float64
	width float64
}

func newDrawer(v View) *drawer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(v.Header.Name+" - Resume", true)
	pdf.SetCreator("resume-builder", true)
	def := templates.Resolve(v.Template.ID()).DefaultPalette()
	d := &drawer{
		pdf:     pdf,
		view:    v,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		family:  "Helvetica",
		primary: parseHex(v.Palette.Primary, parseHex(def.Primary, rgb{})),
		second:  parseHex(v.Palette.Secondary, parseHex(def.Secondary, rgb{})),
		accent:  parseHex(v.Palette.Accent, parseHex(def.Accent, rgb{})),
		text:    parseHex(v.Palette.Text, rgb{17, 24, 39}),
		muted:   parseHex(v.Palette.TextSecondary, rgb{55, 65, 81}),
	}
	if v.Style.Serif {
		d.family = "Times"
	}
	// Columns are drawn one after another, so a column may overflow onto a
	// page an earlier column already created. Continue there instead of
	// appending a new page at the end.
	pdf.SetAcceptPageBreakFunc(func() bool {
		if pdf.PageNo() >= pdf.PageCount() {
			return true
		}
		x := pdf.GetX()
		d.toPage(pdf.PageNo()+1, pageMargin)
		pdf.SetX(x)
		return false
	})
	return d
}

// toPage moves to an existing page and re-emits the graphics state, which
// that page's content stream may have left different.
func (d *drawer) toPage(n int, y float64) {
	d.pdf.SetPage(n)
	d.pdf.SetY(y)
	if size, _ := d.pdf.GetFontSize(); size > 0 {
		d.pdf.SetFontSize(size)
	}
	d.pdf.SetFillColor(d.pdf.GetFillColor())
	d.pdf.SetDrawColor(d.pdf.GetDrawColor())
	d.pdf.SetLineWidth(d.pdf.GetLineWidth())
}

func (d *drawer) color(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *drawer) fill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *drawer) stroke(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }
func (d *drawer) font(style string, size float64) {
	d.pdf.SetFont(d.family, style, size)
}

func (d *drawer) draw() {
	d.pdf.AddPage()
	pageW, _ := d.pdf.GetPageSize()
	d.drawHeader(pageW)

	if len(d.view.Sidebar) == 0 {
		d.left, d.width = pageMargin, pageW-2*pageMargin
		for _, b := range d.view.Main {
			if b.Pair != nil {
				d.drawPair(b, *b.Pair)
				continue
			}
			d.drawBlock(b)
		}
		return
	}

	top := d.pdf.GetY()
	d.left, d.width = pageMargin, sidebarWidth
	d.drawContactBlock()
	for _, b := range d.view.Sidebar {
		d.drawBlock(b)
	}
	sidePage, sideY := d.pdf.PageNo(), d.pdf.GetY()

	d.toPage(1, top)
	d.left = pageMargin + sidebarWidth + columnGap
	d.width = pageW - d.left - pageMargin
	for _, b := range d.view.Main {
		d.drawBlock(b)
	}
	if sidePage > d.pdf.PageNo() || (sidePage == d.pdf.PageNo() && sideY > d.pdf.GetY()) {
		d.toPage(sidePage, sideY)
	}
}

func (d *drawer) drawHeader(pageW float64) {
	h := d.view.Header
	st := d.view.Style
	align := "L"
	if st.CenteredHeader {
		align = "C"
	}
	textW := pageW - 2*pageMargin
	picType, picData, hasPic := decodePicture(h.Picture)
	if hasPic {
		textW -= 32
	}

	bandTop := d.pdf.GetY()
	if st.HeaderBand {
		d.fill(d.primary)
		d.pdf.Rect(0, 0, pageW, 42, "F")
		d.color(rgb{255, 255, 255})
	} else {
		d.color(d.primary)
	}

	d.pdf.SetX(pageMargin)
	d.font("B", 24)
	d.pdf.CellFormat(textW, 11, d.tr(h.Name), "", 1, align, false, 0, "")
	d.font("", 13)
	if !st.HeaderBand {
		d.color(d.second)
	}
	d.pdf.SetX(pageMargin)
	d.pdf.CellFormat(textW, 7, d.tr(h.Title), "", 1, align, false, 0, "")

	if len(d.view.Sidebar) == 0 && len(h.Contacts) > 0 {
		var parts []string
		for _, c := range h.Contacts {
			parts = append(parts, c.Value)
		}
		d.font("", 9)
		if !st.HeaderBand {
			d.color(d.muted)
		}
		d.pdf.SetX(pageMargin)
		d.pdf.MultiCell(textW, lineHeight, d.tr(strings.Join(parts, "  |  ")), "", align, false)
	}

	if hasPic {
		d.pdf.RegisterImageOptionsReader("picture", fpdf.ImageOptions{ImageType: picType}, bytes.NewReader(picData))
		if d.pdf.Err() {
			// A broken picture must not fail the whole export.
			d.pdf.ClearError()
		} else {
			d.pdf.ImageOptions("picture", pageW-pageMargin-28, bandTop, 28, 28, false, fpdf.ImageOptions{ImageType: picType}, 0, "")
		}
	}

	y := d.pdf.GetY()
	if st.HeaderBand {
		if y < 42 {
			y = 42
		}
		y += 6
	} else {
		y += 3
		if st.CenteredHeader {
			d.stroke(d.primary)
			d.pdf.SetLineWidth(0.6)
			d.pdf.Line(pageMargin, y, pageW-pageMargin, y)
		}
		y += 5
	}
	if hasPic && y < bandTop+32 {
		y = bandTop + 32
	}
	d.pdf.SetY(y)
}

func (d *drawer) drawContactBlock() {
	contacts := d.view.Header.Contacts
	if len(contacts) == 0 {
		return
	}
	d.sectionTitle("Contact")
	d.font("", 9)
	d.color(d.muted)
	for _, c := range contacts {
		d.pdf.SetX(d.left)
		d.pdf.MultiCell(d.width, lineHeight, d.tr(c.Value), "", "L", false)
	}
	d.pdf.Ln(4)
}

func (d *drawer) drawPair(a, b Block) {
	left, width := d.left, d.width
	half := (width - columnGap) / 2
	startPage, startY := d.pdf.PageNo(), d.pdf.GetY()

	d.left, d.width = left, half
	d.drawBlock(a)
	aPage, aY := d.pdf.PageNo(), d.pdf.GetY()

	d.toPage(startPage, startY)
	d.left = left + half + columnGap
	d.drawBlock(b)
	if aPage > d.pdf.PageNo() || (aPage == d.pdf.PageNo() && aY > d.pdf.GetY()) {
		d.toPage(aPage, aY)
	}
	d.left, d.width = left, width
}

func (d *drawer) sectionTitle(title string) {
	if title == "" {
		return
	}
	d.pdf.SetX(d.left)
	d.font("B", 12)
	d.color(d.primary)
	d.pdf.CellFormat(d.width, 7, d.tr(title), "", 1, "L", false, 0, "")
	y := d.pdf.GetY()
	d.stroke(d.accent)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Line(d.left, y, d.left+d.width, y)
	d.pdf.Ln(2)
}

func (d *drawer) drawBlock(b Block) {
	d.sectionTitle(b.Title)
	switch b.Kind {
	case layout.Summary:
		style := ""
		if d.view.Style.ItalicSummary {
			style = "I"
		}
		d.font(style, 10)
		d.color(d.muted)
		d.pdf.SetX(d.left)
		d.pdf.MultiCell(d.width, lineHeight, d.tr(b.Text), "", "L", false)
	case layout.Skills:
		d.drawSkills(b.Items)
	default:
		for _, e := range b.Entries {
			d.drawEntry(e)
		}
	}
	d.pdf.Ln(4)
}

func (d *drawer) drawSkills(items []string) {
	d.font("", 9)
	switch d.view.Style.Skills {
	case templates.SkillBadges:
		x, y := d.left, d.pdf.GetY()
		for _, s := range items {
			label := d.tr(s)
			w := d.pdf.GetStringWidth(label) + 6
			if x+w > d.left+d.width && x > d.left {
				x = d.left
				y += 8
			}
			d.pdf.SetXY(x, y)
			d.fill(d.accent)
			d.color(d.second)
			d.pdf.CellFormat(w, 6, label, "", 0, "C", true, 0, "")
			x += w + 2
		}
		d.pdf.SetY(y + 7)
	case templates.SkillBullets:
		d.color(d.muted)
		for _, s := range items {
			d.pdf.SetX(d.left)
			d.pdf.MultiCell(d.width, lineHeight, d.tr("• "+s), "", "L", false)
		}
	default:
		d.color(d.muted)
		d.pdf.SetX(d.left)
		d.pdf.MultiCell(d.width, lineHeight, d.tr(strings.Join(items, " • ")), "", "L", false)
	}
}

func (d *drawer) drawEntry(e layout.Entry) {
	datesW := 0.0
	if e.Dates != "" {
		d.font("", 9)
		datesW = d.pdf.GetStringWidth(d.tr(e.Dates)) + 2
	}
	y := d.pdf.GetY()
	d.pdf.SetX(d.left)
	d.font("B", 11)
	d.color(d.text)
	d.pdf.MultiCell(d.width-datesW, 6, d.tr(e.Heading), "", "L", false)
	after := d.pdf.GetY()
	if e.Dates != "" {
		d.pdf.SetXY(d.left+d.width-datesW, y)
		d.font("", 9)
		d.color(d.muted)
		d.pdf.CellFormat(datesW, 6, d.tr(e.Dates), "", 0, "R", false, 0, "")
		d.pdf.SetY(after)
	}

	sub := e.Subheading
	if e.Location != "" {
		if sub != "" {
			sub += " • "
		}
		sub += e.Location
	}
	d.line(sub, "", 10, d.second)
	d.line(e.Detail, "", 9, d.muted)
	for _, l := range e.Lines {
		d.line(l, "", 9, d.muted)
	}
	d.line(e.Body, "", 10, d.muted)
	d.line(e.Link, "U", 9, d.primary)
	d.pdf.Ln(2)
}

func (d *drawer) line(text, style string, size float64, c rgb) {
	if strings.TrimSpace(text) == "" {
		return
	}
	d.font(style, size)
	d.color(c)
	d.pdf.SetX(d.left)
	d.pdf.MultiCell(d.width, lineHeight, d.tr(text), "", "L", false)
}
