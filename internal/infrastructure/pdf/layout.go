package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/pkg/amount"
	"github.com/jhoicas/invoice-pdf/pkg/pdftext"
)

// Page layout on a 12-column grid (A4, 190 mm usable width):
//
//	┌──────────────────────────────────────────────────────────┐
//	│  HEADER: company name / slogan / address / phone · email │
//	│                                                 INVOICE  │
//	│  Invoice No: 004                        Date: 2026-10-15 │
//	│  CUSTOMER: name / address / phone                        │
//	│  ┌──┬──────────────────┬──────┬──────┬──────┐            │
//	│  │No│ Description      │  Qty │ Rate │Amount│            │
//	│  ├──┼──────────────────┼──────┼──────┼──────┤            │
//	│  │                         Total     │ 0.00 │            │
//	│  WARRANTY (optional)                                     │
//	│  Rupees in words: ... only.                              │
//	│                           Signature: ___________________ │
//	└──────────────────────────────────────────────────────────┘

// Section names, top to bottom.
const (
	SectionHeader    = "header"
	SectionMeta      = "meta"
	SectionCustomer  = "customer"
	SectionItems     = "items"
	SectionTotal     = "total"
	SectionWarranty  = "warranty"
	SectionWords     = "words"
	SectionSignature = "signature"
)

// Item table columns (grid spans add up to 12).
const (
	spanNo          = 1
	spanDescription = 5
	spanQty         = 2
	spanRate        = 2
	spanAmount      = 2
	spanTotalLabel  = spanNo + spanDescription + spanQty + spanRate
	gridColumns     = 12
)

// Font sizes in points.
const (
	sizeBody    = 10.0
	sizeTitle   = 12.0
	sizeHeading = 11.0
	sizeCompany = 16.0
)

// DateLayout is how the issue date is printed.
const DateLayout = "2006-01-02"

// Align horizontal alignment inside a cell.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Cell one block of text spanning Span grid columns. Lines are drawn top to bottom.
type Cell struct {
	Lines  []string
	Span   int
	Align  Align
	Bold   bool
	Size   float64 // points
	Border bool
	Accent bool // printed in the brand colour
}

// Text joins the cell lines with "\n".
func (c Cell) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Line one row of cells. Height is in millimetres.
type Line struct {
	Height float64
	Cells  []Cell
}

// Section a named region of the page. Gap is blank space before it, in millimetres.
type Section struct {
	Name  string
	Gap   float64
	Lines []Line
}

// Page the full description of what gets drawn. Equal inputs give equal pages.
type Page struct {
	Sections []Section
}

// Section returns the named section.
func (p Page) Section(name string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Layout computes the page for doc. Text must already be sanitised.
// Every line is measured with the core font metrics and wrapped to its
// column, and row heights follow the resulting line counts.
func Layout(doc *entity.InvoiceDocument, branding entity.Branding) Page {
	l := layouter{m: newFontMetrics()}
	sections := []Section{
		l.headerSection(branding),
		l.metaSection(doc),
		l.customerSection(doc.Customer()),
		l.itemsSection(doc.Items()),
		l.totalSection(doc),
	}
	if w := doc.Warranty(); w != nil {
		sections = append(sections, l.warrantySection(*w))
	}
	sections = append(sections, l.wordsSection(doc), l.signatureSection())
	return Page{Sections: sections}
}

type layouter struct {
	m *fontMetrics
}

// ── Sections ──────────────────────────────────────────────────────────────────

func (l layouter) headerSection(b entity.Branding) Section {
	var lines []Line
	for _, name := range l.wrap(b.CompanyName, gridColumns, sizeCompany, true) {
		lines = append(lines, Line{Height: 10, Cells: []Cell{{Lines: []string{name}, Span: gridColumns, Bold: true, Size: sizeCompany, Accent: true}}})
	}
	lines = append(lines, l.block("", b.Slogan)...)
	lines = append(lines, l.block("", b.Address)...)
	lines = append(lines, l.block("", fmt.Sprintf("Phone: %s | Email: %s", b.Phone, b.Email))...)
	if b.Website != "" {
		lines = append(lines, l.block("", b.Website)...)
	}
	return Section{Name: SectionHeader, Lines: lines}
}

func (l layouter) metaSection(doc *entity.InvoiceDocument) Section {
	number := l.wrap("Invoice No: "+doc.Number(), 6, sizeBody, false)
	date := l.wrap("Date: "+doc.IssueDate().Format(DateLayout), 6, sizeBody, false)
	return Section{Name: SectionMeta, Gap: 10, Lines: []Line{
		{Height: 10, Cells: []Cell{{Lines: []string{"INVOICE"}, Span: gridColumns, Align: AlignRight, Bold: true, Size: sizeTitle}}},
		{Height: textHeight(max(len(number), len(date))), Cells: []Cell{
			{Lines: number, Span: 6, Size: sizeBody},
			{Lines: date, Span: 6, Align: AlignRight, Size: sizeBody},
		}},
	}}
}

func (l layouter) customerSection(c entity.Customer) Section {
	lines := l.block("Customer Name: ", c.Name)
	lines = append(lines, l.block("Address: ", c.Address)...)
	lines = append(lines, l.block("Phone: ", c.Phone)...)
	return Section{Name: SectionCustomer, Gap: 5, Lines: lines}
}

func (l layouter) itemsSection(items []entity.LineItem) Section {
	header := Line{Height: 8, Cells: []Cell{
		headCell("No", spanNo),
		headCell("Description", spanDescription),
		headCell("Qty", spanQty),
		headCell("Rate", spanRate),
		headCell("Amount", spanAmount),
	}}
	lines := []Line{header}
	for i, it := range items {
		cells := []Cell{
			l.tableCell(strconv.Itoa(i+1), spanNo, AlignCenter, false),
			l.tableCell(it.Description, spanDescription, AlignLeft, false),
			l.tableCell(strconv.FormatInt(it.Quantity, 10), spanQty, AlignRight, false),
			l.tableCell(amount.ToCurrencyString(it.UnitRate), spanRate, AlignRight, false),
			l.tableCell(amount.ToCurrencyString(it.Amount()), spanAmount, AlignRight, false),
		}
		lines = append(lines, Line{Height: tableRowHeight(cells), Cells: cells})
	}
	return Section{Name: SectionItems, Gap: 5, Lines: lines}
}

func (l layouter) totalSection(doc *entity.InvoiceDocument) Section {
	cells := []Cell{
		l.tableCell("Total", spanTotalLabel, AlignRight, true),
		l.tableCell(amount.ToCurrencyString(doc.Total()), spanAmount, AlignRight, true),
	}
	return Section{Name: SectionTotal, Lines: []Line{{Height: max(8, tableRowHeight(cells)), Cells: cells}}}
}

func (l layouter) warrantySection(w entity.Warranty) Section {
	lines := []Line{
		{Height: 8, Cells: []Cell{{Lines: []string{"Warranty Details:"}, Span: gridColumns, Bold: true, Size: sizeHeading}}},
	}
	lines = append(lines, l.block("Warranty Period: ", w.Period)...)
	lines = append(lines, l.block("", w.Terms)...)
	return Section{Name: SectionWarranty, Gap: 10, Lines: lines}
}

func (l layouter) wordsSection(doc *entity.InvoiceDocument) Section {
	sentence := fmt.Sprintf("Rupees in words: %s only.", amount.DecimalToWords(doc.Total()))
	return Section{Name: SectionWords, Gap: 5, Lines: l.block("", sentence)}
}

func (l layouter) signatureSection() Section {
	return Section{Name: SectionSignature, Gap: 10, Lines: []Line{
		{Height: 6, Cells: []Cell{{Lines: []string{"Signature: ___________________"}, Span: gridColumns, Align: AlignRight, Size: sizeBody}}},
	}}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// wrap splits text into lines that fit a cell spanning span columns.
func (l layouter) wrap(text string, span int, size float64, bold bool) []string {
	return pdftext.WrapFunc(text, l.m.fitter(CellTextWidth(span), size, bold))
}

// block prints label on the first line and indents the following ones so
// they start under the text. One full-width Line per printed line.
func (l layouter) block(label, text string) []Line {
	pad := l.m.indent(label, sizeBody)
	fits := l.m.fitter(CellTextWidth(gridColumns), sizeBody, false)
	wrapped := pdftext.WrapFunc(text, func(s string) bool { return fits(pad + s) })
	out := make([]Line, 0, len(wrapped))
	for i, s := range wrapped {
		if i == 0 {
			out = append(out, textLine(label+s))
			continue
		}
		out = append(out, textLine(pad+s))
	}
	return out
}

func (l layouter) tableCell(text string, span int, align Align, bold bool) Cell {
	return Cell{
		Lines:  l.wrap(text, span, sizeBody, bold),
		Span:   span,
		Align:  align,
		Bold:   bold,
		Size:   sizeBody,
		Border: true,
	}
}

func textLine(s string) Line {
	return Line{Height: 6, Cells: []Cell{{Lines: []string{s}, Span: gridColumns, Size: sizeBody}}}
}

func headCell(label string, span int) Cell {
	return Cell{Lines: []string{label}, Span: span, Align: AlignCenter, Bold: true, Size: sizeBody, Border: true}
}

const (
	rowPadding = 3.5
	lineHeight = 4.5
)

// RowHeight is the height of a bordered row holding lines lines of body text.
func RowHeight(lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	return rowPadding + lineHeight*float64(lines)
}

func tableRowHeight(cells []Cell) float64 {
	n := 1
	for _, c := range cells {
		n = max(n, len(c.Lines))
	}
	return RowHeight(n)
}

// textHeight is the height of an unbordered row of lines lines.
func textHeight(lines int) float64 {
	if lines <= 1 {
		return 6
	}
	return 6 + lineHeight*float64(lines-1)
}
