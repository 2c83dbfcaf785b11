package pdf

import (
	"math"
	"strings"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Page geometry in millimetres. Must match the Maroto config in Render.
const (
	pageWidth   = 210.0
	pageMargin  = 10.0
	usableWidth = pageWidth - 2*pageMargin
	cellPadding = 1.0 // left and right text inset inside a column
	fitSlack    = 0.5 // rounding headroom so Maroto never re-wraps a line
	fontFamily  = "helvetica"
)

// CellTextWidth is the width available to text in a cell spanning span columns.
func CellTextWidth(span int) float64 {
	return float64(span)*usableWidth/gridColumns - 2*cellPadding - fitSlack
}

// fontMetrics measures strings with the core Helvetica widths, the same
// tables gofpdf uses when Maroto draws the page.
type fontMetrics struct {
	pdf *gofpdf.Fpdf
	enc *encoding.Encoder
}

func newFontMetrics() *fontMetrics {
	return &fontMetrics{
		pdf: gofpdf.New("P", "mm", "A4", ""),
		enc: charmap.Windows1252.NewEncoder(),
	}
}

// Width returns the printed width of s in millimetres.
func (m *fontMetrics) Width(s string, size float64, bold bool) float64 {
	style := ""
	if bold {
		style = "B"
	}
	m.pdf.SetFont(fontFamily, style, size)
	// core font widths are indexed by the cp1252 byte
	if b, err := m.enc.String(s); err == nil {
		s = b
	}
	return m.pdf.GetStringWidth(s)
}

// fitter returns a predicate accepting lines no wider than width.
func (m *fontMetrics) fitter(width, size float64, bold bool) func(string) bool {
	return func(line string) bool { return m.Width(line, size, bold) <= width }
}

// indent returns enough spaces to be at least as wide as label.
func (m *fontMetrics) indent(label string, size float64) string {
	if label == "" {
		return ""
	}
	space := m.Width(" ", size, false)
	n := int(math.Ceil(m.Width(label, size, false) / space))
	return strings.Repeat(" ", n)
}
