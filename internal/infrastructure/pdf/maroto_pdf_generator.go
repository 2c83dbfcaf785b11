// Package pdf renders the printable invoice. Layout computes a deterministic
// page description; MarotoRenderer draws it with Maroto v2.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/pkg/pdftext"
)

var _ appbilling.DocumentRenderer = (*MarotoRenderer)(nil)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorAccent = &props.Color{Red: 220, Green: 50, Blue: 50}
	colorText   = &props.Color{Red: 0, Green: 0, Blue: 0}
	colorBorder = &props.Color{Red: 0, Green: 0, Blue: 0}
)

var borderStyle = &props.Cell{
	BorderType:      border.Full,
	BorderColor:     colorBorder,
	BorderThickness: 0.2,
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implements billing.DocumentRenderer with Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer builds the renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render sanitises the free text, lays the page out and returns the PDF bytes.
// Every failure wraps domain.ErrRender.
func (r *MarotoRenderer) Render(ctx context.Context, doc *entity.InvoiceDocument, branding entity.Branding) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrRender)
	}
	clean, cleanBranding, err := sanitizeDocument(doc, branding)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	page := Layout(clean, cleanBranding)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Invoice "+clean.Number(), true).
		WithAuthor(cleanBranding.CompanyName, true).
		WithCreationDate(clean.IssueDate()).
		Build()

	m := maroto.New(cfg)
	for _, s := range page.Sections {
		if s.Gap > 0 {
			m.AddRows(row.New(s.Gap))
		}
		for _, l := range s.Lines {
			m.AddRows(drawLine(l))
		}
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: generate document: %v", domain.ErrRender, err)
	}
	return out.GetBytes(), nil
}

// sanitizeDocument rebuilds doc and branding with text the core fonts can draw.
func sanitizeDocument(doc *entity.InvoiceDocument, b entity.Branding) (*entity.InvoiceDocument, entity.Branding, error) {
	var err error
	clean := func(field, s string) string {
		if err != nil {
			return s
		}
		var out string
		out, err = pdftext.Sanitize(field, s)
		return out
	}

	cb := entity.Branding{
		CompanyName: clean("company_name", b.CompanyName),
		Slogan:      clean("slogan", b.Slogan),
		Address:     clean("company_address", b.Address),
		Phone:       clean("company_phone", b.Phone),
		Email:       clean("company_email", b.Email),
		Website:     clean("website", b.Website),
	}

	c := doc.Customer()
	customer := entity.Customer{
		Name:    clean("customer.name", c.Name),
		Address: clean("customer.address", c.Address),
		Phone:   clean("customer.phone", c.Phone),
	}

	items := doc.Items()
	for i := range items {
		items[i].Description = clean(fmt.Sprintf("items[%d].description", i), items[i].Description)
	}

	var warranty *entity.Warranty
	if w := doc.Warranty(); w != nil {
		warranty = &entity.Warranty{
			Period: clean("warranty.period", w.Period),
			Terms:  clean("warranty.terms", w.Terms),
		}
	}

	number := clean("invoice_number", doc.Number())
	if err != nil {
		return nil, entity.Branding{}, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	return entity.NewInvoiceDocument(number, doc.IssueDate(), customer, items, warranty), cb, nil
}

// ── Drawing ───────────────────────────────────────────────────────────────────

func drawLine(l Line) core.Row {
	cols := make([]core.Col, 0, len(l.Cells))
	for _, c := range l.Cells {
		cols = append(cols, drawCell(c))
	}
	return row.New(l.Height).Add(cols...)
}

func drawCell(c Cell) core.Col {
	style := fontstyle.Normal
	if c.Bold {
		style = fontstyle.Bold
	}
	color := colorText
	if c.Accent {
		color = colorAccent
	}

	components := make([]core.Component, 0, len(c.Lines))
	for i, l := range c.Lines {
		components = append(components, text.New(l, props.Text{
			Style: style,
			Size:  c.Size,
			Align: toAlign(c.Align),
			Color: color,
			Top:   cellTop(c) + float64(i)*lineHeight,
			Left:  1,
			Right: 1,
		}))
	}

	cl := col.New(c.Span).Add(components...)
	if c.Border {
		cl = cl.WithStyle(borderStyle)
	}
	return cl
}

// cellTop leaves room inside bordered cells so text does not touch the frame.
func cellTop(c Cell) float64 {
	if c.Border {
		return 2
	}
	return 1
}

func toAlign(a Align) align.Type {
	switch a {
	case AlignCenter:
		return align.Center
	case AlignRight:
		return align.Right
	default:
		return align.Left
	}
}
