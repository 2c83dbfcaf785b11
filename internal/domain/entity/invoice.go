package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one row of the item table.
type LineItem struct {
	Description string
	Quantity    int64
	UnitRate    decimal.Decimal
}

// Amount = Quantity × UnitRate. Not stored; recomputed on every call.
func (i LineItem) Amount() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.UnitRate)
}

// Customer holds the buyer data printed on the invoice.
type Customer struct {
	Name    string
	Address string // may span several lines
	Phone   string
}

// Warranty is the optional post-sale coverage block.
type Warranty struct {
	Period string
	Terms  string
}

// InvoiceDocument is the immutable invoice built for one submission.
// Fields are unexported so Total can only ever be the sum of the item amounts.
type InvoiceDocument struct {
	number    string
	issueDate time.Time
	customer  Customer
	items     []LineItem
	warranty  *Warranty
	total     decimal.Decimal
}

// NewInvoiceDocument assembles the document and computes its total.
func NewInvoiceDocument(number string, issueDate time.Time, customer Customer, items []LineItem, warranty *Warranty) *InvoiceDocument {
	copied := make([]LineItem, len(items))
	copy(copied, items)

	total := decimal.Zero
	for _, it := range copied {
		total = total.Add(it.Amount())
	}

	var w *Warranty
	if warranty != nil {
		wc := *warranty
		w = &wc
	}

	return &InvoiceDocument{
		number:    number,
		issueDate: issueDate,
		customer:  customer,
		items:     copied,
		warranty:  w,
		total:     total,
	}
}

func (d *InvoiceDocument) Number() string         { return d.number }
func (d *InvoiceDocument) IssueDate() time.Time   { return d.issueDate }
func (d *InvoiceDocument) Customer() Customer     { return d.customer }
func (d *InvoiceDocument) Total() decimal.Decimal { return d.total }

// Items returns a copy of the line items in display order.
func (d *InvoiceDocument) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Warranty returns a copy of the warranty block, or nil when the invoice has none.
func (d *InvoiceDocument) Warranty() *Warranty {
	if d.warranty == nil {
		return nil
	}
	w := *d.warranty
	return &w
}

// HasWarranty reports whether the warranty block must be printed.
func (d *InvoiceDocument) HasWarranty() bool { return d.warranty != nil }
