package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateInvoiceRequest body for POST /api/invoices.
// Every field may be missing: text defaults to "", quantity and rate to 0.
type GenerateInvoiceRequest struct {
	Customer    CustomerRequest      `json:"customer"`
	InvoiceDate string               `json:"invoice_date,omitempty"` // YYYY-MM-DD; empty = today
	Items       []InvoiceItemRequest `json:"items"`
	Warranty    *WarrantyRequest     `json:"warranty,omitempty"` // nil = no warranty block
}

// CustomerRequest buyer data as typed by the operator.
type CustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// InvoiceItemRequest one row of the form.
type InvoiceItemRequest struct {
	Description string           `json:"description"`
	Quantity    *int64           `json:"quantity,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
}

// WarrantyRequest optional warranty block.
type WarrantyRequest struct {
	Period string `json:"period"`
	Terms  string `json:"terms"`
}

// NextNumberResponse body for GET /api/invoices/next-number.
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// IssuanceResponse journal entry in GET /api/invoices.
type IssuanceResponse struct {
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	IssueDate     string          `json:"issue_date"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"` // RESERVED|ISSUED|RENDER_FAILED
	Filename      string          `json:"filename,omitempty"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
