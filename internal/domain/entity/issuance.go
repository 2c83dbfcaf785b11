package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Issuance states.
const (
	IssuanceStatusReserved     = "RESERVED"      // Number allocated, document not rendered yet
	IssuanceStatusIssued       = "ISSUED"        // PDF produced and handed to the caller
	IssuanceStatusRenderFailed = "RENDER_FAILED" // Number consumed, no document produced
)

// Issuance is the journal entry kept for every allocated invoice number.
type Issuance struct {
	ID           string
	Number       string
	CustomerName string
	IssueDate    time.Time
	Total        decimal.Decimal
	Status       string
	Filename     string
	Error        string // render failure reason, empty otherwise
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
