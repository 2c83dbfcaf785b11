package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-pdf/internal/application/dto"
	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
	"github.com/jhoicas/invoice-pdf/pkg/logger"
	"github.com/jhoicas/invoice-pdf/pkg/pdftext"
)

// MaxItems rows accepted per invoice (the form offers up to 20).
const MaxItems = 20

// MaxTotal largest invoice total accepted. It fits int64 whole units and the
// journal's NUMERIC(18,2) column.
var MaxTotal = decimal.RequireFromString("9999999999999999.99")

// InvoiceDateLayout format of dto.GenerateInvoiceRequest.InvoiceDate.
const InvoiceDateLayout = "2006-01-02"

// GeneratedInvoice the finished artifact handed back to the caller.
type GeneratedInvoice struct {
	Document    *entity.InvoiceDocument
	PDF         []byte
	Filename    string
	ArchivePath string // empty when no archive is configured
}

// RenderFailedError reports a render failure after Number was consumed.
type RenderFailedError struct {
	Number string
	Err    error
}

func (e *RenderFailedError) Error() string {
	return fmt.Sprintf("invoice %s consumed but not produced: %v", e.Number, e.Err)
}

func (e *RenderFailedError) Unwrap() error { return e.Err }

// InvoiceServiceDeps collaborators of InvoiceService. Journal, Archive and Now are optional.
type InvoiceServiceDeps struct {
	Allocator *SequenceAllocator
	Renderer  DocumentRenderer
	Journal   repository.IssuanceRepository
	Archive   Archiver
	Branding  entity.Branding
	Logger    *logger.Logger
	Now       func() time.Time
}

// InvoiceService validates a submission, numbers it, renders it and records the issuance.
type InvoiceService struct {
	allocator *SequenceAllocator
	renderer  DocumentRenderer
	journal   repository.IssuanceRepository
	archive   Archiver
	branding  entity.Branding
	log       *logger.Logger
	now       func() time.Time
}

// NewInvoiceService builds the service.
func NewInvoiceService(deps InvoiceServiceDeps) *InvoiceService {
	s := &InvoiceService{
		allocator: deps.Allocator,
		renderer:  deps.Renderer,
		journal:   deps.Journal,
		archive:   deps.Archive,
		branding:  deps.Branding,
		log:       deps.Logger,
		now:       deps.Now,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Generate builds and renders one invoice.
//
// Returns:
//   - *domain.ValidationError (errors.Is ErrValidation) for bad input; nothing consumed.
//   - ErrRender for text the PDF cannot carry, detected before numbering; nothing consumed.
//   - ErrStorage / ErrCorruptState when no number could be allocated.
//   - *RenderFailedError (errors.Is ErrRender) when the number was consumed but drawing failed.
func (s *InvoiceService) Generate(ctx context.Context, in dto.GenerateInvoiceRequest) (*GeneratedInvoice, error) {
	// ── 1. Validate and normalise (no side effects yet) ───────────────────────
	customer, items, warranty, err := normalize(in)
	if err != nil {
		return nil, err
	}
	issueDate, err := s.issueDate(in.InvoiceDate)
	if err != nil {
		return nil, err
	}

	// ── 2. Allocate the number, exactly once ──────────────────────────────────
	number, err := s.allocator.AllocateNext(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("invoice number allocation failed")
		return nil, err
	}

	doc := entity.NewInvoiceDocument(number, issueDate, customer, items, warranty)
	filename := SuggestedFilename(number, customer.Name)
	s.log.Info().Str("invoice_number", number).Str("total", doc.Total().StringFixed(2)).Msg("invoice number allocated")

	// ── 3. Journal: reserve ───────────────────────────────────────────────────
	issuance, err := s.reserve(ctx, doc, filename)
	if err != nil {
		return nil, err
	}

	// ── 4. Render ─────────────────────────────────────────────────────────────
	pdfBytes, err := s.renderer.Render(ctx, doc, s.branding)
	if err != nil {
		if !errors.Is(err, domain.ErrRender) {
			err = fmt.Errorf("%w: %v", domain.ErrRender, err)
		}
		s.log.Error().Err(err).Str("invoice_number", number).Msg("render failed, invoice number consumed without a document")
		s.finish(ctx, issuance, entity.IssuanceStatusRenderFailed, err.Error())
		return nil, &RenderFailedError{Number: number, Err: err}
	}

	out := &GeneratedInvoice{Document: doc, PDF: pdfBytes, Filename: filename}

	// ── 5. Archive copy (best effort: the caller still gets the PDF) ─────────
	if s.archive != nil {
		path, err := s.archive.Save(filename, pdfBytes)
		if err != nil {
			s.log.Warn().Err(err).Str("invoice_number", number).Msg("archive copy not written")
		} else {
			out.ArchivePath = path
		}
	}

	// ── 6. Journal: issued ────────────────────────────────────────────────────
	s.finish(ctx, issuance, entity.IssuanceStatusIssued, "")
	s.log.Info().
		Str("invoice_number", number).
		Str("filename", filename).
		Int("bytes", len(pdfBytes)).
		Msg("invoice generated")

	return out, nil
}

// PreviewNumber returns the number the next invoice will get, without consuming it.
func (s *InvoiceService) PreviewNumber(ctx context.Context) (string, error) {
	return s.allocator.Peek(ctx)
}

// ListIssued returns the newest journal entries. Without a journal the list is empty.
func (s *InvoiceService) ListIssued(ctx context.Context, page dto.PageRequest) ([]*dto.IssuanceResponse, error) {
	page.DefaultPage()
	if s.journal == nil {
		return []*dto.IssuanceResponse{}, nil
	}
	list, err := s.journal.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list issuances: %w", err)
	}
	out := make([]*dto.IssuanceResponse, 0, len(list))
	for _, iss := range list {
		out = append(out, &dto.IssuanceResponse{
			InvoiceNumber: iss.Number,
			CustomerName:  iss.CustomerName,
			IssueDate:     iss.IssueDate.Format(InvoiceDateLayout),
			Total:         iss.Total,
			Status:        iss.Status,
			Filename:      iss.Filename,
			Error:         iss.Error,
			CreatedAt:     iss.CreatedAt,
		})
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *InvoiceService) issueDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.Parse(InvoiceDateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invoice_date", "expected YYYY-MM-DD, got %q", raw)
	}
	return d, nil
}

// reserve writes the RESERVED journal entry. A number already in the journal
// means the counter went backwards; that aborts. Other journal failures are
// only logged.
func (s *InvoiceService) reserve(ctx context.Context, doc *entity.InvoiceDocument, filename string) (*entity.Issuance, error) {
	if s.journal == nil {
		return nil, nil
	}
	existing, err := s.journal.GetByNumber(ctx, doc.Number())
	if err != nil {
		s.log.Warn().Err(err).Str("invoice_number", doc.Number()).Msg("journal lookup failed, entry not written")
		return nil, nil
	}
	if existing != nil {
		err := fmt.Errorf("%w: invoice number %s already journaled as %s", domain.ErrCorruptState, doc.Number(), existing.Status)
		s.log.Error().Err(err).Str("invoice_number", doc.Number()).Msg("invoice number already issued, counter is behind the journal")
		return nil, err
	}

	now := s.now()
	iss := &entity.Issuance{
		ID:           uuid.New().String(),
		Number:       doc.Number(),
		CustomerName: doc.Customer().Name,
		IssueDate:    doc.IssueDate(),
		Total:        doc.Total(),
		Status:       entity.IssuanceStatusReserved,
		Filename:     filename,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.journal.Create(ctx, iss); err != nil {
		if errors.Is(err, domain.ErrCorruptState) {
			s.log.Error().Err(err).Str("invoice_number", doc.Number()).Msg("invoice number already issued, counter is behind the journal")
			return nil, err
		}
		s.log.Warn().Err(err).Str("invoice_number", doc.Number()).Msg("journal entry not written")
		return nil, nil
	}
	return iss, nil
}

func (s *InvoiceService) finish(ctx context.Context, iss *entity.Issuance, status, reason string) {
	if s.journal == nil || iss == nil {
		return
	}
	iss.Status = status
	iss.Error = reason
	iss.UpdatedAt = s.now()
	if err := s.journal.Update(ctx, iss); err != nil {
		s.log.Warn().Err(err).Str("invoice_number", iss.Number).Str("status", status).Msg("journal entry not updated")
	}
}

// normalize applies the form defaults, rejects negative numbers and cleans the
// free text so rendering cannot fail on it later.
func normalize(in dto.GenerateInvoiceRequest) (entity.Customer, []entity.LineItem, *entity.Warranty, error) {
	if len(in.Items) == 0 {
		return entity.Customer{}, nil, nil, domain.NewValidationError("items", "at least one item is required")
	}
	if len(in.Items) > MaxItems {
		return entity.Customer{}, nil, nil, domain.NewValidationError("items", "at most %d items, got %d", MaxItems, len(in.Items))
	}

	items := make([]entity.LineItem, 0, len(in.Items))
	total := decimal.Zero
	for i, it := range in.Items {
		var qty int64
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		rate := decimal.Zero
		if it.Rate != nil {
			rate = *it.Rate
		}
		if qty < 0 {
			return entity.Customer{}, nil, nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must not be negative, got %d", qty)
		}
		if rate.IsNegative() {
			return entity.Customer{}, nil, nil, domain.NewValidationError(fmt.Sprintf("items[%d].rate", i), "must not be negative, got %s", rate.String())
		}
		if !rate.Equal(rate.Truncate(2)) {
			return entity.Customer{}, nil, nil, domain.NewValidationError(fmt.Sprintf("items[%d].rate", i), "at most 2 decimal places, got %s", rate.String())
		}
		item := entity.LineItem{Description: it.Description, Quantity: qty, UnitRate: rate}
		total = total.Add(item.Amount())
		items = append(items, item)
	}
	if total.GreaterThan(MaxTotal) {
		return entity.Customer{}, nil, nil, domain.NewValidationError("items", "invoice total %s exceeds %s", total.StringFixed(2), MaxTotal.StringFixed(2))
	}

	var err error
	clean := func(field, v string) string {
		if err != nil {
			return v
		}
		var out string
		out, err = pdftext.Sanitize(field, v)
		return out
	}

	customer := entity.Customer{
		Name:    clean("customer.name", in.Customer.Name),
		Address: clean("customer.address", in.Customer.Address),
		Phone:   clean("customer.phone", in.Customer.Phone),
	}
	for i := range items {
		items[i].Description = clean(fmt.Sprintf("items[%d].description", i), items[i].Description)
	}
	var warranty *entity.Warranty
	if in.Warranty != nil {
		warranty = &entity.Warranty{
			Period: clean("warranty.period", in.Warranty.Period),
			Terms:  clean("warranty.terms", in.Warranty.Terms),
		}
	}
	if err != nil {
		return entity.Customer{}, nil, nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	return customer, items, warranty, nil
}
