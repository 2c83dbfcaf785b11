package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/internal/application/dto"
	"github.com/jhoicas/invoice-pdf/internal/domain"
)

const mimePDF = "application/pdf"

// InvoiceHandler serves invoice generation and the issuance journal.
type InvoiceHandler struct {
	svc *billing.InvoiceService
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(svc *billing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Generate godoc
// @Summary      Generate an invoice PDF
// @Description  Validates the form, allocates the next invoice number and returns the PDF as a download.
// @Description  Missing text fields default to "", missing quantity and rate to 0. No number is consumed
// @Description  when validation fails. A 422 carrying X-Invoice-Number means the number was consumed
// @Description  but the document could not be drawn.
// @Tags         invoices
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.GenerateInvoiceRequest  true  "customer, items and optional warranty"
// @Success      200   {file}    binary
// @Header       200   {string}  X-Invoice-Number  "allocated invoice number"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}

	out, err := h.svc.Generate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	c.Attachment(out.Filename)
	c.Set(fiber.HeaderContentType, mimePDF)
	c.Set(HeaderInvoiceNumber, out.Document.Number())
	return c.Status(fiber.StatusOK).Send(out.PDF)
}

// NextNumber godoc
// @Summary      Preview the next invoice number
// @Description  Returns the number the next generated invoice will receive. Nothing is consumed.
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.NextNumberResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *fiber.Ctx) error {
	n, err := h.svc.PreviewNumber(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextNumberResponse{InvoiceNumber: n})
}

// List godoc
// @Summary      List issued invoices
// @Description  Newest first. Includes numbers consumed by failed renders (status RENDER_FAILED).
// @Tags         invoices
// @Produce      json
// @Param        limit   query  int  false  "page size (default 20, max 100)"
// @Param        offset  query  int  false  "entries to skip"
// @Success      200  {array}   dto.IssuanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit and offset must be integers"})
	}
	list, err := h.svc.ListIssued(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// writeError maps domain errors to status codes.
func writeError(c *fiber.Ctx, err error) error {
	var rf *billing.RenderFailedError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.As(err, &rf):
		c.Set(HeaderInvoiceNumber, rf.Number)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "RENDER", Message: err.Error()})
	case errors.Is(err, domain.ErrRender):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "RENDER", Message: err.Error()})
	case errors.Is(err, domain.ErrCorruptState):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CORRUPT_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrStorage):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
