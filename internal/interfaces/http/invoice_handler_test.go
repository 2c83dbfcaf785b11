package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/internal/application/dto"
	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/invoice-pdf/internal/interfaces/http"
	"github.com/jhoicas/invoice-pdf/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────────────────────────────────

const counterPath = "invoice_counter.txt"

const rameshBody = `{
	"customer": {"name": "Ramesh Kumar", "address": "12 MG Road\nBengaluru", "phone": "9876543210"},
	"invoice_date": "2026-10-15",
	"items": [
		{"description": "Ceiling fan", "quantity": 2, "rate": "1800"},
		{"description": "LED TV", "quantity": 1, "rate": 5500}
	]
}`

type brokenRenderer struct{}

func (brokenRenderer) Render(context.Context, *entity.InvoiceDocument, entity.Branding) ([]byte, error) {
	return nil, errors.New("page stream closed")
}

// buildTestApp wires the real service over an in-memory counter file.
func buildTestApp(t *testing.T, fsys afero.Fs, renderer billing.DocumentRenderer) *fiber.App {
	t.Helper()
	svc := billing.NewInvoiceService(billing.InvoiceServiceDeps{
		Allocator: billing.NewSequenceAllocator(storage.NewFileSequenceStore(fsys, counterPath)),
		Renderer:  renderer,
		Branding:  entity.Branding{CompanyName: "Test Showroom", Phone: "1", Email: "shop@example.com"},
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Invoices: svc, Logger: logger.Nop()})
	return app
}

func fsWithCounter(t *testing.T, content string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, counterPath, []byte(content), 0o644))
	return fsys
}

func postInvoice(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func nextNumber(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := get(t, app, "/api/invoices/next-number")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.NextNumberResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.InvoiceNumber
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/invoices
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_ReturnsPDFDownload(t *testing.T) {
	fsys := fsWithCounter(t, "3")
	app := buildTestApp(t, fsys, pdf.NewMarotoRenderer())

	resp := postInvoice(t, app, rameshBody)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Inv_004_Ramesh_Kumar.pdf")
	assert.Equal(t, "004", resp.Header.Get(apphttp.HeaderInvoiceNumber))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	counter, err := afero.ReadFile(fsys, counterPath)
	require.NoError(t, err)
	assert.Equal(t, "4", string(counter))
}

func TestGenerate_ValidationErrorIs400AndConsumesNothing(t *testing.T) {
	app := buildTestApp(t, afero.NewMemMapFs(), pdf.NewMarotoRenderer())

	resp := postInvoice(t, app, `{"items":[{"description":"Fan","quantity":-1,"rate":"10"}]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "items[0].quantity")
	assert.Equal(t, "001", nextNumber(t, app))
}

func TestGenerate_MalformedBody(t *testing.T) {
	app := buildTestApp(t, afero.NewMemMapFs(), pdf.NewMarotoRenderer())

	resp := postInvoice(t, app, `{"items": [`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestGenerate_UnprintableTextIs422WithoutNumber(t *testing.T) {
	app := buildTestApp(t, afero.NewMemMapFs(), pdf.NewMarotoRenderer())

	resp := postInvoice(t, app, `{"customer":{"name":"Ravi 😀"},"items":[{}]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderInvoiceNumber))
	assert.Equal(t, "RENDER", decodeError(t, resp).Code)
	assert.Equal(t, "001", nextNumber(t, app))
}

func TestGenerate_RenderFailureReportsConsumedNumber(t *testing.T) {
	app := buildTestApp(t, fsWithCounter(t, "9"), brokenRenderer{})

	resp := postInvoice(t, app, rameshBody)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "010", resp.Header.Get(apphttp.HeaderInvoiceNumber))
	body := decodeError(t, resp)
	assert.Equal(t, "RENDER", body.Code)
	assert.Contains(t, body.Message, "010")
	assert.Equal(t, "011", nextNumber(t, app), "the failed number is not reused")
}

func TestGenerate_CorruptCounterIs500(t *testing.T) {
	app := buildTestApp(t, fsWithCounter(t, "twelve"), pdf.NewMarotoRenderer())

	resp := postInvoice(t, app, rameshBody)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "CORRUPT_STATE", decodeError(t, resp).Code)
}

func TestGenerate_UnwritableCounterIs503(t *testing.T) {
	app := buildTestApp(t, afero.NewReadOnlyFs(fsWithCounter(t, "3")), pdf.NewMarotoRenderer())

	resp := postInvoice(t, app, rameshBody)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORAGE", decodeError(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/invoices/next-number and GET /api/invoices
// ──────────────────────────────────────────────────────────────────────────────

func TestNextNumber_DoesNotConsume(t *testing.T) {
	app := buildTestApp(t, fsWithCounter(t, "41"), pdf.NewMarotoRenderer())

	assert.Equal(t, "042", nextNumber(t, app))
	assert.Equal(t, "042", nextNumber(t, app))
}

func TestNextNumber_CorruptCounter(t *testing.T) {
	app := buildTestApp(t, fsWithCounter(t, "-5"), pdf.NewMarotoRenderer())

	resp := get(t, app, "/api/invoices/next-number")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestList_WithoutJournalIsEmpty(t *testing.T) {
	app := buildTestApp(t, afero.NewMemMapFs(), pdf.NewMarotoRenderer())

	resp := get(t, app, "/api/invoices?limit=5")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []dto.IssuanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestList_BadQuery(t *testing.T) {
	app := buildTestApp(t, afero.NewMemMapFs(), pdf.NewMarotoRenderer())

	resp := get(t, app, "/api/invoices?limit=many")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUERY", decodeError(t, resp).Code)
}
