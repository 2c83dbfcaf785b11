package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	Invoices *billing.InvoiceService
	Logger   *logger.Logger // nil = no request log
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.Logger != nil {
		api.Use(RequestLogger(deps.Logger))
	}

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	invoices.Post("/", invoiceHandler.Generate)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/next-number", invoiceHandler.NextNumber)
}
