package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-pdf/pkg/logger"
)

// HeaderInvoiceNumber carries the allocated number on generate responses,
// including render failures where the number was consumed.
const HeaderInvoiceNumber = "X-Invoice-Number"

// RequestLogger returns a Fiber middleware that writes one log line per request.
//
// Level by status:
//   - 5xx → error
//   - 4xx → warn
//   - otherwise → info
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if n := c.GetRespHeader(HeaderInvoiceNumber); n != "" {
			ev = ev.Str("invoice_number", n)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Err(err).
			Msg("http request")
		return err
	}
}
