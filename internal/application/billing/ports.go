package billing

import (
	"context"

	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
)

// DocumentRenderer turns an invoice into PDF bytes.
// Failures must wrap domain.ErrRender.
type DocumentRenderer interface {
	Render(ctx context.Context, doc *entity.InvoiceDocument, branding entity.Branding) ([]byte, error)
}

// Archiver keeps a copy of every generated PDF. Save returns where it was written.
type Archiver interface {
	Save(name string, data []byte) (string, error)
}
