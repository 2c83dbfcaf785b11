package repository

import (
	"context"

	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
)

// SequenceStore is the persistence port for the global invoice counter.
// Read returns 0 when the counter has never been written.
// Implementations wrap domain.ErrStorage when the medium is unreachable and
// domain.ErrCorruptState when it holds something that is not a counter.
type SequenceStore interface {
	Read(ctx context.Context) (int64, error)
	Write(ctx context.Context, value int64) error
}

// AtomicSequenceStore is implemented by stores able to read, increment and
// write the counter as a single transaction. Increment returns the new value.
type AtomicSequenceStore interface {
	SequenceStore
	Increment(ctx context.Context) (int64, error)
}

// IssuanceRepository is the persistence port for the issuance journal.
type IssuanceRepository interface {
	Create(ctx context.Context, iss *entity.Issuance) error
	Update(ctx context.Context, iss *entity.Issuance) error
	// GetByNumber returns nil, nil when no entry exists.
	GetByNumber(ctx context.Context, number string) (*entity.Issuance, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Issuance, error)
}
