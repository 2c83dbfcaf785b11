package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
)

// DefaultSequenceName is the row holding the global invoice counter.
const DefaultSequenceName = "invoice"

var _ repository.AtomicSequenceStore = (*SequenceRepo)(nil)

// SequenceRepo stores the invoice counter in invoice_sequences.
// Increment is a single UPSERT, so several service instances can share it.
type SequenceRepo struct {
	q    Querier
	name string
}

// NewSequenceRepository builds the store for the named counter. Pass a pool or tx.
func NewSequenceRepository(q Querier, name string) *SequenceRepo {
	if name == "" {
		name = DefaultSequenceName
	}
	return &SequenceRepo{q: q, name: name}
}

// Read returns 0 when the counter row does not exist yet.
func (r *SequenceRepo) Read(ctx context.Context) (int64, error) {
	const q = `SELECT last_value FROM invoice_sequences WHERE name = $1`
	var v int64
	if err := r.q.QueryRow(ctx, q, r.name).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: select invoice_sequences: %v", domain.ErrStorage, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: invoice_sequences.%s = %d", domain.ErrCorruptState, r.name, v)
	}
	return v, nil
}

func (r *SequenceRepo) Write(ctx context.Context, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: negative counter %d", domain.ErrInvalidInput, value)
	}
	const q = `
		INSERT INTO invoice_sequences (name, last_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_value = EXCLUDED.last_value,
			updated_at = now()`
	if _, err := r.q.Exec(ctx, q, r.name, value); err != nil {
		return fmt.Errorf("%w: upsert invoice_sequences: %v", domain.ErrStorage, err)
	}
	return nil
}

// Increment bumps the counter and returns the new value in one statement.
// The first call on an empty table returns 1.
func (r *SequenceRepo) Increment(ctx context.Context) (int64, error) {
	const q = `
		INSERT INTO invoice_sequences (name, last_value, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (name) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1,
			updated_at = now()
		RETURNING last_value`
	var v int64
	if err := r.q.QueryRow(ctx, q, r.name).Scan(&v); err != nil {
		return 0, fmt.Errorf("%w: increment invoice_sequences: %v", domain.ErrStorage, err)
	}
	return v, nil
}
