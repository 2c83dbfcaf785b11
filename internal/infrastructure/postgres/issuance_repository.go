package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
)

var _ repository.IssuanceRepository = (*IssuanceRepo)(nil)

// IssuanceRepo implements IssuanceRepository over invoice_issuances.
type IssuanceRepo struct {
	q Querier
}

// NewIssuanceRepository builds the journal adapter. Pass a pool or tx.
func NewIssuanceRepository(q Querier) *IssuanceRepo {
	return &IssuanceRepo{q: q}
}

func (r *IssuanceRepo) Create(ctx context.Context, iss *entity.Issuance) error {
	const q = `
		INSERT INTO invoice_issuances
			(id, number, customer_name, issue_date, total, status, filename, error, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, q,
		iss.ID, iss.Number, iss.CustomerName, iss.IssueDate, iss.Total,
		iss.Status, iss.Filename, iss.Error, iss.CreatedAt, iss.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s already journaled", domain.ErrCorruptState, iss.Number)
		}
		return fmt.Errorf("insert invoice_issuance: %w", err)
	}
	return nil
}

func (r *IssuanceRepo) Update(ctx context.Context, iss *entity.Issuance) error {
	const q = `
		UPDATE invoice_issuances
		SET status = $2, filename = $3, error = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, q, iss.ID, iss.Status, iss.Filename, iss.Error, iss.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice_issuance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *IssuanceRepo) GetByNumber(ctx context.Context, number string) (*entity.Issuance, error) {
	const q = `
		SELECT id, number, customer_name, issue_date, total, status, filename, error, created_at, updated_at
		FROM invoice_issuances WHERE number = $1`
	iss, err := scanIssuance(r.q.QueryRow(ctx, q, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice_issuance by number: %w", err)
	}
	return iss, nil
}

func (r *IssuanceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Issuance, error) {
	const q = `
		SELECT id, number, customer_name, issue_date, total, status, filename, error, created_at, updated_at
		FROM invoice_issuances
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoice_issuances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Issuance
	for rows.Next() {
		iss, err := scanIssuance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice_issuance: %w", err)
		}
		list = append(list, iss)
	}
	return list, rows.Err()
}

func scanIssuance(row pgxScanner) (*entity.Issuance, error) {
	var iss entity.Issuance
	err := row.Scan(
		&iss.ID, &iss.Number, &iss.CustomerName, &iss.IssueDate, &iss.Total,
		&iss.Status, &iss.Filename, &iss.Error, &iss.CreatedAt, &iss.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iss, nil
}
