package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-pdf/pkg/config"
)

// newTestPool connects to TEST_DATABASE_URL; the tests are skipped without it.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := postgres.NewPool(context.Background(), config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestSequenceRepo_IncrementIsSequential(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewSequenceRepository(pool, "test-"+uuid.NewString())

	n, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "missing counter reads as 0")

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.NoError(t, repo.Write(ctx, 41))
	got, err := repo.Increment(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestIssuanceRepo_CreateUpdateGet(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewIssuanceRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	iss := &entity.Issuance{
		ID:           uuid.NewString(),
		Number:       "T-" + uuid.NewString()[:8],
		CustomerName: "Ramesh Kumar",
		IssueDate:    time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Total:        decimal.RequireFromString("9100.00"),
		Status:       entity.IssuanceStatusReserved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, iss))

	iss.Status = entity.IssuanceStatusIssued
	iss.Filename = "Inv_x.pdf"
	require.NoError(t, repo.Update(ctx, iss))

	got, err := repo.GetByNumber(ctx, iss.Number)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.IssuanceStatusIssued, got.Status)
	assert.True(t, iss.Total.Equal(got.Total))

	missing, err := repo.GetByNumber(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
