package main

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-pdf/internal/infrastructure/storage"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	target := storage.NewFileSequenceStore(fsys, "data/counter.txt")

	require.NoError(t, seed(ctx, target, 57))
	got, err := target.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(57), got)

	// idempotent
	require.NoError(t, seed(ctx, target, 57))

	// never backwards
	err = seed(ctx, target, 12)
	assert.Error(t, err)
	got, _ = target.Read(ctx)
	assert.Equal(t, int64(57), got)
}

func TestSeed_CorruptTargetIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "counter.txt", []byte("oops"), 0o644))

	err := seed(ctx, storage.NewFileSequenceStore(fsys, "counter.txt"), 3)
	assert.Error(t, err)

	raw, _ := afero.ReadFile(fsys, "counter.txt")
	assert.Equal(t, "oops", string(raw))
}

func TestSamePath(t *testing.T) {
	assert.True(t, samePath("invoice_counter.txt", "./invoice_counter.txt"))
	assert.False(t, samePath("a.txt", "b.txt"))
}
