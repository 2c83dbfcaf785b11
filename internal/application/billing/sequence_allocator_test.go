package billing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/internal/domain"
)

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "001", billing.FormatInvoiceNumber(1))
	assert.Equal(t, "007", billing.FormatInvoiceNumber(7))
	assert.Equal(t, "999", billing.FormatInvoiceNumber(999))
	assert.Equal(t, "1000", billing.FormatInvoiceNumber(1000), "width grows, never truncates")
	assert.Equal(t, "123456", billing.FormatInvoiceNumber(123456))
}

// N allocations from an empty counter give "001".."N" with no gaps or repeats.
func TestAllocateNext_SequentialFromZero(t *testing.T) {
	store := &memSequenceStore{}
	alloc := billing.NewSequenceAllocator(store)
	ctx := context.Background()

	for i := 1; i <= 1005; i++ {
		got, err := alloc.AllocateNext(ctx)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("%03d", i), got)
	}
	assert.Equal(t, int64(1005), store.value)
	assert.Equal(t, 1005, store.writes, "one durable write per allocation")
}

func TestAllocateNext_ContinuesFromStoredValue(t *testing.T) {
	alloc := billing.NewSequenceAllocator(&memSequenceStore{value: 3})
	got, err := alloc.AllocateNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "004", got)
}

func TestAllocateNext_ConcurrentCallersNeverShareANumber(t *testing.T) {
	alloc := billing.NewSequenceAllocator(&memSequenceStore{})
	const n = 50

	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := alloc.AllocateNext(context.Background())
			assert.NoError(t, err)
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for num := range results {
		assert.False(t, seen[num], "duplicate number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestAllocateNext_CorruptStateIsNotReset(t *testing.T) {
	store := &memSequenceStore{value: 12, corrupt: true}
	alloc := billing.NewSequenceAllocator(store)

	_, err := alloc.AllocateNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptState)
	assert.Zero(t, store.writes, "a corrupt counter must not be overwritten")
}

func TestAllocateNext_StorageErrors(t *testing.T) {
	readFail := &memSequenceStore{readErr: fmt.Errorf("%w: disk gone", domain.ErrStorage)}
	_, err := billing.NewSequenceAllocator(readFail).AllocateNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)

	writeFail := &memSequenceStore{value: 5, writeErr: fmt.Errorf("%w: read-only", domain.ErrStorage)}
	_, err = billing.NewSequenceAllocator(writeFail).AllocateNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, int64(5), writeFail.value)
}

func TestAllocateNext_DetectsLostWrite(t *testing.T) {
	_, err := billing.NewSequenceAllocator(&lyingStore{}).AllocateNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestAllocateNext_PrefersAtomicIncrement(t *testing.T) {
	store := &atomicMemStore{memSequenceStore: memSequenceStore{value: 9}}
	alloc := billing.NewSequenceAllocator(store)

	got, err := alloc.AllocateNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "010", got)
	assert.Equal(t, 1, store.increments)
	assert.Zero(t, store.writes)
}

func TestPeek_DoesNotConsume(t *testing.T) {
	store := &memSequenceStore{value: 41}
	alloc := billing.NewSequenceAllocator(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := alloc.Peek(ctx)
		require.NoError(t, err)
		assert.Equal(t, "042", got)
	}
	got, err := alloc.AllocateNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "042", got, "peek shows exactly what the next allocation issues")
}
