package billing

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
)

// InvoiceNumberWidth minimum digits of an invoice number. Larger values grow past it.
const InvoiceNumberWidth = 3

// FormatInvoiceNumber zero-pads n: 7 -> "007", 1000 -> "1000".
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%0*d", InvoiceNumberWidth, n)
}

// SequenceAllocator issues invoice numbers from a SequenceStore.
// The mutex serialises allocations inside one process; sharing a counter
// between processes needs an AtomicSequenceStore.
type SequenceAllocator struct {
	mu    sync.Mutex
	store repository.SequenceStore
}

// NewSequenceAllocator builds the allocator.
func NewSequenceAllocator(store repository.SequenceStore) *SequenceAllocator {
	return &SequenceAllocator{store: store}
}

// AllocateNext reads the counter, adds one, persists it and returns the
// formatted number. Storage and corruption errors are returned as they are;
// the counter is never reset.
func (a *SequenceAllocator) AllocateNext(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if inc, ok := a.store.(repository.AtomicSequenceStore); ok {
		n, err := inc.Increment(ctx)
		if err != nil {
			return "", fmt.Errorf("allocate invoice number: %w", err)
		}
		return FormatInvoiceNumber(n), nil
	}

	current, err := a.store.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("allocate invoice number: %w", err)
	}
	if current == math.MaxInt64 {
		return "", fmt.Errorf("allocate invoice number: %w: counter exhausted", domain.ErrCorruptState)
	}
	next := current + 1
	if err := a.store.Write(ctx, next); err != nil {
		return "", fmt.Errorf("allocate invoice number: %w", err)
	}

	// the allocation must observe its own write
	stored, err := a.store.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("allocate invoice number: verify: %w", err)
	}
	if stored != next {
		return "", fmt.Errorf("allocate invoice number: %w: wrote %d, read back %d", domain.ErrStorage, next, stored)
	}
	return FormatInvoiceNumber(next), nil
}

// Peek returns the number the next allocation would issue, without consuming it.
func (a *SequenceAllocator) Peek(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.store.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("peek invoice number: %w", err)
	}
	if current == math.MaxInt64 {
		return "", fmt.Errorf("peek invoice number: %w: counter exhausted", domain.ErrCorruptState)
	}
	return FormatInvoiceNumber(current + 1), nil
}
