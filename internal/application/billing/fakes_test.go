package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory collaborators
// ──────────────────────────────────────────────────────────────────────────────

// memSequenceStore read/write counter with failure injection.
type memSequenceStore struct {
	mu       sync.Mutex
	value    int64
	corrupt  bool
	readErr  error
	writeErr error
	writes   int
}

func (s *memSequenceStore) Read(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return 0, s.readErr
	}
	if s.corrupt {
		return 0, fmt.Errorf("%w: counter holds %q", domain.ErrCorruptState, "garbage")
	}
	return s.value, nil
}

func (s *memSequenceStore) Write(_ context.Context, v int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.value = v
	s.writes++
	return nil
}

// atomicMemStore also implements repository.AtomicSequenceStore.
type atomicMemStore struct {
	memSequenceStore
	increments int
}

func (s *atomicMemStore) Increment(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value++
	s.increments++
	return s.value, nil
}

// lyingStore acknowledges writes it never performs.
type lyingStore struct{ memSequenceStore }

func (s *lyingStore) Write(_ context.Context, _ int64) error { return nil }

// fakeRenderer records what it was asked to draw.
type fakeRenderer struct {
	err   error
	calls []*entity.InvoiceDocument
}

func (r *fakeRenderer) Render(_ context.Context, doc *entity.InvoiceDocument, _ entity.Branding) ([]byte, error) {
	r.calls = append(r.calls, doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-fake " + doc.Number()), nil
}

// memJournal in-memory IssuanceRepository.
type memJournal struct {
	entries   map[string]*entity.Issuance
	order     []string
	createErr error
	getErr    error
}

func newMemJournal() *memJournal { return &memJournal{entries: map[string]*entity.Issuance{}} }

func (j *memJournal) Create(_ context.Context, iss *entity.Issuance) error {
	if j.createErr != nil {
		return j.createErr
	}
	if _, ok := j.entries[iss.Number]; ok {
		return fmt.Errorf("%w: duplicate %s", domain.ErrCorruptState, iss.Number)
	}
	cp := *iss
	j.entries[iss.Number] = &cp
	j.order = append(j.order, iss.Number)
	return nil
}

func (j *memJournal) Update(_ context.Context, iss *entity.Issuance) error {
	if _, ok := j.entries[iss.Number]; !ok {
		return domain.ErrNotFound
	}
	cp := *iss
	j.entries[iss.Number] = &cp
	return nil
}

func (j *memJournal) GetByNumber(_ context.Context, number string) (*entity.Issuance, error) {
	if j.getErr != nil {
		return nil, j.getErr
	}
	iss, ok := j.entries[number]
	if !ok {
		return nil, nil
	}
	cp := *iss
	return &cp, nil
}

func (j *memJournal) List(_ context.Context, limit, offset int) ([]*entity.Issuance, error) {
	var out []*entity.Issuance
	for i := len(j.order) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *j.entries[j.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

// memArchive records saved files.
type memArchive struct {
	files map[string][]byte
	err   error
}

func (a *memArchive) Save(name string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	a.files[name] = data
	return "/archive/" + name, nil
}

var errDiskGone = errors.New("disk gone")
