// Package storage holds the file-system adapters: the plain-text invoice
// counter and the archive folder for generated PDFs. Both go through afero so
// tests can run on an in-memory file system.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/invoice-pdf/internal/domain"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
)

var _ repository.SequenceStore = (*FileSequenceStore)(nil)

// FileSequenceStore keeps the last issued invoice number as decimal text in a single file.
type FileSequenceStore struct {
	fs   afero.Fs
	path string
}

// NewFileSequenceStore builds the store. The file is created on the first Write.
func NewFileSequenceStore(fsys afero.Fs, path string) *FileSequenceStore {
	return &FileSequenceStore{fs: fsys, path: path}
}

// Read returns 0 if the file does not exist yet.
// Unparseable content is ErrCorruptState: resetting to 0 would re-issue old numbers.
func (s *FileSequenceStore) Read(_ context.Context) (int64, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: read %s: %v", domain.ErrStorage, s.path, err)
	}
	text := strings.TrimSpace(string(raw))
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s contains %q", domain.ErrCorruptState, s.path, text)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s contains negative counter %d", domain.ErrCorruptState, s.path, n)
	}
	return n, nil
}

// Write replaces the counter through a synced temp file and a rename, so a
// crash never leaves a half-written number behind.
func (s *FileSequenceStore) Write(_ context.Context, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: negative counter %d", domain.ErrInvalidInput, value)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %v", domain.ErrStorage, dir, err)
		}
	}

	tmp := s.path + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrStorage, tmp, err)
	}
	if _, err := f.WriteString(strconv.FormatInt(value, 10)); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, tmp, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync %s: %v", domain.ErrStorage, tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorage, tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStorage, tmp, err)
	}
	return nil
}
