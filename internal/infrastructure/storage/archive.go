package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/invoice-pdf/internal/domain"
)

// Archive stores a copy of every generated PDF in one directory.
type Archive struct {
	fs  afero.Fs
	dir string
}

// NewArchive builds the archive. The directory is created on the first Save.
func NewArchive(fsys afero.Fs, dir string) *Archive {
	return &Archive{fs: fsys, dir: dir}
}

// Save writes data as dir/name and returns the full path.
// name must be a bare file name; anything that would leave dir is rejected.
func (a *Archive) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: archive file name %q", domain.ErrInvalidInput, name)
	}
	if err := a.fs.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: create %s: %w", a.dir, err)
	}
	path := filepath.Join(a.dir, name)
	if err := afero.WriteFile(a.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("archive: write %s: %w", path, err)
	}
	return path, nil
}
