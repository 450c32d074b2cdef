package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagecollect"
)

// Ensure FileStore implements pagecollect.PageStore at compile time.
var _ pagecollect.PageStore = (*FileStore)(nil)

// FileStore writes pages as markdown files under a directory. Pages are
// staged in dir.tmp and replace dir only on Commit, so an interrupted
// export leaves the previous one intact.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore that publishes into dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: filepath.Clean(dir)}
}

func (s *FileStore) tempDir() string {
	return s.dir + ".tmp"
}

// Save stages page as <host>/<path>.md.
func (s *FileStore) Save(ctx context.Context, page *pagecollect.PageRecord) error {
	if err := page.Validate(); err != nil {
		return err
	}
	rel, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	path := filepath.Join(s.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	md, err := FormatPage(page)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(md), 0o644)
}

// Commit replaces the output directory with the staged pages.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.dir)
}

// Abort discards the staged pages.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
