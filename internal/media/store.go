package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store persists processed upload bytes under a caller-chosen name.
type Store interface {
	// Save writes the full contents of r under name. Either the file
	// exists completely afterwards or not at all.
	Save(name string, r io.Reader) error

	// Path returns the on-disk path for a stored name.
	Path(name string) string
}

// DiskStore stores uploads as flat files in a single directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes via a temp file and renames into place, so a failed write
// never leaves a partial upload behind.
func (s *DiskStore) Save(name string, r io.Reader) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close upload: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store upload: %w", err)
	}

	return nil
}

// Path returns the on-disk location for a stored name.
func (s *DiskStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}
