package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/sharedcode/ocaf"
)

// FileIO defines filesystem operations used by this package. The default
// implementation delegates to the standard library's os package with retry
// semantics for transient errors.
type FileIO interface {
	WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, path string) bool

	MkdirAll(ctx context.Context, path string, perm os.FileMode) error
	ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error)
}

const (
	permission    os.FileMode = 0o644
	dirPermission os.FileMode = 0o755
)

type defaultFileIO struct{}

// NewFileIO returns a FileIO that performs I/O via the os package with basic
// retry handling for transient errors.
func NewFileIO() FileIO {
	return &defaultFileIO{}
}

// WriteFile writes to a temporary sibling then renames it over name, so readers never
// see a partially written file. Missing parent folders are created.
func (dio defaultFileIO) WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error {
	if err := dio.MkdirAll(ctx, filepath.Dir(name), dirPermission); err != nil {
		return err
	}
	tmp := name + ".tmp"
	return ocaf.RetryIO(ctx, func(context.Context) error {
		if err := os.WriteFile(tmp, data, perm); err != nil {
			return err
		}
		return os.Rename(tmp, name)
	}, ocaf.FileIOError)
}

func (dio defaultFileIO) ReadFile(ctx context.Context, name string) ([]byte, error) {
	var ba []byte
	err := ocaf.RetryIO(ctx, func(context.Context) error {
		var err error
		ba, err = os.ReadFile(name)
		return err
	}, ocaf.FileIOError)
	return ba, err
}

// Remove deletes name. A missing file is not an error.
func (dio defaultFileIO) Remove(ctx context.Context, name string) error {
	return ocaf.RetryIO(ctx, func(context.Context) error {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}, ocaf.FileIOError)
}

func (dio defaultFileIO) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return ocaf.RetryIO(ctx, func(context.Context) error {
		return os.MkdirAll(path, perm)
	}, ocaf.FileIOError)
}

func (dio defaultFileIO) Exists(ctx context.Context, path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func (dio defaultFileIO) ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error) {
	var r []os.DirEntry
	err := ocaf.RetryIO(ctx, func(context.Context) error {
		var err error
		r, err = os.ReadDir(sourceDir)
		return err
	}, ocaf.FileIOError)
	return r, err
}
