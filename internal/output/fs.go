package output

import (
	"context"
	"os"
	"path/filepath"

	"github.com/koustreak/autoseq/internal/errs"
)

// FS writes <dir>/<table>.<ext> files.
type FS struct {
	dir string
	ext string
}

// NewFS creates dir (and its parents) and returns a sink writing into it.
func NewFS(dir, ext string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "resolve output directory", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrKindWrite, "create output directory "+abs, err)
	}
	return &FS{dir: abs, ext: ext}, nil
}

func (f *FS) Location(table string) string {
	return filepath.Join(f.dir, FileName(table, f.ext))
}

// Write replaces the file of table. Files of other tables are untouched.
func (f *FS) Write(ctx context.Context, table string, content []byte) error {
	path := f.Location(table)
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrKindWrite, "write "+path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindWrite, "write "+path, err)
	}
	return nil
}

func (f *FS) Close() error { return nil }
