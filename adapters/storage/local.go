// Package storage provides core.Filesystem implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Skryldev/asset-generator/core"
	apperrors "github.com/Skryldev/asset-generator/errors"
)

// Local writes generated files to the local filesystem.
type Local struct {
	permissions    os.FileMode
	dirPermissions os.FileMode
}

// NewLocal creates a Local filesystem.  A zero perm defaults to 0644.
func NewLocal(perm os.FileMode) *Local {
	if perm == 0 {
		perm = 0o644
	}
	return &Local{permissions: perm, dirPermissions: 0o755}
}

func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.Wrap(apperrors.CategoryStorage, "local.exists", err)
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.Wrap(apperrors.CategoryStorage, "local.exists.stat", err)
}

// EnsureDir creates dir and any missing parents.  A directory that already
// exists, including one created concurrently by another caller, is success.
func (l *Local) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.mkdir", err)
	}
	if err := os.MkdirAll(dir, l.dirPermissions); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.mkdir", err)
	}
	return nil
}

// WriteFile replaces path atomically: data goes to a temp file in the same
// directory which is then renamed over the destination.  Concurrent writers
// of the same path never observe a torn file; the last rename wins.
func (l *Local) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.write", err)
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "local.write.open", err)
	}
	tmp := f.Name()
	cleanup := func() { _ = os.Remove(tmp) }

	if _, err = f.Write(data); err != nil {
		f.Close()
		cleanup()
		return apperrors.Wrap(apperrors.CategoryStorage, "local.write.copy", err)
	}
	if err = f.Close(); err != nil {
		cleanup()
		return apperrors.Wrap(apperrors.CategoryStorage, "local.write.close", err)
	}
	if err = os.Chmod(tmp, l.permissions); err != nil {
		cleanup()
		return apperrors.Wrap(apperrors.CategoryStorage, "local.write.chmod", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		cleanup()
		return apperrors.Wrap(apperrors.CategoryStorage, "local.write.rename",
			fmt.Errorf("%s: %w", path, err))
	}
	return nil
}

var _ core.Filesystem = (*Local)(nil)
