// Package filex contains small filesystem helpers for flat-directory stores.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureDir creates dir and any missing parents. It is safe to call on an
// existing directory.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// WriteFileAtomic replaces dir/name with data. The bytes are written to a
// hidden temporary file in dir and renamed over the target, so readers see
// either the old or the new content, never a partial write. Two concurrent
// writers of the same name race; the last rename wins.
func WriteFileAtomic(dir, name string, data []byte, perm os.FileMode) (err error) {
	if err := EnsureDir(dir); err != nil {
		return err
	}

	target := filepath.Join(dir, name)
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, target); err != nil {
		return fmt.Errorf("rename %s: %w", target, err)
	}
	return nil
}
