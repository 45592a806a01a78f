package devwallets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/atxwallet/atxserver/internal/filex"
)

// FileBackend keeps every key as a file in one flat directory.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) Write(_ context.Context, key string, data []byte) error {
	return filex.WriteFileAtomic(b.dir, key, data, 0o640)
}

func (b *FileBackend) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (b *FileBackend) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(b.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", key, err)
}

func (b *FileBackend) Remove(_ context.Context, key string) error {
	if err := os.Remove(b.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key)
}
