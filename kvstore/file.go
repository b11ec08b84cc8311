package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const fileSuffix = ".json"

// File хранит каждый ключ в отдельном файле каталога dir.
// Запись идет через временный файл и rename, чтобы обрыв не оставлял половину JSON
type File struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

func NewFile(fs afero.Fs, dir string) (*File, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return &File{fs: fs, dir: dir}, nil
}

// NewOSFile - хранилище на реальной файловой системе
func NewOSFile(dir string) (*File, error) {
	return NewFile(afero.NewOsFs(), dir)
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+fileSuffix)
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := afero.ReadFile(f.fs, f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path(key) + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := f.fs.Rename(tmp, f.path(key)); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}
