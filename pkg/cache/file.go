package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps one file per key under dir. Entries never expire.
type FileCache struct {
	dir string
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

// Path is where key is stored.
func (c *FileCache) Path(key string) string {
	return filepath.Join(c.dir, SanitizeKey(key)+".json")
}

func (c *FileCache) GetBytes(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(c.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("file cache read: %w", err)
	}
	return b, nil
}

func (c *FileCache) SetBytes(_ context.Context, key string, value []byte, _ time.Duration) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("file cache mkdir: %w", err)
	}
	tmp := c.Path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("file cache write: %w", err)
	}
	return os.Rename(tmp, c.Path(key))
}
