package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key inside a base directory. It is the fast
// primary tier: reads and writes are plain filesystem operations.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	buf, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return buf, nil
}

func (s *FileStore) Put(key string, value []byte) error {
	// Write to a temp file then rename so a crash never leaves a
	// half-written document behind.
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

var fileNameReplacer = strings.NewReplacer(":", "_", "/", "_", "\\", "_")

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, fileNameReplacer.Replace(key)+".json")
}
