package cache

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kardolus/deskpilot/internal"
)

//go:generate mockgen -destination=storemocks_test.go -package=cache_test github.com/kardolus/deskpilot/cache Store
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
	}
}

// Ensure FileStore implements the Store interface
var _ Store = &FileStore{}

// FileStore keeps one JSON file per key under baseDir.
type FileStore struct {
	baseDir string
}

// Get returns nil without error for a key that was never set.
func (f *FileStore) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(f.pathForKey(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func (f *FileStore) Set(key string, value []byte) error {
	return internal.WriteFileAtomic(f.pathForKey(key), value)
}

func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.pathForKey(key))
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (f *FileStore) pathForKey(key string) string {
	// keys are sha256 hex, already safe as file names
	return filepath.Join(f.baseDir, key+".json")
}
