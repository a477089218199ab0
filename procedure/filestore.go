package procedure

import (
	"errors"
	"os"

	"github.com/kardolus/deskpilot/internal"
)

//go:generate mockgen -destination=persistermocks_test.go -package=procedure_test github.com/kardolus/deskpilot/procedure Persister
type Persister interface {
	Load() ([]byte, error)
	Store(value []byte) error
}

// Ensure FileStore implements the Persister interface
var _ Persister = &FileStore{}

// FileStore keeps the procedure list in a single JSON file and replaces it
// atomically on every write.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load returns nil without error when the file does not exist yet.
func (f *FileStore) Load() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (f *FileStore) Store(value []byte) error {
	return internal.WriteFileAtomic(f.path, value)
}
