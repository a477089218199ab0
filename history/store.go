package history

import (
	"path/filepath"

	"github.com/kardolus/deskpilot/internal"
	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/procedure"
	"github.com/kardolus/deskpilot/types"
)

const fileName = "history.json"

//go:generate mockgen -destination=storemocks_test.go -package=history_test github.com/kardolus/deskpilot/history Store
type Store interface {
	Delete() error
	Read() ([]types.History, error)
	Write([]types.History) error
}

// Ensure FileIO implements the Store interface
var _ Store = &FileIO{}

// FileIO keeps the transcript in one JSON file, replaced atomically on write.
type FileIO struct {
	file *procedure.FileStore
}

func New() *FileIO {
	dataHome, _ := internal.GetDataHome()
	return NewAt(filepath.Join(dataHome, fileName))
}

func NewAt(path string) *FileIO {
	return &FileIO{file: procedure.NewFileStore(path)}
}

func (f *FileIO) Path() string {
	return f.file.Path()
}

func (f *FileIO) Delete() error {
	return f.file.Store([]byte("[]"))
}

// Read returns an empty transcript when the file does not exist yet.
func (f *FileIO) Read() ([]types.History, error) {
	b, err := f.file.Load()
	if err != nil || len(b) == 0 {
		return nil, err
	}

	var result []types.History
	if err := llmjson.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *FileIO) Write(entries []types.History) error {
	data, err := llmjson.Marshal(entries)
	if err != nil {
		return err
	}
	return f.file.Store(data)
}
