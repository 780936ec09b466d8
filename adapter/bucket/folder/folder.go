package folder

import (
	"os"
	"path/filepath"
)

// folder stores fetched documents as plain files below a base directory.
type folder struct {
	path string
}

func New(path string) *folder {
	return &folder{path: path}
}

func (f *folder) GetObject(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.path, key))
}

func (f *folder) PutObject(key string, data []byte) error {
	if err := os.MkdirAll(f.path, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.path, key), data, 0644)
}
