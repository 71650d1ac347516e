package database

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
)

// FileStore keeps every document as <dir>/<name>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.WrapIf(err, "creating data directory")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the document from disk.
func (s *FileStore) Load(_ context.Context, name string, out interface{}) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapIfWithDetails(err, "reading document", "document", name)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.WrapIfWithDetails(err, "decoding document", "document", name)
	}
	return true, nil
}

// Save writes the document through a temporary file so a crash never leaves half a file behind.
func (s *FileStore) Save(_ context.Context, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.WrapIfWithDetails(err, "encoding document", "document", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return errors.WrapIf(err, "creating temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapIf(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapIf(err, "closing temp file")
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return errors.WrapIfWithDetails(err, "replacing document", "document", name)
	}
	return nil
}

// Backend implements Store
func (s *FileStore) Backend() string {
	return "json:" + s.dir
}
