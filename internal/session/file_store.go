package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go-expediente-dashboard/internal/model"
)

// FileStore persists the session as a JSON file, the gateway equivalent of
// the browser localStorage the dashboard originally relied on. Written with
// 0600: the file contains a live bearer token.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	return &FileStore{path: path}, nil
}

func (f *FileStore) Save(_ context.Context, sess model.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, f.path)
}

func (f *FileStore) Load(_ context.Context) (*model.Session, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
