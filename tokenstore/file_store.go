package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/reposcribe/internal/errors"
)

const defaultFileName = "storage.json"

var _ Store = (*FileStore)(nil)

// FileStore keeps a small JSON key/value document on disk, the way a browser
// keeps localStorage. Only the configured key is touched; other keys in the
// document are preserved.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewFileStore stores the token under key in <folder>/storage.json.
func NewFileStore(folder, key string) (*FileStore, error) {
	if key == "" {
		return nil, fmt.Errorf("[tokenstore NewFileStore] key is required")
	}
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, errors.Wrapf(err, "[tokenstore NewFileStore] create folder")
	}
	return &FileStore{path: filepath.Join(folder, defaultFileName), key: key}, nil
}

func (s *FileStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	token, ok := values[s.key]
	if !ok || token == "" {
		return "", errors.ErrTokenNotFound
	}
	return token, nil
}

func (s *FileStore) Set(token string) error {
	if token == "" {
		return errors.ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[s.key] = token
	return s.save(values)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[s.key]; !ok {
		return nil
	}
	delete(values, s.key)
	return s.save(values)
}

func (s *FileStore) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[tokenstore FileStore] read")
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(err, "[tokenstore FileStore] decode")
	}
	return values, nil
}

// save writes through a temp file so a crash never leaves a half written document.
func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "[tokenstore FileStore] encode")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "[tokenstore FileStore] write")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrapf(err, "[tokenstore FileStore] rename")
	}
	return nil
}
