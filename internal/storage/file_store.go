package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/petd/internal/model"
)

// FileStore keeps one JSON document per key under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage: file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Path is the file backing key.
func (s *FileStore) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Load(_ context.Context, key string) (model.AppState, error) {
	path, err := s.Path(key)
	if err != nil {
		return model.AppState{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.AppState{}, ErrNotFound
		}
		return model.AppState{}, err
	}
	return decodeState(raw)
}

func (s *FileStore) Save(_ context.Context, key string, state model.AppState) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	payload, err := encodeState(state)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
