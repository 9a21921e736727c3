package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// FileStore persists each key as a file in dir, readable only by the owner.
type FileStore struct {
	dir      string
	tokenKey string
	userKey  string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir, tokenKey, userKey string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file session store: %w: empty directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file session store: %w", err)
	}
	return &FileStore{dir: dir, tokenKey: tokenKey, userKey: userKey}, nil
}

func (s *FileStore) Token(_ context.Context) (string, error) {
	raw, err := s.read(s.tokenKey)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileStore) User(_ context.Context) (*domain.User, error) {
	raw, err := s.read(s.userKey)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

func (s *FileStore) SaveToken(_ context.Context, token string) error {
	return s.write(s.tokenKey, []byte(token))
}

func (s *FileStore) SaveUser(_ context.Context, user *domain.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	if raw == nil {
		return s.remove(s.userKey)
	}
	return s.write(s.userKey, raw)
}

func (s *FileStore) Clear(_ context.Context) error {
	return errors.Join(s.remove(s.tokenKey), s.remove(s.userKey))
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStore) read(key string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, nil
}

// write goes through a temp file so a crash never leaves a torn value.
func (s *FileStore) write(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

var _ ports.SessionStore = (*FileStore)(nil)
