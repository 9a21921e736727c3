// Package session holds the local SessionStore backends. The Redis backend
// lives with the other Redis helpers in db/redis.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// MemoryStore keeps the session for the lifetime of the process. The user is
// kept serialized so callers never share a pointer with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) User(_ context.Context) (*domain.User, error) {
	s.mu.RLock()
	raw := s.user
	s.mu.RUnlock()
	return decodeUser(raw)
}

func (s *MemoryStore) SaveToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *domain.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = raw
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func encodeUser(user *domain.User) ([]byte, error) {
	if user == nil {
		return nil, nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return raw, nil
}

func decodeUser(raw []byte) (*domain.User, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

var _ ports.SessionStore = (*MemoryStore)(nil)
