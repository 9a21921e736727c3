package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// SessionStore keeps the session in Redis so several terminals share it.
// Key format: session:<key>
type SessionStore struct {
	client   redis.Cmdable
	tokenKey string
	userKey  string
}

func NewSessionStore(client redis.Cmdable, tokenKey, userKey string) *SessionStore {
	return &SessionStore{client: client, tokenKey: sessionKey(tokenKey), userKey: sessionKey(userKey)}
}

func (s *SessionStore) Token(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return token, nil
}

func (s *SessionStore) User(ctx context.Context) (*domain.User, error) {
	raw, err := s.client.Get(ctx, s.userKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("session user: decode: %w", err)
	}
	return &u, nil
}

func (s *SessionStore) SaveToken(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.tokenKey, token, 0).Err()
}

func (s *SessionStore) SaveUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return s.client.Del(ctx, s.userKey).Err()
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session user: encode: %w", err)
	}
	return s.client.Set(ctx, s.userKey, raw, 0).Err()
}

// Clear deletes both keys; deleting missing keys is not an error in Redis.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.tokenKey, s.userKey).Err()
}

func sessionKey(key string) string {
	return "session:" + key
}

var _ ports.SessionStore = (*SessionStore)(nil)
