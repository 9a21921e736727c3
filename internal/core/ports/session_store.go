package ports

import (
	"context"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

// TokenSource yields the persisted bearer token, or "" when none is stored.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SessionStore persists the two keyed values that make up a session: the
// token and the serialized user record.
type SessionStore interface {
	TokenSource
	User(ctx context.Context) (*domain.User, error)
	SaveToken(ctx context.Context, token string) error
	SaveUser(ctx context.Context, user *domain.User) error
	// Clear removes both values. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
