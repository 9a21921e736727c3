package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// SessionManager owns the client's session. The snapshot it hands out is
// immutable; every mutation bumps Version so derived state can be recomputed.
//
// Only Establish, Refresh, End and Invalidate mutate the session.
type SessionManager struct {
	store ports.SessionStore
	log   zerolog.Logger

	mu      sync.RWMutex
	current domain.Session
	version uint64
}

func NewSessionManager(store ports.SessionStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, log: log}
}

// Restore rebuilds the session from persisted storage. A corrupt user record
// is dropped rather than failing startup.
func (m *SessionManager) Restore(ctx context.Context) error {
	token, err := m.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	user, err := m.store.User(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("stored user unreadable, ignoring")
		user = nil
	}

	m.mu.Lock()
	m.current = domain.Session{Token: token, User: user}
	m.version++
	m.mu.Unlock()
	return nil
}

// Establish persists a freshly issued token and user (login, OTP verify).
func (m *SessionManager) Establish(ctx context.Context, token string, user *domain.User) error {
	if token == "" {
		return fmt.Errorf("establish session: %w", domain.ErrInvalidInput)
	}
	if err := m.persist(ctx, token, user); err != nil {
		// The store may now hold nothing or half a session; drop both sides.
		if clearErr := m.clear(ctx); clearErr != nil {
			m.log.Error().Err(clearErr).Msg("clear after failed establish")
		}
		return fmt.Errorf("establish session: %w", err)
	}

	m.mu.Lock()
	m.current = domain.Session{Token: token, User: cloneUser(user)}
	m.version++
	m.mu.Unlock()

	m.log.Info().Str("user_id", userID(user)).Msg("session established")
	return nil
}

func (m *SessionManager) persist(ctx context.Context, token string, user *domain.User) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	if err := m.store.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if user != nil {
		if err := m.store.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	}
	return nil
}

// Refresh replaces the user record, keeping the token (the /auth/me path).
func (m *SessionManager) Refresh(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("refresh session: %w", domain.ErrInvalidInput)
	}
	if err := m.store.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	m.mu.Lock()
	m.current.User = cloneUser(user)
	m.version++
	m.mu.Unlock()
	return nil
}

// End clears the session on explicit logout.
func (m *SessionManager) End(ctx context.Context) error {
	if err := m.clear(ctx); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	m.log.Info().Msg("session ended")
	return nil
}

// Invalidate clears the session after an authorization failure. Invalidating
// an already empty session is harmless.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	if err := m.clear(ctx); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	m.log.Warn().Msg("session invalidated")
	return nil
}

func (m *SessionManager) clear(ctx context.Context) error {
	err := m.store.Clear(ctx)

	m.mu.Lock()
	m.current = domain.Session{}
	m.version++
	m.mu.Unlock()
	return err
}

// Snapshot returns the current session.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Version increases on every mutation.
func (m *SessionManager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Token reads the persisted token, which is what outgoing requests use.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	return m.store.Token(ctx)
}

// RequireUser returns the session user or ErrUnauthenticated.
func (m *SessionManager) RequireUser() (*domain.User, error) {
	s := m.Snapshot()
	if s.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.User, nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Role != nil {
		role := *u.Role
		role.Permissions = append([]domain.Permission(nil), u.Role.Permissions...)
		clone.Role = &role
	}
	return &clone
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

