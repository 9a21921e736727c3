package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/infrastructure/session"
)

type brokenUserStore struct {
	*session.MemoryStore
}

func (b brokenUserStore) User(context.Context) (*domain.User, error) {
	return nil, errors.New("corrupt")
}

type failingSaveUserStore struct {
	*session.MemoryStore
}

func (f failingSaveUserStore) SaveUser(context.Context, *domain.User) error {
	return errors.New("disk full")
}

func TestSessionManager_FailedEstablishLeavesNoSession(t *testing.T) {
	ctx := context.Background()
	mem := session.NewMemoryStore()
	m := NewSessionManager(mem, zerolog.Nop())
	if err := m.Establish(ctx, "OLD", &domain.User{ID: "1"}); err != nil {
		t.Fatalf("establish: %v", err)
	}

	m.store = failingSaveUserStore{mem}
	v := m.Version()
	if err := m.Establish(ctx, "NEW", &domain.User{ID: "2"}); err == nil {
		t.Fatalf("expected the save failure to surface")
	}

	if m.Snapshot().Authenticated() || m.Snapshot().User != nil {
		t.Fatalf("in-memory session must be dropped: %+v", m.Snapshot())
	}
	if m.Version() == v {
		t.Fatalf("expected version bump")
	}
	if token, _ := mem.Token(ctx); token != "" {
		t.Fatalf("store must not keep a partial session, token %q", token)
	}
}

func TestSessionManager_EstablishPersists(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := NewSessionManager(store, zerolog.Nop())

	v0 := m.Version()
	if err := m.Establish(ctx, "T", &domain.User{ID: "1", RoleSlug: domain.RoleAdmin}); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if m.Version() == v0 {
		t.Fatalf("expected version bump")
	}

	token, _ := store.Token(ctx)
	user, _ := store.User(ctx)
	if token != "T" || user == nil || user.ID != "1" {
		t.Fatalf("store not updated: %q %+v", token, user)
	}
	if !m.Snapshot().Authenticated() {
		t.Fatalf("expected authenticated snapshot")
	}
}

func TestSessionManager_EstablishRejectsEmptyToken(t *testing.T) {
	m := NewSessionManager(session.NewMemoryStore(), zerolog.Nop())
	if err := m.Establish(context.Background(), "", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionManager_EstablishWithoutUserDropsStaleUser(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := NewSessionManager(store, zerolog.Nop())

	_ = m.Establish(ctx, "A", &domain.User{ID: "1"})
	if err := m.Establish(ctx, "B", nil); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if user, _ := store.User(ctx); user != nil {
		t.Fatalf("expected stale user removed, got %+v", user)
	}
}

func TestSessionManager_InvalidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := NewSessionManager(store, zerolog.Nop())
	_ = m.Establish(ctx, "T", &domain.User{ID: "1"})

	for i := 0; i < 2; i++ {
		if err := m.Invalidate(ctx); err != nil {
			t.Fatalf("invalidate #%d: %v", i, err)
		}
	}
	if token, _ := store.Token(ctx); token != "" {
		t.Fatalf("token not cleared")
	}
	if _, err := m.RequireUser(); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionManager_RestoreIgnoresCorruptUser(t *testing.T) {
	ctx := context.Background()
	mem := session.NewMemoryStore()
	_ = mem.SaveToken(ctx, "T")
	m := NewSessionManager(brokenUserStore{mem}, zerolog.Nop())

	if err := m.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	snap := m.Snapshot()
	if snap.Token != "T" || snap.User != nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSessionManager_SnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewSessionManager(session.NewMemoryStore(), zerolog.Nop())
	u := &domain.User{ID: "1", Role: withPerms("x", "a")}
	_ = m.Establish(ctx, "T", u)

	u.Role.Permissions[0].Slug = "tampered"
	if got := m.Snapshot().User.Role.Permissions[0].Slug; got != "a" {
		t.Fatalf("snapshot shares memory with caller: %s", got)
	}
}

func TestSessionManager_Refresh(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := NewSessionManager(store, zerolog.Nop())
	_ = m.Establish(ctx, "T", &domain.User{ID: "1", Nom: "Old"})

	if err := m.Refresh(ctx, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := m.Refresh(ctx, &domain.User{ID: "1", Nom: "New"}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if m.Snapshot().Token != "T" || m.Snapshot().User.Nom != "New" {
		t.Fatalf("unexpected snapshot: %+v", m.Snapshot())
	}
}
