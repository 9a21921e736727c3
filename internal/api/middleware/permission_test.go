package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

type stubLoader map[string]*domain.User

func (s stubLoader) Me(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func runPermission(t *testing.T, users stubLoader, userID string, perms ...string) (error, bool) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if userID != "" {
		c.Set(CtxUserID, userID)
	}
	called := false
	err := RequirePermission(users, zerolog.Nop(), perms...)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return err, called
}

func TestRequirePermission(t *testing.T) {
	users := stubLoader{
		"admin": {ID: "admin", RoleSlug: domain.RoleAdmin, Role: &domain.Role{
			Slug:        domain.RoleAdmin,
			Permissions: []domain.Permission{{Slug: "manage_roles"}, {Slug: "view_roles"}},
		}},
		"live": {ID: "live", Role: &domain.Role{Slug: "custom", Permissions: []domain.Permission{{Slug: "view_roles"}}}},
		"tech": {ID: "tech", RoleSlug: domain.RoleTechnicien, Role: &domain.Role{Slug: domain.RoleTechnicien}},
	}

	if err, called := runPermission(t, users, "admin", "manage_roles"); err != nil || !called {
		t.Fatalf("admin must pass: %v", err)
	}
	if err, called := runPermission(t, users, "live", "manage_roles", "view_roles"); err != nil || !called {
		t.Fatalf("any-of must pass on live permissions: %v", err)
	}
	if err, called := runPermission(t, users, "tech", "manage_roles"); !errors.Is(err, domain.ErrForbidden) || called {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err, _ := runPermission(t, users, "ghost", "view_roles"); err == nil {
		t.Fatalf("unknown user must be rejected")
	}
	if err, _ := runPermission(t, users, "", "view_roles"); err == nil {
		t.Fatalf("missing identity must be rejected")
	}
}

func TestRequirePermission_StoredRoleOnly(t *testing.T) {
	users := stubLoader{
		// Known role slug whose stored role was stripped of every permission.
		"stripped": {ID: "stripped", RoleSlug: domain.RoleAdmin, Role: &domain.Role{Slug: domain.RoleAdmin}},
		// Role missing from the directory altogether.
		"orphan": {ID: "orphan", RoleSlug: domain.RoleAdmin},
	}

	for _, id := range []string{"stripped", "orphan"} {
		err, called := runPermission(t, users, id, "view_roles", "manage_roles")
		if !errors.Is(err, domain.ErrForbidden) || called {
			t.Fatalf("%s: expected ErrForbidden, got %v", id, err)
		}
	}
}
