package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// These tests need a MongoDB server; set MONGO_TEST_URI to run them. Each test
// works in a throwaway database.
func testDB(t *testing.T) (*RoleRepository, *UserRepository, *CityRepository) {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "siren_test_" + uuid.NewString()[:8], Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return NewRoleRepository(db), NewUserRepository(db), NewCityRepository(db)
}

func TestRoleRepository_Lifecycle(t *testing.T) {
	roles, users, _ := testDB(t)
	ctx := context.Background()

	perm, err := roles.CreatePermission(ctx, &domain.Permission{Slug: "view_roles", Nom: "View roles"})
	if err != nil {
		t.Fatalf("create permission: %v", err)
	}
	role, err := roles.CreateRole(ctx, &domain.Role{Slug: "admin", Nom: "Administrateur", Permissions: []domain.Permission{*perm}})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if _, err := roles.CreateRole(ctx, &domain.Role{Slug: "admin", Nom: "Doublon"}); !errors.Is(err, domain.ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
	if _, err := users.Create(ctx, &domain.User{Email: "a@siren.test", Telephone: "+22670000001", RoleSlug: "admin"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	list, err := roles.ListRoles(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list roles: %v %v", list, err)
	}
	if list[0].UsersCount != 1 || len(list[0].Permissions) != 1 {
		t.Fatalf("unexpected role: %+v", list[0])
	}

	role.Permissions = nil
	role.Description = "updated"
	if _, err := roles.UpdateRole(ctx, role); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := roles.FindRoleBySlug(ctx, "admin")
	if err != nil || got.Description != "updated" {
		t.Fatalf("find by slug: %+v %v", got, err)
	}

	if err := roles.DeleteRole(ctx, role.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := roles.FindRole(ctx, role.ID); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	_, users, _ := testDB(t)
	ctx := context.Background()

	created, err := users.Create(ctx, &domain.User{Email: "e@siren.test", Telephone: "+22670000003", RoleSlug: "ecole", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.Create(ctx, &domain.User{Email: "e@siren.test"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("duplicate email: expected ErrInvalidInput, got %v", err)
	}

	byTel, err := users.FindByTelephone(ctx, "+22670000003")
	if err != nil || byTel.ID != created.ID {
		t.Fatalf("find by telephone: %+v %v", byTel, err)
	}
	if err := users.UpdatePasswordHash(ctx, created.ID, "h2"); err != nil {
		t.Fatalf("update hash: %v", err)
	}
	byID, err := users.FindByID(ctx, created.ID)
	if err != nil || byID.PasswordHash != "h2" {
		t.Fatalf("find by id: %+v %v", byID, err)
	}
	if _, err := users.FindByID(ctx, "not-an-object-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCityRepository_SearchAndPaging(t *testing.T) {
	_, _, cities := testDB(t)
	ctx := context.Background()

	for _, nom := range []string{"Ouagadougou", "Bobo-Dioulasso", "Koudougou", "Kaya"} {
		if _, err := cities.CreateCity(ctx, &domain.Ville{Nom: nom}); err != nil {
			t.Fatalf("create city: %v", err)
		}
	}

	page, total, err := cities.ListCities(ctx, ports.ListCitiesFilter{Page: 2, PerPage: 3})
	if err != nil || total != 4 || len(page) != 1 || page[0].Nom != "Ouagadougou" {
		t.Fatalf("paging: %+v %d %v", page, total, err)
	}

	found, total, err := cities.ListCities(ctx, ports.ListCitiesFilter{Page: 1, PerPage: 10, Search: "DOUGOU"})
	if err != nil || total != 2 || len(found) != 2 {
		t.Fatalf("search: %+v %d %v", found, total, err)
	}
}
