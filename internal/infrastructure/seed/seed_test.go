package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/infrastructure/db/memory"
)

func TestRun_SeedsEveryRoleFromTable(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	roles := memory.NewRoleRepository(users)
	cities := memory.NewCityRepository()

	require.NoError(t, Run(ctx, users, roles, cities, nil, zerolog.Nop()))

	table := domain.DefaultFallbackTable()
	for slug, perms := range table {
		role, err := roles.FindRoleBySlug(ctx, slug)
		require.NoError(t, err, slug)
		assert.ElementsMatch(t, domain.NewPermissionSet(perms).Slugs(), role.PermissionSlugs(), slug)
	}

	admin, err := users.FindByEmail(ctx, "admin@siren.test")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.RoleSlug)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(DefaultPassword)))

	_, total, err := cities.ListCities(ctx, ports.ListCitiesFilter{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.EqualValues(t, len(Cities), total)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	roles := memory.NewRoleRepository(users)
	cities := memory.NewCityRepository()

	require.NoError(t, Run(ctx, users, roles, cities, nil, zerolog.Nop()))
	require.NoError(t, Run(ctx, users, roles, cities, nil, zerolog.Nop()))

	list, err := roles.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Manage work orders", humanize("manage_work_orders"))
	assert.Equal(t, "", humanize(""))
}
