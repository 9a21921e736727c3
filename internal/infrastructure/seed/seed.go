// Package seed fills an empty mock API store with the platform's roles,
// their permissions, one account per role and a list of cities.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Account describes one seeded user.
type Account struct {
	Nom       string
	Prenom    string
	Email     string
	Telephone string
	RoleSlug  string
}

var roleNames = map[string]string{
	domain.RoleAdmin:      "Administrateur",
	domain.RoleUser:       "Utilisateur",
	domain.RoleEcole:      "École",
	domain.RoleTechnicien: "Technicien",
}

// Accounts lists the seeded users, one per role.
var Accounts = []Account{
	{Nom: "Admin", Prenom: "Siren", Email: "admin@siren.test", Telephone: "+22670000001", RoleSlug: domain.RoleAdmin},
	{Nom: "Utilisateur", Prenom: "Siren", Email: "user@siren.test", Telephone: "+22670000002", RoleSlug: domain.RoleUser},
	{Nom: "Ecole", Prenom: "Siren", Email: "ecole@siren.test", Telephone: "+22670000003", RoleSlug: domain.RoleEcole},
	{Nom: "Technicien", Prenom: "Siren", Email: "technicien@siren.test", Telephone: "+22670000004", RoleSlug: domain.RoleTechnicien},
}

// Cities lists the seeded city names.
var Cities = []string{
	"Ouagadougou", "Bobo-Dioulasso", "Koudougou", "Banfora", "Ouahigouya",
	"Kaya", "Tenkodogo", "Fada N'gourma", "Dédougou", "Gaoua",
	"Abidjan", "Bouaké", "Yamoussoukro", "Dakar", "Bamako", "Niamey", "Lomé", "Cotonou",
}

// Run seeds roles, permissions, users and cities. It does nothing when the
// admin role already exists, so restarting against a persistent store is safe.
func Run(ctx context.Context, users ports.UserRepository, roles ports.RoleRepository, cities ports.CityRepository, table domain.FallbackTable, log zerolog.Logger) error {
	if table == nil {
		table = domain.DefaultFallbackTable()
	}
	if _, err := roles.FindRoleBySlug(ctx, domain.RoleAdmin); err == nil {
		log.Info().Msg("store already seeded")
		return nil
	} else if !errors.Is(err, domain.ErrRoleNotFound) {
		return fmt.Errorf("seed: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	bySlug := make(map[string]domain.Permission)
	for _, slug := range permissionSlugs(table) {
		p, err := roles.CreatePermission(ctx, &domain.Permission{Slug: slug, Nom: humanize(slug), CreatedAt: now})
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", slug, err)
		}
		bySlug[slug] = *p
	}

	roleSlugs := make([]string, 0, len(table))
	for slug := range table {
		roleSlugs = append(roleSlugs, slug)
	}
	sort.Strings(roleSlugs)
	for _, slug := range roleSlugs {
		perms := make([]domain.Permission, 0, len(table[slug]))
		for _, ps := range domain.NewPermissionSet(table[slug]).Slugs() {
			perms = append(perms, bySlug[ps])
		}
		nom := roleNames[slug]
		if nom == "" {
			nom = humanize(slug)
		}
		if _, err := roles.CreateRole(ctx, &domain.Role{Slug: slug, Nom: nom, Permissions: perms, CreatedAt: now, UpdatedAt: now}); err != nil {
			return fmt.Errorf("seed role %s: %w", slug, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}
	for _, a := range Accounts {
		_, err := users.Create(ctx, &domain.User{
			Nom:          a.Nom,
			Prenom:       a.Prenom,
			Email:        a.Email,
			Telephone:    a.Telephone,
			PasswordHash: string(hash),
			RoleSlug:     a.RoleSlug,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.Email, err)
		}
	}

	for _, nom := range Cities {
		if _, err := cities.CreateCity(ctx, &domain.Ville{Nom: nom, CreatedAt: now}); err != nil {
			return fmt.Errorf("seed city %s: %w", nom, err)
		}
	}

	log.Info().
		Int("permissions", len(bySlug)).
		Int("roles", len(roleSlugs)).
		Int("users", len(Accounts)).
		Int("cities", len(Cities)).
		Msg("store seeded")
	return nil
}

func permissionSlugs(table domain.FallbackTable) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, perms := range table {
		for _, p := range perms {
			if _, ok := seen[p]; ok || p == "" {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// humanize turns "manage_work_orders" into "Manage work orders".
func humanize(slug string) string {
	s := strings.ReplaceAll(slug, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
