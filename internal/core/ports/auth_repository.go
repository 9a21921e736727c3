package ports

import (
	"context"
	"time"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

// UserRepository backs the mock API's accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByTelephone(ctx context.Context, telephone string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// RoleRepository backs the mock API's role and permission catalogue.
// Roles returned by it always embed their full permission records.
type RoleRepository interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	FindRole(ctx context.Context, id string) (*domain.Role, error)
	FindRoleBySlug(ctx context.Context, slug string) (*domain.Role, error)
	CreateRole(ctx context.Context, role *domain.Role) (*domain.Role, error)
	UpdateRole(ctx context.Context, role *domain.Role) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) error
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
	CreatePermission(ctx context.Context, p *domain.Permission) (*domain.Permission, error)
}

// ListCitiesFilter carries the query of GET /villes. Page is 1-based.
type ListCitiesFilter struct {
	Search  string
	Page    int
	PerPage int
}

type CityRepository interface {
	ListCities(ctx context.Context, filter ListCitiesFilter) ([]domain.Ville, int64, error)
	CreateCity(ctx context.Context, v *domain.Ville) (*domain.Ville, error)
}

// OTPStore keeps one-time codes keyed by telephone number.
type OTPStore interface {
	Put(ctx context.Context, telephone, code string, ttl time.Duration) error
	// Consume returns the stored code and deletes it. ok is false when no code
	// is pending.
	Consume(ctx context.Context, telephone string) (code string, ok bool, err error)
}
