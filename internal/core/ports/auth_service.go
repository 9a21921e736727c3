package ports

import (
	"context"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

// IssuedToken is what the mock API hands back on a successful login.
type IssuedToken struct {
	AccessToken string
	ExpiresIn   int64
	User        *domain.User
}

// Directory is the mock API's use-case layer: authentication plus the role
// and city catalogues.
type Directory interface {
	RequestOTP(ctx context.Context, telephone string) error
	VerifyOTP(ctx context.Context, telephone, code string) (*IssuedToken, error)
	Login(ctx context.Context, email, password string) (*IssuedToken, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error

	ListRoles(ctx context.Context) ([]domain.Role, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	CreateRole(ctx context.Context, in CreateRoleInput) (*domain.Role, error)
	UpdateRole(ctx context.Context, id string, in UpdateRoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) error
	ChangeRolePermissions(ctx context.Context, roleID string, op PermissionOp, permissionIDs []string) (*domain.Role, error)
	ListPermissions(ctx context.Context) ([]domain.Permission, error)

	ListCities(ctx context.Context, filter ListCitiesFilter) ([]domain.Ville, int64, error)
}

// PermissionOp selects how ChangeRolePermissions combines the given ids with
// the role's current permissions.
type PermissionOp string

const (
	PermissionAssign PermissionOp = "assign"
	PermissionRemove PermissionOp = "remove"
	PermissionSync   PermissionOp = "sync"
)
