package ports

import (
	"context"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

// ChangePasswordInput carries the fields of /auth/changerMotDePasse.
type ChangePasswordInput struct {
	Current      string `json:"ancien_mot_de_passe"                validate:"required"`
	New          string `json:"nouveau_mot_de_passe"               validate:"required,min=8"`
	Confirmation string `json:"nouveau_mot_de_passe_confirmation"  validate:"required,eqfield=New"`
}

type AuthService interface {
	RequestOTP(ctx context.Context, telephone string) (*domain.Envelope[domain.AuthPayload], error)
	VerifyOTP(ctx context.Context, telephone, otp string) (*domain.Envelope[domain.AuthPayload], error)
	Login(ctx context.Context, email, password string) (*domain.Envelope[domain.AuthPayload], error)
	Me(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, in ChangePasswordInput) (*domain.Envelope[domain.AuthPayload], error)
}

// CreateRoleInput is the payload of POST /roles.
type CreateRoleInput struct {
	Nom         string `json:"nom"                   validate:"required"`
	Slug        string `json:"slug"                  validate:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateRoleInput is the payload of PUT /roles/{id}; empty fields are left
// untouched by the server.
type UpdateRoleInput struct {
	Nom         string `json:"nom,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

type RoleService interface {
	List(ctx context.Context) (*domain.Envelope[[]domain.Role], error)
	Get(ctx context.Context, id string) (*domain.Envelope[domain.Role], error)
	Create(ctx context.Context, in CreateRoleInput) (*domain.Envelope[domain.Role], error)
	Update(ctx context.Context, id string, in UpdateRoleInput) (*domain.Envelope[domain.Role], error)
	Delete(ctx context.Context, id string) (*domain.Envelope[struct{}], error)
	AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) (*domain.Envelope[domain.Role], error)
	RemovePermissions(ctx context.Context, roleID string, permissionIDs []string) (*domain.Envelope[domain.Role], error)
	SyncPermissions(ctx context.Context, roleID string, permissionIDs []string) (*domain.Envelope[domain.Role], error)
	Permissions(ctx context.Context) (*domain.Envelope[[]domain.Permission], error)
}

// CityQuery carries the listing parameters of GET /villes.
type CityQuery struct {
	Page    int
	PerPage int
	Search  string
}

type CityService interface {
	List(ctx context.Context, q CityQuery) (*domain.Envelope[domain.CityPage], error)
	All(ctx context.Context, search string) ([]domain.Ville, error)
}
