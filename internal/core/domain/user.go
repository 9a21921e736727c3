package domain

const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleEcole      = "ecole"
	RoleTechnicien = "technicien"
)

// Permission is a capability granted through a role. Slugs are stable and
// unique across the platform.
type Permission struct {
	ID          string `json:"id"           bson:"_id,omitempty"`
	Slug        string `json:"slug"         bson:"slug"`
	Nom         string `json:"nom"          bson:"nom"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"  bson:"created_at,omitempty"`
}

// Role groups permissions under a slug.
type Role struct {
	ID          string       `json:"id"           bson:"_id,omitempty"`
	Slug        string       `json:"slug"         bson:"slug"`
	Nom         string       `json:"nom"          bson:"nom"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Permissions []Permission `json:"permissions"  bson:"permissions"`
	UsersCount  int          `json:"users_count,omitempty" bson:"-"`
	CreatedAt   string       `json:"created_at,omitempty"  bson:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"  bson:"updated_at,omitempty"`
}

// PermissionSlugs returns the slugs carried by the role, in order.
func (r *Role) PermissionSlugs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Slug)
	}
	return out
}

// User is the authenticated account as returned by /auth/me, login and OTP
// verification. RoleSlug and Role are both optional; when both are present
// RoleSlug names the role.
type User struct {
	ID           string `json:"id"`
	Nom          string `json:"nom,omitempty"`
	Prenom       string `json:"prenom,omitempty"`
	Email        string `json:"email,omitempty"`
	Telephone    string `json:"telephone,omitempty"`
	PasswordHash string `json:"-"`
	RoleSlug     string `json:"roleSlug,omitempty"`
	Role         *Role  `json:"role,omitempty"`
}

// ResolvedRoleSlug returns the direct role slug, or the nested role's slug
// when the direct field is empty.
func (u *User) ResolvedRoleSlug() string {
	if u == nil {
		return ""
	}
	if u.RoleSlug != "" {
		return u.RoleSlug
	}
	if u.Role != nil {
		return u.Role.Slug
	}
	return ""
}

// HasLivePermissions reports whether the nested role carries a non-empty
// permission list. An empty list counts as "no live data".
func (u *User) HasLivePermissions() bool {
	return u != nil && u.Role != nil && len(u.Role.Permissions) > 0
}
