package service

import (
	"sync"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

// SessionSource is the read side of SessionManager.
type SessionSource interface {
	Snapshot() domain.Session
	Version() uint64
}

// Capabilities is a point-in-time view of everything the Authorizer answers.
type Capabilities struct {
	Authenticated bool     `json:"authenticated"`
	RoleSlug      string   `json:"role_slug,omitempty"`
	Permissions   []string `json:"permissions"`
	LiveData      bool     `json:"live_permissions"`
	IsAdmin       bool     `json:"is_admin"`
	IsUser        bool     `json:"is_user"`
	IsEcole       bool     `json:"is_ecole"`
	IsTechnicien  bool     `json:"is_technicien"`
}

// Authorizer answers permission and role queries for the current session.
// Effective permissions are memoized per session version, so they are
// recomputed after every login, refresh, logout or invalidation.
type Authorizer struct {
	sessions SessionSource
	table    domain.FallbackTable

	mu      sync.Mutex
	version uint64
	primed  bool
	cached  domain.PermissionSet
}

// NewAuthorizer builds an Authorizer. A nil table selects the compiled
// fallback table.
func NewAuthorizer(sessions SessionSource, table domain.FallbackTable) *Authorizer {
	if table == nil {
		table = domain.DefaultFallbackTable()
	}
	return &Authorizer{sessions: sessions, table: table}
}

func (a *Authorizer) permissions() domain.PermissionSet {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := a.sessions.Version()
	if !a.primed || v != a.version {
		a.cached = domain.ResolvePermissions(a.sessions.Snapshot().User, a.table)
		a.version = v
		a.primed = true
	}
	return a.cached
}

// EffectivePermissions returns the resolved permission slugs.
func (a *Authorizer) EffectivePermissions() []string {
	return a.permissions().Slugs()
}

func (a *Authorizer) HasPermission(permission string) bool {
	return a.permissions().Has(permission)
}

// HasAnyPermission is false for an empty argument list.
func (a *Authorizer) HasAnyPermission(permissions ...string) bool {
	set := a.permissions()
	for _, p := range permissions {
		if set.Has(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions is true for an empty argument list.
func (a *Authorizer) HasAllPermissions(permissions ...string) bool {
	set := a.permissions()
	for _, p := range permissions {
		if !set.Has(p) {
			return false
		}
	}
	return true
}

// HasRole matches either the direct role slug or the nested role's slug.
func (a *Authorizer) HasRole(role string) bool {
	return hasRole(a.sessions.Snapshot().User, role)
}

func (a *Authorizer) HasAnyRole(roles ...string) bool {
	u := a.sessions.Snapshot().User
	for _, r := range roles {
		if hasRole(u, r) {
			return true
		}
	}
	return false
}

func (a *Authorizer) IsAdmin() bool      { return a.resolvedRole() == domain.RoleAdmin }
func (a *Authorizer) IsUser() bool       { return a.resolvedRole() == domain.RoleUser }
func (a *Authorizer) IsEcole() bool      { return a.resolvedRole() == domain.RoleEcole }
func (a *Authorizer) IsTechnicien() bool { return a.resolvedRole() == domain.RoleTechnicien }

func (a *Authorizer) resolvedRole() string {
	return a.sessions.Snapshot().User.ResolvedRoleSlug()
}

// Capabilities collects the answers for display.
func (a *Authorizer) Capabilities() Capabilities {
	s := a.sessions.Snapshot()
	role := s.User.ResolvedRoleSlug()
	return Capabilities{
		Authenticated: s.Authenticated(),
		RoleSlug:      role,
		Permissions:   a.EffectivePermissions(),
		LiveData:      s.User.HasLivePermissions(),
		IsAdmin:       role == domain.RoleAdmin,
		IsUser:        role == domain.RoleUser,
		IsEcole:       role == domain.RoleEcole,
		IsTechnicien:  role == domain.RoleTechnicien,
	}
}

func hasRole(u *domain.User, role string) bool {
	if u == nil || role == "" {
		return false
	}
	if u.RoleSlug == role {
		return true
	}
	return u.Role != nil && u.Role.Slug == role
}
