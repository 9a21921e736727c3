package domain

// FallbackTable maps a role slug to its permission slugs. It mirrors the
// server-side role definitions and is only consulted when the session carries
// no live permission data.
type FallbackTable map[string][]string

// DefaultFallbackTable returns a copy of the compiled role table.
func DefaultFallbackTable() FallbackTable {
	out := make(FallbackTable, len(fallbackPermissions))
	for role, perms := range fallbackPermissions {
		out[role] = append([]string(nil), perms...)
	}
	return out
}

// Lookup returns the permissions of role and whether the role is known.
func (t FallbackTable) Lookup(role string) ([]string, bool) {
	perms, ok := t[role]
	return perms, ok
}

var fallbackPermissions = map[string][]string{
	RoleAdmin: {
		"view_dashboard",
		"manage_countries",
		"manage_schools",
		"view_schools",
		"manage_users",
		"view_users",
		"manage_roles",
		"view_roles",
		"manage_permissions",
		"manage_technicians",
		"view_technicians",
		"manage_siren_models",
		"manage_sirens",
		"view_sirens",
		"manage_breakdowns",
		"view_breakdowns",
		"manage_work_orders",
		"view_work_orders",
		"manage_subscriptions",
		"view_subscriptions",
		"manage_calendar",
		"view_calendar",
		"view_reports",
		"manage_settings",
		"manage_payments",
		"view_payments",
	},
	RoleUser: {
		"view_dashboard",
		"view_schools",
		"view_sirens",
		"view_breakdowns",
		"view_subscriptions",
		"view_calendar",
	},
	RoleEcole: {
		"view_dashboard",
		"view_schools",
		"edit_own_school",
		"view_sirens",
		"manage_breakdowns",
		"view_breakdowns",
		"view_subscriptions",
		"manage_subscriptions",
		"view_calendar",
		"manage_calendar",
		"view_payments",
		"view_users",
		"manage_users",
	},
	RoleTechnicien: {
		"view_dashboard",
		"view_work_orders",
		"manage_own_missions",
		"view_breakdowns",
		"manage_interventions",
		"view_sirens",
	},
}

// PermissionSet is an effective, de-duplicated set of permission slugs that
// remembers insertion order for display.
type PermissionSet struct {
	order []string
	index map[string]struct{}
}

// NewPermissionSet builds a set from slugs, dropping duplicates and empty
// values.
func NewPermissionSet(slugs []string) PermissionSet {
	s := PermissionSet{
		order: make([]string, 0, len(slugs)),
		index: make(map[string]struct{}, len(slugs)),
	}
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if _, dup := s.index[slug]; dup {
			continue
		}
		s.index[slug] = struct{}{}
		s.order = append(s.order, slug)
	}
	return s
}

// Has is an exact, case-sensitive membership test.
func (s PermissionSet) Has(slug string) bool {
	_, ok := s.index[slug]
	return ok
}

func (s PermissionSet) Len() int { return len(s.order) }

// Slugs returns a copy of the members in insertion order.
func (s PermissionSet) Slugs() []string {
	return append([]string{}, s.order...)
}

// ResolvePermissions computes the effective permissions of u. Precedence:
// live permissions on the nested role, then the fallback entry of the
// resolved role slug. A nil user or an unknown slug yields the empty set.
func ResolvePermissions(u *User, table FallbackTable) PermissionSet {
	if u == nil {
		return NewPermissionSet(nil)
	}
	if u.HasLivePermissions() {
		return NewPermissionSet(u.Role.PermissionSlugs())
	}
	slug := u.ResolvedRoleSlug()
	if slug == "" {
		return NewPermissionSet(nil)
	}
	perms, _ := table.Lookup(slug)
	return NewPermissionSet(perms)
}
