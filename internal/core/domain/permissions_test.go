package domain

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
)

func TestResolvePermissions_NoUser(t *testing.T) {
	set := ResolvePermissions(nil, DefaultFallbackTable())
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.Slugs())
	}
}

func TestResolvePermissions_DirectRoleSlug(t *testing.T) {
	set := ResolvePermissions(&User{RoleSlug: RoleAdmin}, DefaultFallbackTable())
	if !set.Has("manage_users") {
		t.Fatalf("admin should have manage_users")
	}
	if set.Len() != 26 {
		t.Fatalf("expected 26 admin permissions, got %d", set.Len())
	}
}

func TestResolvePermissions_EmptyLiveListFallsThrough(t *testing.T) {
	u := &User{Role: &Role{Slug: RoleEcole, Permissions: []Permission{}}}
	got := ResolvePermissions(u, DefaultFallbackTable()).Slugs()
	want := DefaultFallbackTable()[RoleEcole]
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected ecole table %v, got %v", want, got)
	}
	found := false
	for _, p := range got {
		if p == "edit_own_school" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected edit_own_school in ecole permissions")
	}
}

func TestResolvePermissions_LivePermissionsWin(t *testing.T) {
	u := &User{Role: &Role{Slug: RoleUser, Permissions: []Permission{{Slug: "custom_perm"}}}}
	got := ResolvePermissions(u, DefaultFallbackTable()).Slugs()
	if !reflect.DeepEqual(got, []string{"custom_perm"}) {
		t.Fatalf("expected only live permission, got %v", got)
	}
}

func TestResolvePermissions_LiveBeatsDirectSlug(t *testing.T) {
	u := &User{
		RoleSlug: RoleAdmin,
		Role:     &Role{Slug: RoleAdmin, Permissions: []Permission{{Slug: "view_dashboard"}}},
	}
	set := ResolvePermissions(u, DefaultFallbackTable())
	if set.Has("manage_users") {
		t.Fatalf("live permissions must not be widened by the fallback table")
	}
}

func TestResolvePermissions_DirectSlugPreferredOverNested(t *testing.T) {
	u := &User{RoleSlug: RoleTechnicien, Role: &Role{Slug: RoleAdmin}}
	set := ResolvePermissions(u, DefaultFallbackTable())
	if !set.Has("manage_own_missions") || set.Has("manage_roles") {
		t.Fatalf("expected technicien permissions, got %v", set.Slugs())
	}
}

func TestResolvePermissions_UnknownRole(t *testing.T) {
	set := ResolvePermissions(&User{RoleSlug: "superviseur"}, DefaultFallbackTable())
	if set.Len() != 0 {
		t.Fatalf("unknown role should resolve to nothing, got %v", set.Slugs())
	}
}

func TestResolvePermissions_NoRoleAtAll(t *testing.T) {
	set := ResolvePermissions(&User{ID: "u1"}, DefaultFallbackTable())
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.Slugs())
	}
}

func TestResolvePermissions_DeduplicatesLivePermissions(t *testing.T) {
	u := &User{Role: &Role{Permissions: []Permission{{Slug: "a"}, {Slug: "b"}, {Slug: "a"}}}}
	got := ResolvePermissions(u, DefaultFallbackTable()).Slugs()
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestPermissionSet_CaseSensitive(t *testing.T) {
	set := NewPermissionSet([]string{"manage_users"})
	if set.Has("MANAGE_USERS") {
		t.Fatalf("membership must be case-sensitive")
	}
}

func TestDefaultFallbackTable_IsACopy(t *testing.T) {
	table := DefaultFallbackTable()
	table[RoleUser][0] = "tampered"
	if DefaultFallbackTable()[RoleUser][0] != "view_dashboard" {
		t.Fatalf("mutating a returned table must not affect the compiled one")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized:        ErrUnauthorized,
		http.StatusForbidden:           ErrForbidden,
		http.StatusInternalServerError: ErrServerError,
		http.StatusNotFound:            ErrNotFound,
	}
	for code, want := range cases {
		err := error(&APIError{StatusCode: code})
		if !errors.Is(err, want) {
			t.Fatalf("status %d: expected %v", code, want)
		}
	}
	if errors.Unwrap(&APIError{StatusCode: http.StatusTeapot}) != nil {
		t.Fatalf("unmapped status should not unwrap")
	}
	if StatusCode(&APIError{StatusCode: 409}) != 409 {
		t.Fatalf("StatusCode should extract the code")
	}
}
