package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

func TestRoleService_Paths(t *testing.T) {
	api := &stubAPI{respond: func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"data":{"id":"r1","slug":"admin","permissions":[]}}`
	}}
	svc := NewRoleService(api)
	ctx := context.Background()

	cases := []struct {
		name   string
		run    func() error
		method string
		path   string
	}{
		{"get", func() error { _, err := svc.Get(ctx, "r1"); return err }, http.MethodGet, "/roles/r1"},
		{"update", func() error { _, err := svc.Update(ctx, "r1", ports.UpdateRoleInput{Nom: "A"}); return err }, http.MethodPut, "/roles/r1"},
		{"delete", func() error { _, err := svc.Delete(ctx, "r1"); return err }, http.MethodDelete, "/roles/r1"},
		{"assign", func() error { _, err := svc.AssignPermissions(ctx, "r1", []string{"p1"}); return err }, http.MethodPost, "/roles/r1/permissions/assign"},
		{"remove", func() error { _, err := svc.RemovePermissions(ctx, "r1", []string{"p1"}); return err }, http.MethodPost, "/roles/r1/permissions/remove"},
		{"sync", func() error { _, err := svc.SyncPermissions(ctx, "r1", nil); return err }, http.MethodPost, "/roles/r1/permissions/sync"},
		{"escaped", func() error { _, err := svc.Get(ctx, "a/b"); return err }, http.MethodGet, "/roles/a%2Fb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			call := api.lastCall()
			if call.Method != tc.method || call.Path != tc.path {
				t.Fatalf("got %s %s, want %s %s", call.Method, call.Path, tc.method, tc.path)
			}
		})
	}
}

func TestRoleService_SyncSendsEmptyList(t *testing.T) {
	api := &stubAPI{}
	svc := NewRoleService(api)

	if _, err := svc.SyncPermissions(context.Background(), "r1", nil); err != nil {
		t.Fatalf("sync: %v", err)
	}
	body, ok := api.lastCall().Body.(permissionIDsRequest)
	if !ok || body.PermissionIDs == nil || len(body.PermissionIDs) != 0 {
		t.Fatalf("expected an empty, non-nil id list, got %#v", api.lastCall().Body)
	}
}

func TestRoleService_CreateValidates(t *testing.T) {
	api := &stubAPI{}
	svc := NewRoleService(api)

	if _, err := svc.Create(context.Background(), ports.CreateRoleInput{Nom: "Auditeur"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing slug, got %v", err)
	}
	if _, err := svc.Delete(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
	if api.callCount() != 0 {
		t.Fatalf("invalid input must not reach the API")
	}
}

func TestRoleService_ListDecodes(t *testing.T) {
	api := &stubAPI{respond: func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"data":[{"id":"1","slug":"admin","permissions":[{"id":"p","slug":"manage_roles"}]}]}`
	}}
	resp, err := NewRoleService(api).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	roles := *resp.Data
	if len(roles) != 1 || !reflect.DeepEqual(roles[0].PermissionSlugs(), []string{"manage_roles"}) {
		t.Fatalf("unexpected roles: %+v", roles)
	}
}

func TestRoleService_ForbiddenSurfaces(t *testing.T) {
	api := &stubAPI{respond: func(ports.APIRequest) (int, any) { return http.StatusForbidden, "" }}
	if _, err := NewRoleService(api).Permissions(context.Background()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRoleService_PermissionsAcceptsBothShapes(t *testing.T) {
	cases := map[string]string{
		"flat":      `{"success":true,"data":[{"id":"p1","slug":"view_roles"},{"id":"p2","slug":"manage_roles"}]}`,
		"paginated": `{"success":true,"data":{"data":[{"id":"p1","slug":"view_roles"},{"id":"p2","slug":"manage_roles"}],"pagination":{"current_page":1,"last_page":1,"per_page":15,"total":2}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			api := &stubAPI{respond: func(ports.APIRequest) (int, any) { return http.StatusOK, body }}
			resp, err := NewRoleService(api).Permissions(context.Background())
			if err != nil {
				t.Fatalf("permissions: %v", err)
			}
			if !resp.Success || resp.Data == nil {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
			got := make([]string, 0, len(*resp.Data))
			for _, p := range *resp.Data {
				got = append(got, p.Slug)
			}
			if !reflect.DeepEqual(got, []string{"view_roles", "manage_roles"}) {
				t.Fatalf("unexpected permissions: %v", got)
			}
		})
	}
}

func TestRoleService_PermissionsRejectsMalformedData(t *testing.T) {
	api := &stubAPI{respond: func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"data":"oops"}`
	}}
	if _, err := NewRoleService(api).Permissions(context.Background()); err == nil {
		t.Fatalf("expected a decode error")
	}
}
