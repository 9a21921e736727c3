package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

type permissionIDsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

// RoleService wraps the /roles and /permissions resources.
type RoleService struct {
	api ports.APIClient
}

func NewRoleService(api ports.APIClient) *RoleService {
	return &RoleService{api: api}
}

func (s *RoleService) List(ctx context.Context) (*domain.Envelope[[]domain.Role], error) {
	var resp domain.Envelope[[]domain.Role]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: "/roles"}, &resp); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return &resp, nil
}

func (s *RoleService) Get(ctx context.Context, id string) (*domain.Envelope[domain.Role], error) {
	if id == "" {
		return nil, fmt.Errorf("get role: %w: empty id", domain.ErrInvalidInput)
	}
	var resp domain.Envelope[domain.Role]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: rolePath(id)}, &resp); err != nil {
		return nil, fmt.Errorf("get role %s: %w", id, err)
	}
	return &resp, nil
}

func (s *RoleService) Create(ctx context.Context, in ports.CreateRoleInput) (*domain.Envelope[domain.Role], error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var resp domain.Envelope[domain.Role]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodPost, Path: "/roles", Body: in}, &resp); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return &resp, nil
}

func (s *RoleService) Update(ctx context.Context, id string, in ports.UpdateRoleInput) (*domain.Envelope[domain.Role], error) {
	if id == "" {
		return nil, fmt.Errorf("update role: %w: empty id", domain.ErrInvalidInput)
	}
	var resp domain.Envelope[domain.Role]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodPut, Path: rolePath(id), Body: in}, &resp); err != nil {
		return nil, fmt.Errorf("update role %s: %w", id, err)
	}
	return &resp, nil
}

func (s *RoleService) Delete(ctx context.Context, id string) (*domain.Envelope[struct{}], error) {
	if id == "" {
		return nil, fmt.Errorf("delete role: %w: empty id", domain.ErrInvalidInput)
	}
	var resp domain.Envelope[struct{}]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodDelete, Path: rolePath(id)}, &resp); err != nil {
		return nil, fmt.Errorf("delete role %s: %w", id, err)
	}
	return &resp, nil
}

// AssignPermissions adds permissions to the role.
func (s *RoleService) AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) (*domain.Envelope[domain.Role], error) {
	return s.changePermissions(ctx, roleID, "assign", permissionIDs)
}

// RemovePermissions takes permissions away from the role.
func (s *RoleService) RemovePermissions(ctx context.Context, roleID string, permissionIDs []string) (*domain.Envelope[domain.Role], error) {
	return s.changePermissions(ctx, roleID, "remove", permissionIDs)
}

// SyncPermissions replaces the role's permissions with exactly permissionIDs.
func (s *RoleService) SyncPermissions(ctx context.Context, roleID string, permissionIDs []string) (*domain.Envelope[domain.Role], error) {
	return s.changePermissions(ctx, roleID, "sync", permissionIDs)
}

func (s *RoleService) changePermissions(ctx context.Context, roleID, op string, ids []string) (*domain.Envelope[domain.Role], error) {
	if roleID == "" {
		return nil, fmt.Errorf("%s permissions: %w: empty role id", op, domain.ErrInvalidInput)
	}
	if ids == nil {
		ids = []string{}
	}
	var resp domain.Envelope[domain.Role]
	err := s.api.Do(ctx, ports.APIRequest{
		Method: http.MethodPost,
		Path:   rolePath(roleID) + "/permissions/" + op,
		Body:   permissionIDsRequest{PermissionIDs: ids},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s permissions on role %s: %w", op, roleID, err)
	}
	return &resp, nil
}

// Permissions lists every permission the API knows about. The data block may
// be a flat list or a paginated {data, pagination} object; both come back as
// the flat list of the returned page.
func (s *RoleService) Permissions(ctx context.Context) (*domain.Envelope[[]domain.Permission], error) {
	var raw domain.Envelope[json.RawMessage]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: "/permissions"}, &raw); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	resp := &domain.Envelope[[]domain.Permission]{Success: raw.Success, Message: raw.Message}
	if raw.Data == nil {
		return resp, nil
	}
	perms, err := decodePermissions(*raw.Data)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	resp.Data = &perms
	return resp, nil
}

func decodePermissions(data json.RawMessage) ([]domain.Permission, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.Permission{}, nil
	}
	if trimmed[0] == '[' {
		var flat []domain.Permission
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return nil, err
		}
		return flat, nil
	}
	var page struct {
		Data       []domain.Permission `json:"data"`
		Pagination *domain.Pagination  `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []domain.Permission{}
	}
	return page.Data, nil
}

func rolePath(id string) string {
	return "/roles/" + url.PathEscape(id)
}
