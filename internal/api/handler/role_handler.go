package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirenecole/admin-console/internal/core/ports"
)

type RoleHandler struct {
	directory ports.Directory
}

func NewRoleHandler(directory ports.Directory) *RoleHandler {
	return &RoleHandler{directory: directory}
}

type permissionIDsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

// List returns every role with its permissions.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.directory.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", roles)
}

// Get returns one role.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.directory.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", role)
}

// Create adds a role without permissions.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateRoleInput  true  "Role"
// @Success      201   {object}  envelope
// @Failure      409   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req ports.CreateRoleInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := h.directory.CreateRole(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Rôle créé avec succès.", role)
}

// Update changes the non-empty fields of a role.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Role id"
// @Param        body  body      ports.UpdateRoleInput  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req ports.UpdateRoleInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := h.directory.UpdateRole(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Rôle mis à jour avec succès.", role)
}

// Delete removes a role.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.directory.DeleteRole(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Rôle supprimé avec succès.", nil)
}

// ChangePermissions assigns, removes or syncs permissions on a role.
//
// @Summary      Change role permissions
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Role id"
// @Param        op    path      string                true  "assign, remove or sync"
// @Param        body  body      permissionIDsRequest  true  "Permission ids"
// @Success      200   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /roles/{id}/permissions/{op} [post]
func (h *RoleHandler) ChangePermissions(c echo.Context) error {
	op := ports.PermissionOp(c.Param("op"))
	switch op {
	case ports.PermissionAssign, ports.PermissionRemove, ports.PermissionSync:
	default:
		return echo.NewHTTPError(http.StatusNotFound, "Opération inconnue.")
	}

	var req permissionIDsRequest
	if err := c.Bind(&req); err != nil {
		return invalid("Données invalides.")
	}
	role, err := h.directory.ChangeRolePermissions(c.Request().Context(), c.Param("id"), op, req.PermissionIDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permissions mises à jour avec succès.", role)
}

// Permissions lists the permission catalogue.
//
// @Summary      List permissions
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /permissions [get]
func (h *RoleHandler) Permissions(c echo.Context) error {
	perms, err := h.directory.ListPermissions(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", perms)
}
