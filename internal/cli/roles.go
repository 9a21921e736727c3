package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/infrastructure/navigation"
)

func newRolesCommand(rt *runtime) *cobra.Command {
	roles := &cobra.Command{
		Use:   "roles",
		Short: "Manage roles and their permissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List roles",
		Annotations: at(navigation.RolesPath),
		Args:        cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			resp, err := rt.app.Roles.List(cmd.Context())
			if err != nil {
				return err
			}
			items := deref(resp.Data)
			return rt.print.print(items, func(w io.Writer) { rolesTable(w, items) })
		}),
	}

	get := &cobra.Command{
		Use:         "get <id>",
		Short:       "Show a role",
		Annotations: at(navigation.RolesPath),
		Args:        cobra.ExactArgs(1),
		RunE: rt.wrap(func(cmd *cobra.Command, args []string) error {
			resp, err := rt.app.Roles.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.printRole(resp.Data)
		}),
	}

	var in ports.CreateRoleInput
	create := &cobra.Command{
		Use:         "create",
		Short:       "Create a role",
		Annotations: at(navigation.RolesPath),
		Args:        cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			resp, err := rt.app.Roles.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			rt.app.Notifier.Success("Rôle créé", resp.Message)
			return rt.printRole(resp.Data)
		}),
	}
	create.Flags().StringVar(&in.Nom, "nom", "", "display name")
	create.Flags().StringVar(&in.Slug, "slug", "", "unique slug")
	create.Flags().StringVar(&in.Description, "description", "", "description")

	var up ports.UpdateRoleInput
	update := &cobra.Command{
		Use:         "update <id>",
		Short:       "Update a role; empty fields are left unchanged",
		Annotations: at(navigation.RolesPath),
		Args:        cobra.ExactArgs(1),
		RunE: rt.wrap(func(cmd *cobra.Command, args []string) error {
			resp, err := rt.app.Roles.Update(cmd.Context(), args[0], up)
			if err != nil {
				return err
			}
			rt.app.Notifier.Success("Rôle mis à jour", resp.Message)
			return rt.printRole(resp.Data)
		}),
	}
	update.Flags().StringVar(&up.Nom, "nom", "", "display name")
	update.Flags().StringVar(&up.Slug, "slug", "", "unique slug")
	update.Flags().StringVar(&up.Description, "description", "", "description")

	del := &cobra.Command{
		Use:         "delete <id>",
		Short:       "Delete a role",
		Annotations: at(navigation.RolesPath),
		Args:        cobra.ExactArgs(1),
		RunE: rt.wrap(func(cmd *cobra.Command, args []string) error {
			resp, err := rt.app.Roles.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rt.app.Notifier.Success("Rôle supprimé", resp.Message)
			return nil
		}),
	}

	roles.AddCommand(list, get, create, update, del,
		permissionOpCommand(rt, ports.PermissionAssign, "Add permissions to a role"),
		permissionOpCommand(rt, ports.PermissionRemove, "Remove permissions from a role"),
		permissionOpCommand(rt, ports.PermissionSync, "Replace the permissions of a role"),
	)
	return roles
}

// permissionOpCommand builds `roles assign|remove|sync <id> <permission>...`.
// Permissions may be given by id or by slug.
func permissionOpCommand(rt *runtime, op ports.PermissionOp, short string) *cobra.Command {
	return &cobra.Command{
		Use:         string(op) + " <role-id> [permission]...",
		Short:       short,
		Annotations: at(navigation.RolesPath),
		Args:        cobra.MinimumNArgs(1),
		RunE: rt.wrap(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids, err := rt.permissionIDs(ctx, args[1:])
			if err != nil {
				return err
			}

			var resp *domain.Envelope[domain.Role]
			switch op {
			case ports.PermissionAssign:
				resp, err = rt.app.Roles.AssignPermissions(ctx, args[0], ids)
			case ports.PermissionRemove:
				resp, err = rt.app.Roles.RemovePermissions(ctx, args[0], ids)
			default:
				resp, err = rt.app.Roles.SyncPermissions(ctx, args[0], ids)
			}
			if err != nil {
				return err
			}
			rt.app.Notifier.Success("Permissions mises à jour", resp.Message)
			return rt.printRole(resp.Data)
		}),
	}
}

func newPermissionsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "permissions",
		Short:       "List the permission catalogue",
		Annotations: at(navigation.RolesPath),
		Args:        cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			resp, err := rt.app.Roles.Permissions(cmd.Context())
			if err != nil {
				return err
			}
			items := deref(resp.Data)
			return rt.print.print(items, func(w io.Writer) { permissionsTable(w, items) })
		}),
	}
}

// permissionIDs resolves slugs to ids through the catalogue. Arguments that
// already are ids pass through.
func (rt *runtime) permissionIDs(ctx context.Context, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	resp, err := rt.app.Roles.Permissions(ctx)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]string)
	byID := make(map[string]struct{})
	for _, p := range deref(resp.Data) {
		bySlug[p.Slug] = p.ID
		byID[p.ID] = struct{}{}
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := byID[ref]; ok {
			ids = append(ids, ref)
			continue
		}
		id, ok := bySlug[ref]
		if !ok {
			return nil, fmt.Errorf("%w: unknown permission %q", domain.ErrInvalidInput, ref)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (rt *runtime) printRole(r *domain.Role) error {
	if r == nil {
		return nil
	}
	return rt.print.print(r, func(w io.Writer) { roleTable(w, r) })
}

func deref[T any](p *[]T) []T {
	if p == nil {
		return nil
	}
	return *p
}
