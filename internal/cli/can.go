package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ErrNotPermitted is returned by `can` when the check fails, so scripts can
// rely on the exit status.
var ErrNotPermitted = errors.New("not permitted")

type canResult struct {
	Permissions []string        `json:"permissions"`
	Mode        string          `json:"mode"`
	Granted     map[string]bool `json:"granted"`
	Allowed     bool            `json:"allowed"`
}

func newCanCommand(rt *runtime) *cobra.Command {
	var all bool
	var role string
	cmd := &cobra.Command{
		Use:   "can <permission>...",
		Short: "Check permissions of the stored session",
		Long: `can resolves permissions locally: the live permissions of the stored user
when present, the built-in role table otherwise. With several permissions the
check passes if any of them is granted, or all of them with --all.

With --role the check is made against the role instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: rt.wrap(func(_ *cobra.Command, args []string) error {
			authz := rt.app.Authz
			if role != "" {
				if len(args) > 0 {
					return fmt.Errorf("--role takes no permissions")
				}
				if !authz.HasRole(role) {
					rt.print.line("non")
					return fmt.Errorf("%w: role %s", ErrNotPermitted, role)
				}
				rt.print.line("oui")
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("at least one permission is required")
			}

			res := canResult{Permissions: args, Mode: "any", Granted: make(map[string]bool, len(args))}
			for _, p := range args {
				res.Granted[p] = authz.HasPermission(p)
			}
			if all {
				res.Mode = "all"
				res.Allowed = authz.HasAllPermissions(args...)
			} else {
				res.Allowed = authz.HasAnyPermission(args...)
			}

			err := rt.print.print(res, func(w io.Writer) {
				for _, p := range args {
					fmt.Fprintf(w, "%s\t%s\n", p, yesNo(res.Granted[p]))
				}
				fmt.Fprintf(w, "RESULTAT (%s)\t%s\n", res.Mode, yesNo(res.Allowed))
			})
			if err != nil {
				return err
			}
			if !res.Allowed {
				return ErrNotPermitted
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "require every permission instead of any")
	cmd.Flags().StringVar(&role, "role", "", "check the role instead of permissions")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
