// Package cli implements sirenctl, the operator command line of the admin
// console.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirenecole/admin-console/internal/infrastructure/config"
	"github.com/sirenecole/admin-console/internal/infrastructure/navigation"
	"github.com/sirenecole/admin-console/pkg/logger"
)

// Options lets callers (and tests) replace the process environment.
type Options struct {
	// Config skips loading from the environment when set.
	Config *config.Config
	Logger *zerolog.Logger
	Out    io.Writer
	Err    io.Writer
	// Prompt reads a secret interactively. Defaults to a huh password field.
	Prompt func(title string) (string, error)
}

// ErrSessionExpired is returned when a command ended with the session
// cleared by the transport.
var ErrSessionExpired = errors.New("session expired")

type runtime struct {
	opts   Options
	output string
	app    *App
	print  printer
}

// NewRootCommand builds the sirenctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Prompt == nil {
		opts.Prompt = promptSecret
	}
	rt := &runtime{opts: opts}

	root := &cobra.Command{
		Use:   "sirenctl",
		Short: "Administration console for the school siren platform",
		Long: `sirenctl talks to the siren administration API.

It keeps one session (token and user) between invocations, in a file, in memory
or in Redis depending on SESSION_BACKEND, and resolves permissions locally the
same way the web console does.

Examples:
  sirenctl login --email admin@siren.test
  sirenctl otp request 70000001
  sirenctl roles list -o yaml
  sirenctl can manage_roles view_roles --all`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !validFormat(rt.output) {
				return fmt.Errorf("unknown output format %q", rt.output)
			}
			return rt.start(cmd.Context(), startPath(cmd))
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.finish()
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVarP(&rt.output, "output", "o", FormatTable, "output format: table, json or yaml")

	root.AddCommand(
		newLoginCommand(rt),
		newOTPCommand(rt),
		newMeCommand(rt),
		newLogoutCommand(rt),
		newPasswordCommand(rt),
		newWhoamiCommand(rt),
		newCanCommand(rt),
		newRolesCommand(rt),
		newPermissionsCommand(rt),
		newCitiesCommand(rt),
	)
	return root
}

// Execute runs sirenctl with the process environment.
func Execute(ctx context.Context) error {
	return NewRootCommand(Options{}).ExecuteContext(ctx)
}

func (rt *runtime) start(ctx context.Context, path string) error {
	cfg := rt.opts.Config
	if cfg == nil {
		loaded, err := config.Load(ctx)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var log zerolog.Logger
	if rt.opts.Logger != nil {
		log = *rt.opts.Logger
	} else {
		log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: rt.opts.Err, Service: "sirenctl"})
	}

	app, err := NewApp(ctx, cfg, path, log)
	if err != nil {
		return err
	}
	rt.app = app
	rt.print = printer{out: rt.opts.Out, format: rt.output}
	return nil
}

// finish prints pending notifications and releases the app. It runs after
// successful commands; failed ones go through fail.
func (rt *runtime) finish() error {
	if rt.app == nil {
		return nil
	}
	rt.flushNotifications()
	err := rt.app.Close()
	rt.app = nil
	return err
}

// fail is the common error exit of a command: it surfaces notifications,
// adds a hint when the session was invalidated, and releases the app.
func (rt *runtime) fail(err error) error {
	if rt.app == nil {
		return err
	}
	expired := rt.app.Router.Redirected(navigation.LoginPath)
	_ = rt.finish()
	if expired {
		fmt.Fprintln(rt.opts.Err, warningStyle.Render("Session expirée.")+" "+mutedStyle.Render("Reconnectez-vous avec `sirenctl login`."))
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

func (rt *runtime) flushNotifications() {
	for _, n := range rt.app.Notifier.List() {
		fmt.Fprintln(rt.opts.Err, renderNotification(n))
	}
	rt.app.Notifier.ClearAll()
}

// startPath is the screen a command stands for, so the transport's
// auth-route check sees the same location the web console would.
func startPath(cmd *cobra.Command) string {
	if p, ok := cmd.Annotations["path"]; ok {
		return p
	}
	return navigation.DashboardPath
}

func at(path string) map[string]string {
	return map[string]string{"path": path}
}
