package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/core/service"
	"github.com/sirenecole/admin-console/internal/infrastructure/navigation"
	"github.com/sirenecole/admin-console/pkg/phone"
)

type runE func(cmd *cobra.Command, args []string) error

// wrap routes command errors through fail.
func (rt *runtime) wrap(fn runE) runE {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return rt.fail(err)
		}
		return nil
	}
}

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Login with email and password",
		Annotations: at(navigation.LoginPath),
		Args:        cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				p, err := rt.opts.Prompt("Mot de passe")
				if err != nil {
					return err
				}
				password = p
			}

			resp, err := rt.app.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					rt.app.Notifier.Error("Échec de connexion", "Email ou mot de passe incorrect.")
				}
				return err
			}
			rt.app.Router.Navigate(navigation.DashboardPath)
			rt.app.Notifier.Success("Connexion réussie", resp.Message)
			return rt.printUser(userOf(resp))
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newOTPCommand(rt *runtime) *cobra.Command {
	var region string
	otp := &cobra.Command{
		Use:   "otp",
		Short: "Login with a one-time code sent by SMS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	otp.PersistentFlags().StringVar(&region, "region", phone.DefaultRegion, "region for numbers without a country code")

	request := &cobra.Command{
		Use:         "request <telephone>",
		Short:       "Send a login code to a phone number",
		Annotations: at(navigation.OTPPath),
		Args:        cobra.ExactArgs(1),
		RunE: rt.wrap(func(cmd *cobra.Command, args []string) error {
			tel, err := phone.Normalize(args[0], region)
			if err != nil {
				return err
			}
			resp, err := rt.app.Auth.RequestOTP(cmd.Context(), tel)
			if err != nil {
				return err
			}
			rt.app.Notifier.Info("Code envoyé", resp.Message)
			rt.print.line("Code envoyé au %s. Validez-le avec `sirenctl otp verify %s <code>`.", tel, tel)
			return nil
		}),
	}

	verify := &cobra.Command{
		Use:         "verify <telephone> <code>",
		Short:       "Exchange a login code for a session",
		Annotations: at(navigation.OTPPath + "/verify"),
		Args:        cobra.ExactArgs(2),
		RunE: rt.wrap(func(cmd *cobra.Command, args []string) error {
			tel, err := phone.Normalize(args[0], region)
			if err != nil {
				return err
			}
			resp, err := rt.app.Auth.VerifyOTP(cmd.Context(), tel, args[1])
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					rt.app.Notifier.Error("Code invalide", "Le code est incorrect ou a expiré.")
				}
				return err
			}
			rt.app.Router.Navigate(navigation.DashboardPath)
			rt.app.Notifier.Success("Connexion réussie", resp.Message)
			return rt.printUser(userOf(resp))
		}),
	}

	otp.AddCommand(request, verify)
	return otp
}

func newMeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Fetch the current user and refresh the stored session",
		Args:  cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			user, err := rt.app.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return rt.printUser(user)
		}),
	}
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			if !rt.app.Sessions.Snapshot().Authenticated() {
				rt.print.line("Aucune session active.")
				return nil
			}
			if err := rt.app.Auth.Logout(cmd.Context()); err != nil {
				rt.app.Log.Warn().Err(err).Msg("logout reported an error")
			}
			rt.app.Router.Navigate(navigation.LoginPath)
			rt.print.line("Déconnecté.")
			return nil
		}),
	}
}

func newPasswordCommand(rt *runtime) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password of the current user",
		Args:  cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			var err error
			if current == "" {
				if current, err = rt.opts.Prompt("Ancien mot de passe"); err != nil {
					return err
				}
			}
			confirmation := next
			if next == "" {
				if next, err = rt.opts.Prompt("Nouveau mot de passe"); err != nil {
					return err
				}
				if confirmation, err = rt.opts.Prompt("Confirmation"); err != nil {
					return err
				}
			}

			resp, err := rt.app.Auth.ChangePassword(cmd.Context(), ports.ChangePasswordInput{
				Current:      current,
				New:          next,
				Confirmation: confirmation,
			})
			if err != nil {
				return err
			}
			rt.app.Notifier.Success("Mot de passe modifié", resp.Message)
			return nil
		}),
	}
	cmd.Flags().StringVar(&current, "current", "", "current password (prompted when omitted)")
	cmd.Flags().StringVar(&next, "new", "", "new password (prompted when omitted)")
	return cmd
}

type whoami struct {
	Capabilities service.Capabilities `json:"capabilities"`
	User         *domain.User         `json:"user,omitempty"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty"`
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session and what it allows, without calling the API",
		Args:  cobra.NoArgs,
		RunE: rt.wrap(func(_ *cobra.Command, _ []string) error {
			s := rt.app.Sessions.Snapshot()
			caps := rt.app.Authz.Capabilities()
			out := whoami{Capabilities: caps, User: s.User, ExpiresAt: tokenExpiry(s.Token)}

			return rt.print.print(out, func(w io.Writer) {
				if !s.Authenticated() {
					fmt.Fprintln(w, "SESSION\taucune")
					return
				}
				fmt.Fprintln(w, "SESSION\tactive")
				if out.ExpiresAt != nil {
					fmt.Fprintf(w, "EXPIRE\t%s\n", out.ExpiresAt.Local().Format("02/01/2006 15:04"))
				}
				if s.User != nil {
					fmt.Fprintf(w, "UTILISATEUR\t%s\n", s.User.Email)
				}
				source := "table locale"
				if caps.LiveData {
					source = "serveur"
				}
				fmt.Fprintf(w, "ROLE\t%s\n", caps.RoleSlug)
				fmt.Fprintf(w, "PERMISSIONS (%s)\t%d\n", source, len(caps.Permissions))
			})
		}),
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key.
func tokenExpiry(token string) *time.Time {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func userOf(resp *domain.Envelope[domain.AuthPayload]) *domain.User {
	if resp == nil || resp.Data == nil {
		return nil
	}
	return resp.Data.User
}

func (rt *runtime) printUser(u *domain.User) error {
	if u == nil {
		return nil
	}
	return rt.print.print(u, func(w io.Writer) { userTable(w, u) })
}
