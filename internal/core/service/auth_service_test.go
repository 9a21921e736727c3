package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/infrastructure/session"
)

func newAuthFixture(respond func(ports.APIRequest) (int, any)) (*AuthService, *stubAPI, *session.MemoryStore, *SessionManager) {
	api := &stubAPI{respond: respond}
	store := session.NewMemoryStore()
	sessions := NewSessionManager(store, zerolog.Nop())
	return NewAuthService(api, sessions, zerolog.Nop()), api, store, sessions
}

func TestAuthService_LoginEstablishesSession(t *testing.T) {
	svc, api, store, _ := newAuthFixture(func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"message":"ok","data":{"access_token":"T","token_type":"Bearer","user":{"id":"1","roleSlug":"admin"}}}`
	})

	resp, err := svc.Login(context.Background(), "admin@siren.test", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Data == nil || resp.Data.AccessToken != "T" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	call := api.lastCall()
	if call.Path != "/auth/login" || call.Method != http.MethodPost || !call.SkipAuthRedirect {
		t.Fatalf("unexpected call: %+v", call)
	}
	token, _ := store.Token(context.Background())
	user, _ := store.User(context.Background())
	if token != "T" || user == nil || user.RoleSlug != domain.RoleAdmin {
		t.Fatalf("session not persisted: %q %+v", token, user)
	}
}

func TestAuthService_LoginRejectedKeepsSession(t *testing.T) {
	svc, _, store, sessions := newAuthFixture(func(ports.APIRequest) (int, any) {
		return http.StatusUnauthorized, "Identifiants invalides"
	})
	ctx := context.Background()
	_ = sessions.Establish(ctx, "OLD", &domain.User{ID: "1"})

	_, err := svc.Login(ctx, "admin@siren.test", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
	if token, _ := store.Token(ctx); token != "OLD" {
		t.Fatalf("session must be untouched, token=%q", token)
	}
}

func TestAuthService_LoginValidation(t *testing.T) {
	svc, api, _, _ := newAuthFixture(nil)

	if _, err := svc.Login(context.Background(), "not-an-email", "x"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if api.callCount() != 0 {
		t.Fatalf("invalid input must not reach the API")
	}
}

func TestAuthService_OTPFlow(t *testing.T) {
	svc, api, store, _ := newAuthFixture(func(call ports.APIRequest) (int, any) {
		if call.Path == "/auth/request-otp" {
			return http.StatusOK, `{"success":true,"message":"Code envoyé"}`
		}
		return http.StatusOK, `{"success":true,"data":{"access_token":"OTP-T","user":{"id":"3","roleSlug":"ecole"}}}`
	})
	ctx := context.Background()

	resp, err := svc.RequestOTP(ctx, "+22670000003")
	if err != nil || resp.Message != "Code envoyé" {
		t.Fatalf("request otp: %v %+v", err, resp)
	}
	if !api.lastCall().SkipAuthRedirect {
		t.Fatalf("otp request must skip the auth redirect")
	}
	if _, err := svc.VerifyOTP(ctx, "+22670000003", "12ab"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected numeric validation, got %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "+22670000003", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if token, _ := store.Token(ctx); token != "OTP-T" {
		t.Fatalf("expected OTP token persisted, got %q", token)
	}
}

func TestAuthService_MeAcceptsEnvelopeOrBareUser(t *testing.T) {
	for name, body := range map[string]string{
		"envelope": `{"success":true,"data":{"id":"1","nom":"Ada","roleSlug":"admin"}}`,
		"bare":     `{"id":"1","nom":"Ada","roleSlug":"admin"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc, _, store, sessions := newAuthFixture(func(ports.APIRequest) (int, any) { return http.StatusOK, body })
			ctx := context.Background()
			_ = sessions.Establish(ctx, "T", &domain.User{ID: "1"})

			user, err := svc.Me(ctx)
			if err != nil {
				t.Fatalf("me: %v", err)
			}
			if user.Nom != "Ada" {
				t.Fatalf("unexpected user: %+v", user)
			}
			stored, _ := store.User(ctx)
			if stored == nil || stored.Nom != "Ada" {
				t.Fatalf("stored user not refreshed: %+v", stored)
			}
		})
	}
}

func TestAuthService_MeWithoutUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture(func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":false,"message":"no user"}`
	})
	if _, err := svc.Me(context.Background()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_LogoutAlwaysClears(t *testing.T) {
	svc, _, store, sessions := newAuthFixture(func(ports.APIRequest) (int, any) {
		return http.StatusInternalServerError, "boom"
	})
	ctx := context.Background()
	_ = sessions.Establish(ctx, "T", &domain.User{ID: "1"})

	err := svc.Logout(ctx)
	if !errors.Is(err, domain.ErrServerError) {
		t.Fatalf("expected server error surfaced, got %v", err)
	}
	if token, _ := store.Token(ctx); token != "" {
		t.Fatalf("token must be cleared even when the API fails")
	}
	if sessions.Snapshot().Authenticated() {
		t.Fatalf("snapshot must be cleared")
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, api, _, _ := newAuthFixture(func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"message":"Mot de passe modifié"}`
	})
	ctx := context.Background()

	bad := ports.ChangePasswordInput{Current: "old", New: "newpassword", Confirmation: "different"}
	if _, err := svc.ChangePassword(ctx, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected confirmation mismatch, got %v", err)
	}

	in := ports.ChangePasswordInput{Current: "old", New: "newpassword", Confirmation: "newpassword"}
	resp, err := svc.ChangePassword(ctx, in)
	if err != nil || !resp.Success {
		t.Fatalf("change password: %v %+v", err, resp)
	}
	call := api.lastCall()
	if call.Path != "/auth/changerMotDePasse" || call.SkipAuthRedirect {
		t.Fatalf("unexpected call: %+v", call)
	}
}
