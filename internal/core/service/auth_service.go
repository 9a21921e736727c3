package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

type otpRequest struct {
	Telephone string `json:"telephone" validate:"required"`
}

type otpVerifyRequest struct {
	Telephone string `json:"telephone" validate:"required"`
	OTP       string `json:"otp"       validate:"required,numeric"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService drives the authentication endpoints and keeps the session in
// step with their outcome.
type AuthService struct {
	api      ports.APIClient
	sessions *SessionManager
	log      zerolog.Logger
}

func NewAuthService(api ports.APIClient, sessions *SessionManager, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, log: log}
}

// RequestOTP asks the API to send a login code to telephone.
func (s *AuthService) RequestOTP(ctx context.Context, telephone string) (*domain.Envelope[domain.AuthPayload], error) {
	body := otpRequest{Telephone: telephone}
	if err := validateInput(body); err != nil {
		return nil, err
	}

	var resp domain.Envelope[domain.AuthPayload]
	err := s.api.Do(ctx, ports.APIRequest{
		Method:           http.MethodPost,
		Path:             "/auth/request-otp",
		Body:             body,
		SkipAuthRedirect: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("request otp: %w", err)
	}
	return &resp, nil
}

// VerifyOTP exchanges a code for a token and establishes the session.
func (s *AuthService) VerifyOTP(ctx context.Context, telephone, otp string) (*domain.Envelope[domain.AuthPayload], error) {
	body := otpVerifyRequest{Telephone: telephone, OTP: otp}
	if err := validateInput(body); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "/auth/verify-otp", body)
}

// Login authenticates with email and password and establishes the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Envelope[domain.AuthPayload], error) {
	body := loginRequest{Email: email, Password: password}
	if err := validateInput(body); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "/auth/login", body)
}

func (s *AuthService) authenticate(ctx context.Context, path string, body any) (*domain.Envelope[domain.AuthPayload], error) {
	var resp domain.Envelope[domain.AuthPayload]
	err := s.api.Do(ctx, ports.APIRequest{
		Method:           http.MethodPost,
		Path:             path,
		Body:             body,
		SkipAuthRedirect: true,
	}, &resp)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, fmt.Errorf("%s: %w: %w", path, domain.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if resp.Data != nil && resp.Data.AccessToken != "" {
		if err := s.sessions.Establish(ctx, resp.Data.AccessToken, resp.Data.User); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Me fetches the current user and refreshes the stored record. The API may
// answer with the bare user or with the usual envelope.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var resp meResponse
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: "/auth/me"}, &resp); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}

	user := resp.user()
	if user == nil {
		return nil, fmt.Errorf("me: %w", domain.ErrUserNotFound)
	}
	if err := s.sessions.Refresh(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout notifies the API and always ends the local session. The server error,
// if any, is returned after the session is cleared.
func (s *AuthService) Logout(ctx context.Context) error {
	apiErr := s.api.Do(ctx, ports.APIRequest{Method: http.MethodPost, Path: "/auth/logout"}, nil)
	if apiErr != nil {
		s.log.Warn().Err(apiErr).Msg("logout call failed, clearing local session anyway")
	}
	if err := s.sessions.End(ctx); err != nil {
		return errors.Join(apiErr, err)
	}
	if apiErr != nil {
		return fmt.Errorf("logout: %w", apiErr)
	}
	return nil
}

// ChangePassword updates the password of the current user.
func (s *AuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) (*domain.Envelope[domain.AuthPayload], error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var resp domain.Envelope[domain.AuthPayload]
	err := s.api.Do(ctx, ports.APIRequest{
		Method: http.MethodPost,
		Path:   "/auth/changerMotDePasse",
		Body:   in,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	return &resp, nil
}

// meResponse accepts both {"success":..,"data":{user}} and a bare user object.
type meResponse struct {
	domain.User
	Success *bool        `json:"success,omitempty"`
	Data    *domain.User `json:"data,omitempty"`
}

func (r *meResponse) user() *domain.User {
	if r.Data != nil {
		return r.Data
	}
	if r.Success == nil && r.ID != "" {
		u := r.User
		return &u
	}
	return nil
}
