package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUnauthorized       = errors.New("authorization failure")
	ErrForbidden          = errors.New("access forbidden")
	ErrServerError        = errors.New("server error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleExists         = errors.New("role already exists")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
)

// APIError is returned for every non-2xx response of the admin API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Unwrap maps the status code onto the matching sentinel so callers can use
// errors.Is without inspecting codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		return ErrInvalidInput
	case http.StatusInternalServerError:
		return ErrServerError
	}
	return nil
}

// StatusCode extracts the HTTP status of err, or 0 when err does not carry one.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
