package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/metrics"
)

type AuthHandler struct {
	directory ports.Directory
}

func NewAuthHandler(directory ports.Directory) *AuthHandler {
	return &AuthHandler{directory: directory}
}

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

// RequestOTP sends a one-time code to a registered phone number.
//
// @Summary      Request a login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequest  true  "Phone number"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req otpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.directory.RequestOTP(c.Request().Context(), req.Telephone); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Code OTP envoyé.", nil)
}

// VerifyOTP exchanges a code for an access token.
//
// @Summary      Verify a login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpVerifyRequest  true  "Phone number and code"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpVerifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	issued, err := h.directory.VerifyOTP(c.Request().Context(), req.Telephone, req.OTP)
	recordLogin("otp", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Connexion réussie.", authPayload(issued))
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	issued, err := h.directory.Login(c.Request().Context(), req.Email, req.Password)
	recordLogin("password", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Connexion réussie.", authPayload(issued))
}

// Me returns the authenticated user with its role and permissions.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.directory.Me(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}
		return err
	}
	return respond(c, http.StatusOK, "", user)
}

// Logout acknowledges the logout. Tokens are stateless and simply expire.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return respond(c, http.StatusOK, "Déconnexion réussie.", nil)
}

// ChangePassword updates the password of the authenticated user.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.ChangePasswordInput  true  "Old and new passwords"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /auth/changerMotDePasse [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req ports.ChangePasswordInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.directory.ChangePassword(c.Request().Context(), id, req); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return invalid("L'ancien mot de passe est incorrect.")
		}
		return err
	}
	return respond(c, http.StatusOK, "Mot de passe modifié avec succès.", nil)
}

func authPayload(issued *ports.IssuedToken) domain.AuthPayload {
	return domain.AuthPayload{
		AccessToken: issued.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   issued.ExpiresIn,
		User:        issued.User,
	}
}

func recordLogin(method string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.LoginsTotal.WithLabelValues(method, result).Inc()
}
