package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirenecole/admin-console/internal/api"
	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/service"
	"github.com/sirenecole/admin-console/internal/infrastructure/config"
	"github.com/sirenecole/admin-console/internal/infrastructure/db/memory"
	"github.com/sirenecole/admin-console/internal/infrastructure/seed"
	"github.com/sirenecole/admin-console/internal/infrastructure/session"
)

const secret = "cli-secret"

type env struct {
	cfg *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	users := memory.NewUserRepository()
	roles := memory.NewRoleRepository(users)
	cities := memory.NewCityRepository()
	require.NoError(t, seed.Run(ctx, users, roles, cities, nil, log))
	dir := service.NewDirectoryService(users, roles, cities, memory.NewOTPStore(),
		service.DirectoryConfig{JWTSecret: secret, TokenTTL: time.Hour}, log)

	srv := httptest.NewServer(api.NewRouter(api.Deps{Directory: dir, JWTSecret: secret, Log: log}))
	t.Cleanup(srv.Close)

	return &env{cfg: &config.Config{
		API: config.APIConfig{
			BaseURL:     srv.URL + api.BasePath,
			Timeout:     5 * time.Second,
			TokenKey:    "auth_token",
			UserKey:     "auth_user",
			TokenPrefix: "Bearer",
		},
		Session: config.SessionConfig{Backend: config.SessionFile, Dir: t.TempDir()},
	}}
}

// run executes one sirenctl invocation. The session persists between calls
// through the file store.
func (e *env) run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	log := zerolog.Nop()
	cmd := NewRootCommand(Options{
		Config: e.cfg,
		Logger: &log,
		Out:    &out,
		Err:    &errOut,
		Prompt: func(string) (string, error) { return seed.DefaultPassword, nil },
	})
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCLI_LoginSessionAndLogout(t *testing.T) {
	e := newEnv(t)

	out, stderr, err := e.run("login", "--email", "admin@siren.test")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@siren.test")
	assert.Contains(t, stderr, "Connexion réussie")

	out, _, err = e.run("whoami", "-o", "json")
	require.NoError(t, err)
	var who struct {
		Capabilities service.Capabilities `json:"capabilities"`
		ExpiresAt    *time.Time           `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &who))
	assert.True(t, who.Capabilities.Authenticated)
	assert.True(t, who.Capabilities.IsAdmin)
	require.NotNil(t, who.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *who.ExpiresAt, time.Minute)

	_, _, err = e.run("can", "manage_roles", "view_roles", "--all")
	require.NoError(t, err)

	out, _, err = e.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Déconnecté")

	out, _, err = e.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "aucune")
}

func TestCLI_WrongPasswordKeepsNoSession(t *testing.T) {
	e := newEnv(t)

	_, stderr, err := e.run("login", "--email", "admin@siren.test", "--password", "nope")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Contains(t, stderr, "Échec de connexion")
}

func TestCLI_RolesAndPermissions(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run("login", "--email", "admin@siren.test")
	require.NoError(t, err)

	out, _, err := e.run("roles", "list")
	require.NoError(t, err)
	for _, slug := range []string{"admin", "ecole", "technicien", "user"} {
		assert.Contains(t, out, slug)
	}

	out, _, err = e.run("roles", "create", "--nom", "Superviseur", "--slug", "superviseur", "-o", "json")
	require.NoError(t, err)
	var role domain.Role
	require.NoError(t, json.Unmarshal([]byte(out), &role))
	require.NotEmpty(t, role.ID)

	out, _, err = e.run("roles", "assign", role.ID, "view_sirens", "view_schools", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &role))
	assert.Equal(t, []string{"view_sirens", "view_schools"}, role.PermissionSlugs())

	_, _, err = e.run("roles", "assign", role.ID, "fly_to_the_moon")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, _, err = e.run("roles", "get", role.ID, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "slug: superviseur")

	_, stderr, err := e.run("roles", "delete", role.ID)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Rôle supprimé")
}

func TestCLI_ForbiddenKeepsSession(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run("login", "--email", "technicien@siren.test")
	require.NoError(t, err)

	_, stderr, err := e.run("roles", "list")
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, stderr, "Accès refusé")

	_, _, err = e.run("can", "manage_roles")
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, _, err = e.run("can", "--role", "technicien")
	assert.NoError(t, err)

	out, _, err := e.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "active")
}

func TestCLI_ExpiredSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	store, err := session.NewFileStore(e.cfg.Session.Dir, e.cfg.API.TokenKey, e.cfg.API.UserKey)
	require.NoError(t, err)
	require.NoError(t, store.SaveToken(ctx, expired))

	_, stderr, err := e.run("me")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, stderr, "Session expirée")

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCLI_Cities(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run("login", "--email", "user@siren.test")
	require.NoError(t, err)

	out, _, err := e.run("cities", "--all", "-o", "json")
	require.NoError(t, err)
	var all []domain.Ville
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, len(seed.Cities))

	out, _, err = e.run("villes", "--page", "2", "--per-page", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2/2")
	assert.Contains(t, out, "18 villes")
	assert.Equal(t, len(seed.Cities)-10, strings.Count(out, "\n")-3, out)
}

func TestCLI_OTPRequestNormalizesNumber(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run("otp", "request", "70 00 00 01")
	require.NoError(t, err)
	assert.Contains(t, out, "+22670000001")

	_, _, err = e.run("otp", "request", "abc")
	assert.Error(t, err)
}

func TestCLI_RejectsUnknownOutput(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run("whoami", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
