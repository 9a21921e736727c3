package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

const (
	defaultTokenTTL = 24 * time.Hour
	defaultOTPTTL   = 5 * time.Minute
	maxCityPerPage  = 1000
)

// DirectoryConfig tunes DirectoryService.
type DirectoryConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
}

// DirectoryService implements the mock admin API's use cases.
type DirectoryService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	cities ports.CityRepository
	otps   ports.OTPStore
	cfg    DirectoryConfig
	log    zerolog.Logger

	newCode func() (string, error)
	now     func() time.Time
}

func NewDirectoryService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	cities ports.CityRepository,
	otps ports.OTPStore,
	cfg DirectoryConfig,
	log zerolog.Logger,
) *DirectoryService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}
	return &DirectoryService{
		users:   users,
		roles:   roles,
		cities:  cities,
		otps:    otps,
		cfg:     cfg,
		log:     log,
		newCode: randomOTP,
		now:     time.Now,
	}
}

// RequestOTP stores a fresh code for telephone. The mock API has no SMS
// gateway, so the code is logged.
func (s *DirectoryService) RequestOTP(ctx context.Context, telephone string) error {
	if telephone == "" {
		return domain.ErrInvalidInput
	}
	if _, err := s.users.FindByTelephone(ctx, telephone); err != nil {
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otps.Put(ctx, telephone, code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	s.log.Info().Str("telephone", telephone).Str("otp", code).Msg("otp issued")
	return nil
}

func (s *DirectoryService) VerifyOTP(ctx context.Context, telephone, code string) (*ports.IssuedToken, error) {
	if telephone == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}
	stored, ok, err := s.otps.Consume(ctx, telephone)
	if err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	if !ok || stored != code {
		return nil, domain.ErrInvalidOTP
	}

	user, err := s.users.FindByTelephone(ctx, telephone)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *DirectoryService) Login(ctx context.Context, email, password string) (*ports.IssuedToken, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// Me returns the user with its role and live permissions embedded.
func (s *DirectoryService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withRole(ctx, user)
}

func (s *DirectoryService) ChangePassword(ctx context.Context, userID string, in ports.ChangePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, user.ID, string(hash))
}

func (s *DirectoryService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.ListRoles(ctx)
}

func (s *DirectoryService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindRole(ctx, id)
}

func (s *DirectoryService) CreateRole(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.roles.FindRoleBySlug(ctx, in.Slug); err == nil {
		return nil, domain.ErrRoleExists
	} else if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, err
	}

	now := s.timestamp()
	return s.roles.CreateRole(ctx, &domain.Role{
		Slug:        in.Slug,
		Nom:         in.Nom,
		Description: in.Description,
		Permissions: []domain.Permission{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *DirectoryService) UpdateRole(ctx context.Context, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
	role, err := s.roles.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Slug != "" && in.Slug != role.Slug {
		if _, err := s.roles.FindRoleBySlug(ctx, in.Slug); err == nil {
			return nil, domain.ErrRoleExists
		}
		role.Slug = in.Slug
	}
	if in.Nom != "" {
		role.Nom = in.Nom
	}
	if in.Description != "" {
		role.Description = in.Description
	}
	role.UpdatedAt = s.timestamp()
	return s.roles.UpdateRole(ctx, role)
}

func (s *DirectoryService) DeleteRole(ctx context.Context, id string) error {
	return s.roles.DeleteRole(ctx, id)
}

// ChangeRolePermissions applies op with the given permission ids. Unknown ids
// are rejected before anything is written.
func (s *DirectoryService) ChangeRolePermissions(ctx context.Context, roleID string, op ports.PermissionOp, permissionIDs []string) (*domain.Role, error) {
	role, err := s.roles.FindRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	catalogue, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Permission, len(catalogue))
	for _, p := range catalogue {
		byID[p.ID] = p
	}
	requested := make(map[string]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: unknown permission %q", domain.ErrInvalidInput, id)
		}
		requested[id] = struct{}{}
	}

	var next []domain.Permission
	switch op {
	case ports.PermissionSync:
		next = make([]domain.Permission, 0, len(permissionIDs))
	case ports.PermissionAssign, ports.PermissionRemove:
		next = make([]domain.Permission, 0, len(role.Permissions)+len(permissionIDs))
		for _, p := range role.Permissions {
			if _, drop := requested[p.ID]; drop && op == ports.PermissionRemove {
				continue
			}
			next = append(next, p)
		}
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidInput, op)
	}

	if op != ports.PermissionRemove {
		present := make(map[string]struct{}, len(next))
		for _, p := range next {
			present[p.ID] = struct{}{}
		}
		for _, id := range permissionIDs {
			if _, ok := present[id]; ok {
				continue
			}
			present[id] = struct{}{}
			next = append(next, byID[id])
		}
	}

	role.Permissions = next
	role.UpdatedAt = s.timestamp()
	return s.roles.UpdateRole(ctx, role)
}

func (s *DirectoryService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.roles.ListPermissions(ctx)
}

// ListCities clamps paging to sane bounds before querying.
func (s *DirectoryService) ListCities(ctx context.Context, filter ports.ListCitiesFilter) ([]domain.Ville, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 15
	}
	if filter.PerPage > maxCityPerPage {
		filter.PerPage = maxCityPerPage
	}
	return s.cities.ListCities(ctx, filter)
}

func (s *DirectoryService) withRole(ctx context.Context, user *domain.User) (*domain.User, error) {
	out := *user
	if out.RoleSlug == "" {
		return &out, nil
	}
	role, err := s.roles.FindRoleBySlug(ctx, out.RoleSlug)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return &out, nil
		}
		return nil, err
	}
	out.Role = role
	return &out, nil
}

func (s *DirectoryService) issue(ctx context.Context, user *domain.User) (*ports.IssuedToken, error) {
	full, err := s.withRole(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := s.generateToken(full)
	if err != nil {
		return nil, err
	}
	return &ports.IssuedToken{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.TokenTTL.Seconds()),
		User:        full,
	}, nil
}

func (s *DirectoryService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.RoleSlug,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *DirectoryService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// randomOTP returns a six digit code.
func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
