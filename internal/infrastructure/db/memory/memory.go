// Package memory holds process-local repositories for the mock API. They
// satisfy the same ports as the MongoDB and Redis adapters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if user.Email != "" && u.Email == user.Email {
			return nil, fmt.Errorf("%w: email %s already used", domain.ErrInvalidInput, user.Email)
		}
	}
	u := *user
	u.Role = nil
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) FindByTelephone(_ context.Context, telephone string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Telephone == telephone })
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.users[id] = u
	return nil
}

func (r *UserRepository) countByRole(slug string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, u := range r.users {
		if u.RoleSlug == slug {
			n++
		}
	}
	return n
}

func (r *UserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// RoleRepository keeps roles and the permission catalogue. users is optional
// and only feeds UsersCount.
type RoleRepository struct {
	mu          sync.RWMutex
	roles       map[string]domain.Role
	permissions map[string]domain.Permission
	users       *UserRepository
}

func NewRoleRepository(users *UserRepository) *RoleRepository {
	return &RoleRepository{
		roles:       make(map[string]domain.Role),
		permissions: make(map[string]domain.Permission),
		users:       users,
	}
}

func (r *RoleRepository) ListRoles(_ context.Context) ([]domain.Role, error) {
	r.mu.RLock()
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, cloneRole(role))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	if r.users != nil {
		for i := range out {
			out[i].UsersCount = r.users.countByRole(out[i].Slug)
		}
	}
	return out, nil
}

func (r *RoleRepository) FindRole(_ context.Context, id string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	out := cloneRole(role)
	return &out, nil
}

func (r *RoleRepository) FindRoleBySlug(_ context.Context, slug string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range r.roles {
		if role.Slug == slug {
			out := cloneRole(role)
			return &out, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *RoleRepository) CreateRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(role.Slug, "") {
		return nil, domain.ErrRoleExists
	}
	stored := cloneRole(*role)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Permissions == nil {
		stored.Permissions = []domain.Permission{}
	}
	r.roles[stored.ID] = stored
	out := cloneRole(stored)
	return &out, nil
}

func (r *RoleRepository) UpdateRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	if r.slugTaken(role.Slug, role.ID) {
		return nil, domain.ErrRoleExists
	}
	stored := cloneRole(*role)
	r.roles[role.ID] = stored
	out := cloneRole(stored)
	return &out, nil
}

func (r *RoleRepository) DeleteRole(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *RoleRepository) ListPermissions(_ context.Context) ([]domain.Permission, error) {
	r.mu.RLock()
	out := make([]domain.Permission, 0, len(r.permissions))
	for _, p := range r.permissions {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *RoleRepository) CreatePermission(_ context.Context, p *domain.Permission) (*domain.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.permissions {
		if existing.Slug == p.Slug {
			return nil, fmt.Errorf("%w: permission %s exists", domain.ErrInvalidInput, p.Slug)
		}
	}
	stored := *p
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.permissions[stored.ID] = stored
	return &stored, nil
}

// slugTaken must be called with mu held.
func (r *RoleRepository) slugTaken(slug, exceptID string) bool {
	for id, role := range r.roles {
		if role.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func cloneRole(role domain.Role) domain.Role {
	role.Permissions = append([]domain.Permission(nil), role.Permissions...)
	if role.Permissions == nil {
		role.Permissions = []domain.Permission{}
	}
	return role
}

type CityRepository struct {
	mu     sync.RWMutex
	cities []domain.Ville
}

func NewCityRepository() *CityRepository {
	return &CityRepository{}
}

func (r *CityRepository) ListCities(_ context.Context, filter ports.ListCitiesFilter) ([]domain.Ville, int64, error) {
	r.mu.RLock()
	matched := make([]domain.Ville, 0, len(r.cities))
	needle := strings.ToLower(filter.Search)
	for _, v := range r.cities {
		if needle == "" || strings.Contains(strings.ToLower(v.Nom), needle) {
			matched = append(matched, v)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Nom < matched[j].Nom })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PerPage
	if start < 0 || start >= len(matched) {
		return []domain.Ville{}, total, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *CityRepository) CreateCity(_ context.Context, v *domain.Ville) (*domain.Ville, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *v
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.cities = append(r.cities, stored)
	return &stored, nil
}

type otpEntry struct {
	code    string
	expires time.Time
}

// OTPStore keeps codes in memory; expired codes behave as absent.
type OTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	now   func() time.Time
}

func NewOTPStore() *OTPStore {
	return &OTPStore{codes: make(map[string]otpEntry), now: time.Now}
}

func (s *OTPStore) Put(_ context.Context, telephone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[telephone] = otpEntry{code: code, expires: s.now().Add(ttl)}
	return nil
}

func (s *OTPStore) Consume(_ context.Context, telephone string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.codes[telephone]
	if !ok {
		return "", false, nil
	}
	delete(s.codes, telephone)
	if !s.now().Before(e.expires) {
		return "", false, nil
	}
	return e.code, true, nil
}

var (
	_ ports.UserRepository = (*UserRepository)(nil)
	_ ports.RoleRepository = (*RoleRepository)(nil)
	_ ports.CityRepository = (*CityRepository)(nil)
	_ ports.OTPStore       = (*OTPStore)(nil)
)
