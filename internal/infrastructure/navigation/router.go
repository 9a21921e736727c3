// Package navigation tracks which screen the client is on.
package navigation

import (
	"strings"
	"sync"
)

const (
	LoginPath     = "/login"
	OTPPath       = "/auth/otp"
	DashboardPath = "/dashboard"
	RolesPath     = "/roles"
	CitiesPath    = "/villes"
)

// IsAuthRoute reports whether path is the login screen, the OTP screen, or
// one of their sub-paths.
func IsAuthRoute(path string) bool {
	return hasPathPrefix(path, LoginPath) || hasPathPrefix(path, OTPPath)
}

func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

// Router is an in-process Navigator. It keeps the list of navigations so
// callers can tell whether a redirect happened.
type Router struct {
	mu      sync.RWMutex
	current string
	history []string
}

// NewRouter starts on path.
func NewRouter(path string) *Router {
	return &Router{current: path}
}

func (r *Router) CurrentPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Navigate moves to path and records it.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
	r.history = append(r.history, path)
}

// History returns the recorded navigations, oldest first.
func (r *Router) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.history...)
}

// Redirected reports whether any navigation to path was recorded.
func (r *Router) Redirected(path string) bool {
	for _, p := range r.History() {
		if p == path {
			return true
		}
	}
	return false
}
