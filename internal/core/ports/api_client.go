package ports

import (
	"context"
	"net/url"
)

// APIRequest describes one call to the admin API.
type APIRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// SkipAuthRedirect disables session invalidation on 401. Login and OTP
	// calls set it so a failed attempt does not log the user out.
	SkipAuthRedirect bool
}

// APIClient sends requests to the admin API and decodes JSON responses into
// out (which may be nil).
type APIClient interface {
	Do(ctx context.Context, req APIRequest, out any) error
}
