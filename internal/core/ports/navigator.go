package ports

import "time"

// Navigator exposes the client's current view and lets the transport move the
// user to another one.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// Reporter surfaces failures to the user. The notifier implements it.
type Reporter interface {
	Error(title, message string, duration ...time.Duration) string
}
