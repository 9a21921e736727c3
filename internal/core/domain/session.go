package domain

// Session is an immutable snapshot of the client's authentication state.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// AuthPayload is the data block returned by login and OTP verification.
type AuthPayload struct {
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	User        *User  `json:"user,omitempty"`
}
