package service

import "github.com/micropass/micropass-go/models"

// SessionState is the explicit lifecycle tag of a client session.
type SessionState int

const (
	// Anonymous sessions hold no credentials.
	Anonymous SessionState = iota

	// Authenticated sessions hold tokens but no vault key: auth
	// lifecycle and delete/list work, cipher content does not.
	Authenticated

	// VaultUnlocked sessions additionally hold the vault encryption key.
	VaultUnlocked
)

// Session is an immutable snapshot of the client's auth state. Transitions
// produce new values (Anonymous → Authenticated via login, Authenticated →
// VaultUnlocked via unlock), so a session handed to a service never
// changes under it and is safe to share across goroutines.
type Session struct {
	state         SessionState
	accessToken   models.AccessToken
	refreshToken  string
	encryptionKey string
}

// NewAuthenticatedSession builds a session from a successful token
// response.
func NewAuthenticatedSession(accessToken, refreshToken string) Session {
	return Session{
		state:        Authenticated,
		accessToken:  models.AccessToken(accessToken),
		refreshToken: refreshToken,
	}
}

// WithAccessToken returns a copy of the session carrying a fresh access
// token, keeping state, refresh token, and key.
func (s Session) WithAccessToken(accessToken string) Session {
	s.accessToken = models.AccessToken(accessToken)
	return s
}

// WithEncryptionKey upgrades the session to [VaultUnlocked].
func (s Session) WithEncryptionKey(key string) Session {
	s.state = VaultUnlocked
	s.encryptionKey = key
	return s
}

// State returns the lifecycle tag of the session.
func (s Session) State() SessionState { return s.state }

// AccessToken returns the bearer token of the session.
func (s Session) AccessToken() models.AccessToken { return s.accessToken }

// RefreshToken returns the refresh token obtained at login.
func (s Session) RefreshToken() string { return s.refreshToken }

// NeedsRefresh reports whether the access token is absent or about to
// expire.
func (s Session) NeedsRefresh() bool {
	if s.state == Anonymous {
		return false
	}
	return s.accessToken.ExpiresWithin(tokenRefreshLeeway)
}
