package models

// Wire-level request and response bodies of the MicroPass API. Field names
// follow the server contract exactly.

// Grant types accepted by the /identity/token endpoint.
const (
	GrantPassword     = "password"
	GrantRefreshToken = "refresh_token"
)

// RegisterRequest creates a new account. Password carries the final
// password hash, never the plaintext password; EncryptionKey carries the
// wrapped vault key.
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	PasswordHint  string `json:"password_hint,omitempty"`
	EncryptionKey string `json:"encryption_key"`
}

// TokenRequest requests an access token, either by password grant or by
// refresh-token grant.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenResponse is returned by /identity/token. RefreshToken is present
// only for the password grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// User is the /user/whoami response.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// EncryptionKeyResponse is the /user/encryption_key response. The value is
// the wrapped (AES-CBC encrypted) vault key; harmless without the base
// password hash.
type EncryptionKeyResponse struct {
	EncryptionKey string `json:"encryption_key"`
}

// InsertRequest is the /ciphers/insert body. Data must already be
// ciphertext when the request is built.
type InsertRequest struct {
	Data string `json:"data"`
}

// InsertResponse carries the server-assigned id of an inserted cipher.
type InsertResponse struct {
	ID string `json:"id"`
}

// UpdateRequest is the /ciphers/update body: a whole-record replace of the
// cipher content under an existing id.
type UpdateRequest struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// SyncResponse is the /ciphers/list response. Without a checkpoint Updated
// holds every live id and Deleted is empty; with a checkpoint both sets are
// deltas since that point. No ordering is guaranteed within either set.
type SyncResponse struct {
	Updated []string `json:"updated"`
	Deleted []string `json:"deleted"`
}
