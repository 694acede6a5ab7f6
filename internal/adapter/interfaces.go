// Package adapter provides the transport layer for talking to a MicroPass
// server.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the HTTP protocol. The adapter never sees plaintext vault
// content: by the time a request body is built, cipher data is already an
// opaque ciphertext string, and responses are handed back undecrypted.
//
// Non-2xx responses are mapped to [*APIError], preserving the server's
// `{error, error_description}` body unchanged. The adapter never retries.
package adapter

import (
	"context"

	"github.com/micropass/micropass-go/models"
)

// ServerAdapter defines the wire operations of the MicroPass API. Methods
// taking a token attach it as a bearer Authorization header; the adapter
// itself holds no session state, so one adapter can serve any number of
// concurrent sessions.
type ServerAdapter interface {
	// Register creates a new account. The request must carry the final
	// password hash and the wrapped encryption key, never plaintext
	// credentials.
	Register(ctx context.Context, req models.RegisterRequest) error

	// Token exchanges a password or refresh-token grant for tokens.
	Token(ctx context.Context, req models.TokenRequest) (models.TokenResponse, error)

	// Whoami returns the profile of the authenticated user.
	Whoami(ctx context.Context, token string) (models.User, error)

	// EncryptionKey fetches the wrapped vault key stored at registration.
	EncryptionKey(ctx context.Context, token string) (string, error)

	// InsertCipher uploads an encrypted cipher and returns the
	// server-assigned id.
	InsertCipher(ctx context.Context, token string, req models.InsertRequest) (string, error)

	// GetCipher fetches the raw envelope JSON of a single cipher. The
	// body is returned undecoded so the codec can parse it strictly.
	GetCipher(ctx context.Context, token, id string) ([]byte, error)

	// UpdateCipher replaces the content of an existing cipher.
	UpdateCipher(ctx context.Context, token string, req models.UpdateRequest) error

	// DeleteCipher removes a cipher server-side.
	DeleteCipher(ctx context.Context, token, id string) error

	// ListCiphers returns the updated/deleted id sets. A nil lastSync
	// requests the full set of live ids.
	ListCiphers(ctx context.Context, token string, lastSync *int64) (models.SyncResponse, error)
}
