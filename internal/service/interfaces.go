// Package service implements the vault client: the orchestration layer
// between the key chain, the envelope codec, the local cache, and the
// server adapter.
//
// Two chokepoints are enforced here and nowhere else: every mutating call
// encrypts cipher data before a request body is built, and every read
// decrypts before data is returned to the caller. No plaintext crosses
// the service/adapter boundary in either direction.
package service

import (
	"context"
	"time"

	"github.com/micropass/micropass-go/models"
)

// tokenRefreshLeeway is how close to expiry an access token may get
// before NeedsRefresh starts reporting true.
const tokenRefreshLeeway = 30 * time.Second

// IdentityService covers the auth lifecycle: pure key-chain plus
// transport, no envelope codec involved.
type IdentityService interface {
	// Register creates a new account. The server receives only the
	// final password hash and the wrapped vault key.
	Register(ctx context.Context, email, password, passwordHint string) error

	// Login performs a password-grant token exchange and returns an
	// [Authenticated] session.
	Login(ctx context.Context, email, password string) (Session, error)

	// Refresh exchanges the session's refresh token for a new access
	// token and returns the updated session.
	Refresh(ctx context.Context, session Session) (Session, error)
}

// UserService covers the account endpoints.
type UserService interface {
	// Whoami returns the authenticated user's profile.
	Whoami(ctx context.Context, session Session) (models.User, error)

	// Unlock fetches the wrapped vault key, re-derives the base password
	// hash from the credentials, unwraps the key, and returns a
	// [VaultUnlocked] session. A wrong password surfaces as
	// [crypto.ErrKeyUnwrap].
	Unlock(ctx context.Context, session Session, email, password string) (Session, error)
}

// CipherService covers vault CRUD. Insert, Get, and Update require a
// [VaultUnlocked] session and fail fast with [ErrMissingKey] otherwise;
// Delete and List never touch cipher content and only need
// [Authenticated].
type CipherService interface {
	// Insert encrypts data and uploads it, returning the server-assigned
	// id.
	Insert(ctx context.Context, data models.CipherData) (string, error)

	// Get fetches and decrypts a single cipher.
	Get(ctx context.Context, id string) (models.Cipher, error)

	// Update encrypts data and replaces the content of the cipher with
	// the given id.
	Update(ctx context.Context, id string, data models.CipherData) error

	// Delete removes the cipher server-side. The client keeps no
	// tombstone.
	Delete(ctx context.Context, id string) error

	// List returns the updated/deleted id sets since lastSync, or the
	// full live set when lastSync is nil.
	List(ctx context.Context, lastSync *int64) (models.SyncResponse, error)
}

// SyncService applies the server's delta sets to the local encrypted
// cache.
type SyncService interface {
	// Reconcile lists changes since the stored checkpoint, upserts every
	// updated envelope into the cache, removes every deleted id, and
	// advances the checkpoint. Per-item failures abort and propagate;
	// nothing is swallowed.
	Reconcile(ctx context.Context) error
}
