// Package store implements the local cipher cache. The cache only ever
// holds encrypted envelopes and the sync checkpoint; plaintext and key
// material never touch disk.
package store

import (
	"context"

	"github.com/micropass/micropass-go/models"
)

// CipherCache is the local mirror of the server-side cipher set, updated
// by the sync reconciler. Upserts are idempotent: the same id may be
// written any number of times.
type CipherCache interface {
	// Upsert inserts the envelope or replaces the one with the same id.
	Upsert(ctx context.Context, cipher models.EncryptedCipher) error

	// Get returns the cached envelope, or [ErrCacheMiss] if the id is
	// unknown.
	Get(ctx context.Context, id string) (models.EncryptedCipher, error)

	// Delete removes the envelope with the given id. Deleting an unknown
	// id is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns every cached envelope, in no particular order.
	List(ctx context.Context) ([]models.EncryptedCipher, error)

	// Checkpoint returns the persisted lastSync value, or 0 when no sync
	// has completed yet.
	Checkpoint(ctx context.Context) (int64, error)

	// SetCheckpoint persists the lastSync value replayed on the next
	// incremental list call.
	SetCheckpoint(ctx context.Context, lastSync int64) error

	// Close releases the underlying database handle.
	Close() error
}
