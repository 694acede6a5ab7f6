// Package crypto implements the client side of the zero-knowledge scheme:
// the password-derived key hierarchy and the cipher envelope codec.
//
// Key material travels as lowercase hex strings, the convention of the
// MicroPass wire protocol. The derivation chain is:
//
//	base    = stretch(password, salt=email, 100000 iterations, 32 bytes)
//	final   = stretch(base,     salt=email, 1 iteration,       64 bytes)
//	encKey  = stretch(base,     salt=random(32), 1 iteration,  32 bytes)
//	wrapped = encryptAesCbc(base, encKey)
//
// Only final and wrapped ever reach the server. The server cannot derive
// base from final, so it can never unwrap encKey.
package crypto

import "github.com/micropass/micropass-go/models"

// Provider exposes the cryptographic primitives the key chain and codec
// are built on. It exists as an interface so the higher layers can be
// tested with deterministic fakes and so the primitive implementations
// stay swappable.
type Provider interface {
	// DeriveKey stretches input with the given salt and iteration count
	// into a key of keyLen bytes, returned hex-encoded. Deterministic.
	DeriveKey(input, salt string, iterations, keyLen int) string

	// GenerateSalt returns size random bytes, hex-encoded.
	GenerateSalt(size int) (string, error)

	// Encrypt encrypts plaintext with the hex-encoded 32-byte key and
	// returns the ciphertext as hex: iv ‖ ct.
	Encrypt(keyHex, plaintext string) (string, error)

	// Decrypt reverses Encrypt. Any failure (bad key, malformed or
	// tampered ciphertext) surfaces as [ErrDecrypt]; the cause is
	// deliberately not distinguished.
	Decrypt(keyHex, ciphertext string) (string, error)
}

// AuthHashes is the pair of values derived from the user's credentials.
type AuthHashes struct {
	// Base wraps the vault key and never leaves the client.
	Base string

	// Final is what the server stores and verifies at login.
	Final string
}

// GeneratedKey is the result of registration-time key generation.
type GeneratedKey struct {
	// Key is the plaintext vault-encryption key.
	Key string

	// Wrapped is Key encrypted under the base password hash; safe to
	// store server-side.
	Wrapped string

	// Salt is the random salt the key was derived with.
	Salt string
}

// KeyChain turns user credentials into the authentication hash and the
// vault-encryption key.
type KeyChain interface {
	// DeriveAuthHash derives the base and final password hashes from the
	// credentials. The email is used verbatim as the salt: callers must
	// normalize case and whitespace themselves or the account becomes
	// unreachable. An empty password is an error.
	DeriveAuthHash(email, password string) (AuthHashes, error)

	// GenerateEncryptionKey creates a fresh vault key from the base hash
	// and a new random salt, and wraps it under the base hash. Called
	// exactly once, at registration: re-invoking it would orphan all
	// previously encrypted data.
	GenerateEncryptionKey(base string) (GeneratedKey, error)

	// UnwrapEncryptionKey decrypts the wrapped vault key with the base
	// hash. Fails with [ErrKeyUnwrap] if the blob is malformed or the
	// base hash is wrong; the two causes are not distinguishable.
	UnwrapEncryptionKey(base, wrapped string) (string, error)
}

// EnvelopeCodec converts ciphers between their plaintext client form and
// their encrypted wire form. An empty encryption key selects plaintext
// mode, used only for tests and offline construction.
type EnvelopeCodec interface {
	// ParseCipher decodes an envelope `{id, dir, data, created, updated}`.
	// With a key, data is treated as ciphertext and decrypted; without
	// one, data must be a plaintext object.
	ParseCipher(raw []byte, encryptionKey string) (models.Cipher, error)

	// SerializeCipher is the inverse of ParseCipher:
	// ParseCipher(SerializeCipher(c, k), k) == c for every valid c and k.
	SerializeCipher(cipher models.Cipher, encryptionKey string) ([]byte, error)

	// EncryptData encrypts the canonical JSON encoding of data.
	EncryptData(data models.CipherData, encryptionKey string) (string, error)

	// DecryptData decrypts and decodes a ciphertext produced by EncryptData.
	DecryptData(ciphertext, encryptionKey string) (models.CipherData, error)
}
