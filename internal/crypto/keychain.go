package crypto

import (
	"encoding/hex"
	"fmt"
)

const (
	// PasswordIterations is the PBKDF2 iteration count for the base
	// password hash. Fixed by the protocol; changing it makes existing
	// accounts unreachable.
	PasswordIterations = 100000

	// Sizes of the derived keys, in bytes.
	baseKeyLen  = 32
	finalKeyLen = 64
	vaultKeyLen = 32

	// encryptionKeySaltLen is the random salt length used at
	// registration when the vault key is derived.
	encryptionKeySaltLen = 32
)

type keyChain struct {
	provider Provider
}

// NewKeyChain constructs a [KeyChain] on top of the given primitive
// provider.
func NewKeyChain(provider Provider) KeyChain {
	return &keyChain{provider: provider}
}

// DeriveAuthHash implements [KeyChain].
func (k *keyChain) DeriveAuthHash(email, password string) (AuthHashes, error) {
	if password == "" {
		return AuthHashes{}, ErrEmptyPassword
	}

	base := k.provider.DeriveKey(password, email, PasswordIterations, baseKeyLen)
	// The final hash is a single extra stretch over the already-expensive
	// base hash, so the server-side verifier stays cheap.
	final := k.provider.DeriveKey(base, email, 1, finalKeyLen)

	return AuthHashes{Base: base, Final: final}, nil
}

// GenerateEncryptionKey implements [KeyChain].
func (k *keyChain) GenerateEncryptionKey(base string) (GeneratedKey, error) {
	salt, err := k.provider.GenerateSalt(encryptionKeySaltLen)
	if err != nil {
		return GeneratedKey{}, fmt.Errorf("generate encryption key salt: %w", err)
	}

	key := k.provider.DeriveKey(base, salt, 1, vaultKeyLen)

	wrapped, err := k.provider.Encrypt(base, key)
	if err != nil {
		return GeneratedKey{}, fmt.Errorf("wrap encryption key: %w", err)
	}

	return GeneratedKey{Key: key, Wrapped: wrapped, Salt: salt}, nil
}

// UnwrapEncryptionKey implements [KeyChain]. The unwrapped value is
// validated as a hex key of the right size so a wrong base hash can never
// yield a garbage key that silently fails on vault data later.
func (k *keyChain) UnwrapEncryptionKey(base, wrapped string) (string, error) {
	key, err := k.provider.Decrypt(base, wrapped)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyUnwrap, err)
	}

	raw, err := hex.DecodeString(key)
	if err != nil || len(raw) != vaultKeyLen {
		return "", fmt.Errorf("%w: unwrapped value is not a %d-byte key", ErrKeyUnwrap, vaultKeyLen)
	}

	return key, nil
}
