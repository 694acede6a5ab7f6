package crypto

import "errors"

var (
	// ErrDecrypt covers every decryption failure: wrong key, truncated
	// blob, broken padding. Collapsing the causes avoids acting as a
	// padding oracle.
	ErrDecrypt = errors.New("decryption failed")

	// ErrKeyUnwrap is returned when the wrapped vault key cannot be
	// recovered. Indistinguishable from a wrong password by design.
	ErrKeyUnwrap = errors.New("cannot unwrap encryption key")

	// ErrDecode is returned for malformed JSON or an unexpected envelope
	// shape.
	ErrDecode = errors.New("malformed cipher envelope")

	// ErrEmptyPassword is returned when key derivation is attempted with
	// an empty password.
	ErrEmptyPassword = errors.New("password must not be empty")
)
