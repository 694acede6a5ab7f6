package service

import "errors"

var (
	// ErrMissingKey is returned when a cipher-content operation is
	// invoked on a session without the vault encryption key. This is a
	// wiring mistake in the caller, not a runtime race: sessions are
	// immutable, so the key is either there from construction or never.
	ErrMissingKey = errors.New("vault encryption key required")

	// ErrNotAuthenticated is returned when an operation needs a bearer
	// token the session does not hold.
	ErrNotAuthenticated = errors.New("authenticated session required")
)
