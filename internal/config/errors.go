package config

import "errors"

var (
	// ErrInvalidAdapterConfigs indicates invalid transport settings
	// (for example, a missing server base URL).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
