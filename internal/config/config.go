// Package config assembles the client configuration from environment
// variables, command-line flags, and an optional JSON file. The three
// sources are merged in that order of precedence and validated once.
package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// MicroPass client. It is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds account-level settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the server address and outbound request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local cipher cache settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds background sync job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file,
	// merged on top of env and flag values when non-empty.
	// Populated via the CONFIG environment variable or the -c / -config
	// flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds account-level client settings.
type App struct {
	// Email is the account email. It doubles as the key-derivation salt,
	// verbatim: a differently-cased value derives different keys.
	// Env: APP_EMAIL
	Email string `env:"EMAIL"`
}

// Adapter holds network settings of the outbound transport.
type Adapter struct {
	// BaseURL is the MicroPass API root.
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single outbound request (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the local cache settings.
type Storage struct {
	// DB holds the sqlite cache location.
	DB DB `envPrefix:"DB_"`
}

// DB holds the sqlite cache location.
type DB struct {
	// Path is the cache database file. Empty selects an in-memory cache
	// that does not survive the process.
	// Env: STORAGE_DB_CACHE_PATH
	Path string `env:"CACHE_PATH"`
}

// Workers holds background job settings.
type Workers struct {
	// SyncInterval defines how often the background reconcile runs.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Defaults applied after merging when the sources left a field empty.
const (
	defaultRequestTimeout = 15 * time.Second
	defaultSyncInterval   = 5 * time.Minute
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.SyncInterval <= 0 {
		cfg.Workers.SyncInterval = defaultSyncInterval
	}
}

// validate checks that the final merged configuration satisfies the
// client invariants.
func (cfg *StructuredConfig) validate() error {
	if cfg.Adapter.BaseURL == "" {
		return ErrInvalidAdapterConfigs
	}
	return nil
}
